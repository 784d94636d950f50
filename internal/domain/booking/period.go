package booking

import "time"

// Period is a half-open time interval [start, end) with start strictly before end.
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod validates and creates a Period.
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Period{}, ErrInvalidTimeRange
	}
	return Period{start: start.UTC(), end: end.UTC()}, nil
}

// Start returns the inclusive lower bound.
func (p Period) Start() time.Time { return p.start }

// End returns the exclusive upper bound.
func (p Period) End() time.Time { return p.end }

// Contains reports whether t lies in [start, end).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.end)
}

// EndedBefore reports whether the period finished strictly before t.
func (p Period) EndedBefore(t time.Time) bool {
	return p.end.Before(t)
}

// StartsAfter reports whether the period begins strictly after t.
func (p Period) StartsAfter(t time.Time) bool {
	return p.start.After(t)
}

// Overlaps reports whether the two periods share at least one instant.
func (p Period) Overlaps(other Period) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}
