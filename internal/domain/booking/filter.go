package booking

import "time"

// Filter selects bookings by their temporal class or status at a given instant.
type Filter string

const (
	FilterAll      Filter = "ALL"
	FilterCurrent  Filter = "CURRENT"
	FilterPast     Filter = "PAST"
	FilterFuture   Filter = "FUTURE"
	FilterWaiting  Filter = "WAITING"
	FilterRejected Filter = "REJECTED"
)

var knownFilters = map[Filter]struct{}{
	FilterAll:      {},
	FilterCurrent:  {},
	FilterPast:     {},
	FilterFuture:   {},
	FilterWaiting:  {},
	FilterRejected: {},
}

// ParseFilter converts a request parameter to a Filter. An empty value means ALL;
// matching is case-sensitive.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(s)
	if _, ok := knownFilters[f]; !ok {
		return "", ErrUnsupportedFilter
	}
	return f, nil
}

// Matches reports whether b belongs to the filter class evaluated at now.
func (f Filter) Matches(b *Booking, now time.Time) bool {
	switch f {
	case FilterAll:
		return true
	case FilterCurrent:
		return b.period.Contains(now)
	case FilterPast:
		return b.period.EndedBefore(now)
	case FilterFuture:
		return b.period.StartsAfter(now)
	case FilterWaiting:
		return b.status == StatusWaiting
	case FilterRejected:
		return b.status == StatusRejected
	default:
		return false
	}
}

// String returns the string representation of the filter.
func (f Filter) String() string {
	return string(f)
}
