// Package datetime decodes request timestamps. Clients may send RFC 3339
// values or zone-less local date-times, which are read as UTC.
package datetime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalLayout is the zone-less form, e.g. 2026-01-01T12:00:00.
const LocalLayout = "2006-01-02T15:04:05.999999999"

// DateTime is a time.Time that also accepts LocalLayout on decode.
type DateTime struct {
	time.Time
}

// Parse reads s as RFC 3339, falling back to LocalLayout in UTC.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(LocalLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q", s)
	}
	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the zero time.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr returns the wrapped time, or nil when d is nil.
func (d *DateTime) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
