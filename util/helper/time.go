package helper_util

import (
	"time"
)

// ParseOptionalTime accepts RFC 3339 timestamps and plain dates. An empty
// string yields nil. With endOfDay set a plain date covers the whole day.
func ParseOptionalTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
