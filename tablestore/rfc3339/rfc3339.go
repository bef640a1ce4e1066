// Package rfc3339 parses and formats RFC 3339 timestamps the way the service
// emits them: UTC, with fractional seconds printed in the shortest group of
// three digits that loses no precision.
package rfc3339

import (
	"fmt"
	"time"
)

// Parse converts an RFC 3339 timestamp, with or without fractional seconds
// and with any UTC offset, into a time.Time.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RFC3339 timestamp %q: %w", value, err)
	}
	return t, nil
}

// Format renders t in UTC. Fractional seconds are omitted when zero and
// otherwise printed with millisecond, microsecond, or nanosecond precision,
// whichever is the shortest exact representation.
func Format(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	nanos := t.Nanosecond()
	switch {
	case nanos == 0:
		return base + "Z"
	case nanos%int(time.Millisecond) == 0:
		return fmt.Sprintf("%s.%03dZ", base, nanos/int(time.Millisecond))
	case nanos%int(time.Microsecond) == 0:
		return fmt.Sprintf("%s.%06dZ", base, nanos/int(time.Microsecond))
	default:
		return fmt.Sprintf("%s.%09dZ", base, nanos)
	}
}

// Time is a time.Time that marshals to and from JSON as an RFC 3339 string
// in the service's format.
type Time time.Time

func (t Time) AsTime() time.Time {
	return time.Time(t)
}

func (t Time) String() string {
	return Format(time.Time(t))
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Format(time.Time(t)) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid RFC3339 timestamp %s: not a JSON string", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}
