package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeLayout is the wire format of meeting times, always in UTC.
const DateTimeLayout = "2006-01-02 15:04"

// DateTime is a minute-precision UTC timestamp encoded as "2006-01-02 15:04".
// RFC 3339 input is accepted too.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to the minute and converts it to UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC().Truncate(time.Minute)}
}

// ParseDateTime parses either layout.
func ParseDateTime(value string) (DateTime, error) {
	if t, err := time.ParseInLocation(DateTimeLayout, value, time.UTC); err == nil {
		return NewDateTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid dateTime %q: expected format yyyy-MM-dd HH:mm", value)
	}
	return NewDateTime(t), nil
}

func (d DateTime) String() string {
	return d.UTC().Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid dateTime: expected a string")
	}

	parsed, err := ParseDateTime(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NotBefore reports whether d is at or after the minute containing now.
func (d DateTime) NotBefore(now time.Time) bool {
	return !d.Before(now.UTC().Truncate(time.Minute))
}
