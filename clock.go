package formbuilder

import (
	"fmt"
	"strings"
)

const minutesPerDay = 24 * 60

// Clock is a time of day with minute precision, stored as minutes since
// midnight. Its text form is the 24-hour "HH:MM" label.
type Clock int

// NewClock builds a Clock from an hour and a minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, NewInvalidTimeError("", fmt.Sprintf("%d:%d", hour, minute))
	}
	return Clock(hour*60 + minute), nil
}

// ParseClock parses "HH:MM". A trailing ":SS" as sent by browser time inputs
// is accepted and truncated.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, NewInvalidTimeError("", s)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, ok := parseTwoDigits(part)
		if !ok {
			return 0, NewInvalidTimeError("", s)
		}
		values[i] = v
	}
	if len(values) == 3 && values[2] > 59 {
		return 0, NewInvalidTimeError("", s)
	}

	c, err := NewClock(values[0], values[1])
	if err != nil {
		return 0, NewInvalidTimeError("", s)
	}
	return c, nil
}

// MustParseClock is ParseClock for constants; it panics on invalid input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseTwoDigits(s string) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Valid reports whether c lies within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, NewInvalidTimeError("", fmt.Sprintf("%d minutes", int(c)))
	}
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
