package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a time of day stored in a Postgres TIME column.
type Tod struct{ time.Time }

// From keeps only HH:mm:ss of t.
func From(t time.Time) Tod {
	return Tod{Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// Parse accepts "HH:mm", "HH:mm:ss" or a full RFC3339 timestamp.
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = From(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		*t = From(ts)
		return nil
	}
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	if len(s) > 8 { // "HH:MM:SS.ffffff"
		s = s[:8]
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: invalid time %q", s)
	}
	*t = From(tt)
	return nil
}

func (t Tod) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t Tod) String() string {
	return t.Format("15:04:05")
}

// HourMinute is the short form shown to professors.
func (t Tod) HourMinute() string {
	return t.Format("15:04")
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.HourMinute())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
