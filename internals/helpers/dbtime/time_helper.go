package dbtime

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gestionabsence_backend/internals/configs"
)

var (
	campusOnce sync.Once
	campusLoc  *time.Location
)

// CampusLocation reads APP_TIMEZONE once, Europe/Paris by default, UTC as last fallback.
func CampusLocation() *time.Location {
	campusOnce.Do(func() {
		name := configs.GetEnv("APP_TIMEZONE", "Europe/Paris")
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Printf("[WARN] invalid APP_TIMEZONE %q: %v, using UTC", name, err)
			loc = time.UTC
		}
		campusLoc = loc
	})
	return campusLoc
}

func NowOnCampus() time.Time {
	return time.Now().In(CampusLocation())
}

// DayRangeUTC returns [00:00, next 00:00) of the calendar day of t, in UTC.
func DayRangeUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// WeekRange returns Monday 00:00 to next Monday 00:00 around t, in t's location.
func WeekRange(t time.Time) (time.Time, time.Time) {
	offset := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// DateKey formats the UTC calendar day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDay accepts DD/MM/YYYY, YYYY-MM-DD or an RFC3339 timestamp and
// returns midnight UTC of that calendar day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	layouts := []string{"02/01/2006", "2006-01-02", time.RFC3339, time.RFC3339Nano}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.RFC3339 || layout == time.RFC3339Nano {
				t = t.UTC()
			}
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected DD/MM/YYYY or YYYY-MM-DD)", s)
}
