package dbtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodParseAndJSON(t *testing.T) {
	for _, in := range []string{"08:30", "08:30:00", "08:30:00.000000", "2025-01-10T08:30:00Z"} {
		tod, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, "08:30:00", tod.String(), in)
	}

	_, err := Parse("8h30")
	assert.Error(t, err)

	b, err := json.Marshal(MustParse("14:05:09"))
	require.NoError(t, err)
	assert.JSONEq(t, `"14:05"`, string(b))

	var back Tod
	require.NoError(t, json.Unmarshal([]byte(`"10:15"`), &back))
	assert.Equal(t, "10:15:00", back.String())
}

func TestTodScan(t *testing.T) {
	var tod Tod
	require.NoError(t, tod.Scan([]byte("09:00:00")))
	assert.Equal(t, "09:00:00", tod.String())

	require.NoError(t, tod.Scan(time.Date(2025, 3, 1, 17, 45, 0, 0, time.UTC)))
	assert.Equal(t, "17:45:00", tod.String())

	assert.Error(t, tod.Scan(42))
}

func TestParseDay(t *testing.T) {
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"10/01/2025", "2025-01-10", "2025-01-10T15:04:05Z", "2025-01-10T23:30:00.000Z"} {
		got, err := ParseDay(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s → %s", in, got)
	}

	_, err := ParseDay("32/01/2025")
	assert.Error(t, err)
	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestDayRangeUTC(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	start, end := DayRangeUTC(time.Date(2025, 1, 10, 0, 30, 0, 0, paris))
	// 00:30 in Paris is still 9 January in UTC
	assert.Equal(t, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekRange(t *testing.T) {
	// Sunday 12 January 2025
	start, end := WeekRange(time.Date(2025, 1, 12, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), end)

	// Monday stays on itself
	start, _ = WeekRange(time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), start)
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2025-01-10", DateKey(time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC)))
}
