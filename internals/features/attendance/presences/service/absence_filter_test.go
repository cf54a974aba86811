package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestKeepAbsences(t *testing.T) {
	// course 10 has two slots on the 3rd (1, 2) and one on the 4th (3); course 20 has slot 4 on the 3rd
	slots := []SlotRef{
		{ID: 1, Date: day(3, 0), CourseID: 10},
		{ID: 2, Date: day(3, 0), CourseID: 10},
		{ID: 3, Date: day(4, 0), CourseID: 10},
		{ID: 4, Date: day(3, 0), CourseID: 20},
	}

	tests := []struct {
		name     string
		absences []AbsenceKey
		want     []bool
	}{
		{
			name:     "attended the other session of the same course that day",
			absences: []AbsenceKey{{StudentID: 1, SlotID: 1, Date: day(3, 0), CourseID: 10}},
			want:     []bool{false},
		},
		{
			name: "missed every session of the course that day",
			absences: []AbsenceKey{
				{StudentID: 1, SlotID: 1, Date: day(3, 0), CourseID: 10},
				{StudentID: 1, SlotID: 2, Date: day(3, 0), CourseID: 10},
			},
			want: []bool{true, true},
		},
		{
			name:     "attending another course the same day does not count",
			absences: []AbsenceKey{{StudentID: 2, SlotID: 3, Date: day(4, 0), CourseID: 10}},
			want:     []bool{true},
		},
		{
			name: "students are independent",
			absences: []AbsenceKey{
				{StudentID: 1, SlotID: 1, Date: day(3, 0), CourseID: 10},
				{StudentID: 1, SlotID: 2, Date: day(3, 0), CourseID: 10},
				{StudentID: 2, SlotID: 1, Date: day(3, 0), CourseID: 10},
			},
			want: []bool{true, true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeepAbsences(tt.absences, slots, DayCourseKey))
		})
	}
}

func TestKeepAbsencesUsesUTCDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("no tzdata")
	}
	// 00:30 in Paris on the 4th is still the 3rd in UTC
	slots := []SlotRef{
		{ID: 1, Date: day(3, 0), CourseID: 10},
		{ID: 2, Date: time.Date(2025, 3, 4, 0, 30, 0, 0, paris), CourseID: 10},
	}
	absences := []AbsenceKey{{StudentID: 1, SlotID: 1, Date: day(3, 0), CourseID: 10}}
	assert.Equal(t, []bool{false}, KeepAbsences(absences, slots, DayCourseKey))
}

func TestFilterAbsencesByDay(t *testing.T) {
	type row struct {
		student, slot uint
		date          time.Time
	}
	slots := []SlotRef{
		{ID: 1, Date: day(3, 0)},
		{ID: 2, Date: day(3, 0)},
		{ID: 3, Date: day(5, 0)},
	}
	rows := []row{{1, 1, day(3, 0)}, {1, 3, day(5, 0)}}

	got := FilterAbsences(rows, func(r row) AbsenceKey {
		return AbsenceKey{StudentID: r.student, SlotID: r.slot, Date: r.date}
	}, slots, DayKey)

	assert.Equal(t, []row{{1, 3, day(5, 0)}}, got)
}

func TestKeepAbsencesEmpty(t *testing.T) {
	assert.Empty(t, KeepAbsences(nil, nil, DayCourseKey))
	assert.Equal(t, []bool{true}, KeepAbsences([]AbsenceKey{{StudentID: 1, SlotID: 9, Date: day(3, 0)}}, nil, DayCourseKey))
}
