package service

import (
	"strconv"
	"time"

	"gestionabsence_backend/internals/helpers/dbtime"
)

// AbsenceKey identifies one absence for de-duplication.
type AbsenceKey struct {
	StudentID uint
	SlotID    uint
	Date      time.Time
	CourseID  uint
}

// SlotRef is a candidate slot the student may have attended.
type SlotRef struct {
	ID       uint
	Date     time.Time
	CourseID uint
}

// KeyFunc groups slots that count as "the same class".
type KeyFunc func(date time.Time, courseID uint) string

// DayCourseKey: same course on the same UTC day.
func DayCourseKey(date time.Time, courseID uint) string {
	return dbtime.DateKey(date) + "|" + strconv.FormatUint(uint64(courseID), 10)
}

// DayKey: same UTC day; used when every slot already belongs to one course.
func DayKey(date time.Time, _ uint) string {
	return dbtime.DateKey(date)
}

// KeepAbsences reports, index-aligned with absences, which absences survive.
// An absence is dropped when the student attended (has no absence row on)
// another slot sharing its key. The absences list must hold every absence of
// the students involved within the candidate slots, otherwise missed slots are
// mistaken for attended ones.
func KeepAbsences(absences []AbsenceKey, slots []SlotRef, key KeyFunc) []bool {
	absent := make(map[uint]map[uint]struct{})
	for _, a := range absences {
		set, ok := absent[a.StudentID]
		if !ok {
			set = make(map[uint]struct{})
			absent[a.StudentID] = set
		}
		set[a.SlotID] = struct{}{}
	}

	attended := make(map[uint]map[string]struct{}, len(absent))
	for studentID, missed := range absent {
		keys := make(map[string]struct{})
		for _, s := range slots {
			if _, isAbsent := missed[s.ID]; isAbsent {
				continue
			}
			keys[key(s.Date, s.CourseID)] = struct{}{}
		}
		attended[studentID] = keys
	}

	keep := make([]bool, len(absences))
	for i, a := range absences {
		_, wasThere := attended[a.StudentID][key(a.Date, a.CourseID)]
		keep[i] = !wasThere
	}
	return keep
}

// FilterAbsences applies KeepAbsences to any row type.
func FilterAbsences[T any](rows []T, keyOf func(T) AbsenceKey, slots []SlotRef, key KeyFunc) []T {
	keys := make([]AbsenceKey, len(rows))
	for i, r := range rows {
		keys[i] = keyOf(r)
	}
	keep := KeepAbsences(keys, slots, key)
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}
