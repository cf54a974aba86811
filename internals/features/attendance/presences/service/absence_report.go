package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	"gestionabsence_backend/internals/features/attendance/presences/dto"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/dbtime"
)

const (
	reportCachePrefix = "absences:"
	reportCacheTTL    = 5 * time.Minute
)

type absenceRecord struct {
	StudentID         uint
	SlotID            uint
	Name              string
	StudentNumber     string
	Date              time.Time
	StartTime         dbtime.Tod
	EndTime           dbtime.Tod
	SessionType       string
	CourseID          uint
	CourseMaterial    string
	Justified         bool
	JustificationFile *string
}

func (r absenceRecord) key() AbsenceKey {
	return AbsenceKey{StudentID: r.StudentID, SlotID: r.SlotID, Date: r.Date, CourseID: r.CourseID}
}

func absenceQuery(db *gorm.DB) *gorm.DB {
	return db.Table("presences AS p").
		Select(`p.student_id, p.slot_id, st.name AS name, st.student_number,
			s.date, s.start_time, s.end_time,
			stg.name AS session_type, cm.id AS course_id, cm.name AS course_material,
			p.justified, p.justification_file`).
		Joins("JOIN students st ON st.id = p.student_id").
		Joins("JOIN slots s ON s.id = p.slot_id").
		Joins("JOIN session_types t ON t.id = s.session_type_id").
		Joins("JOIN session_type_globals stg ON stg.id = t.session_type_global_id").
		Joins("JOIN course_materials cm ON cm.id = t.course_material_id").
		Order("s.date ASC, s.start_time ASC, st.name ASC")
}

func slotRefQuery(db *gorm.DB) *gorm.DB {
	return db.Table("slots AS s").
		Select("s.id, s.date, t.course_material_id AS course_id").
		Joins("JOIN session_types t ON t.id = s.session_type_id")
}

func loadFiltered(absQ, slotQ *gorm.DB, key KeyFunc) ([]absenceRecord, error) {
	var rows []absenceRecord
	if err := absQ.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load absences: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	var slots []SlotRef
	if err := slotQ.Scan(&slots).Error; err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	return FilterAbsences(rows, absenceRecord.key, slots, key), nil
}

/* ===================== BY YEAR ===================== */

// AbsencesByYear reports the absences of students enrolled in the year's semesters,
// dropping those compensated by another session of the same course that day.
func AbsencesByYear(db *gorm.DB, year int) ([]dto.YearAbsenceDTO, error) {
	names := semesterService.NamesForYear(year)
	enrolled := db.Table("inscriptions AS i").
		Select("i.student_id").
		Joins("JOIN groups g ON g.id = i.group_id").
		Joins("JOIN semesters sm ON sm.id = g.semester_id").
		Where("sm.name IN ?", names)

	slotQ := slotRefQuery(db).
		Joins("JOIN course_materials cm ON cm.id = t.course_material_id").
		Joins("JOIN semesters sm ON sm.id = cm.semester_id").
		Where("sm.name IN ?", names)

	rows, err := loadFiltered(absenceQuery(db).Where("p.student_id IN (?)", enrolled), slotQ, DayCourseKey)
	if err != nil {
		return nil, err
	}
	out := make([]dto.YearAbsenceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.YearAbsenceDTO{
			Name:           r.Name,
			StudentNumber:  r.StudentNumber,
			Date:           r.Date,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			SessionType:    r.SessionType,
			CourseMaterial: r.CourseMaterial,
			Justified:      r.Justified,
			StudentID:      r.StudentID,
			SlotID:         r.SlotID,
		})
	}
	return out, nil
}

// CachedAbsencesByYear serves AbsencesByYear through the report cache when one is configured.
func CachedAbsencesByYear(ctx context.Context, db *gorm.DB, rc *cache.Cache, year int) ([]dto.YearAbsenceDTO, error) {
	key := fmt.Sprintf("%syear:%d", reportCachePrefix, year)
	var cached []dto.YearAbsenceDTO
	if rc.GetJSON(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := AbsencesByYear(db.WithContext(ctx), year)
	if err != nil {
		return nil, err
	}
	rc.SetJSON(ctx, key, rows, reportCacheTTL)
	return rows, nil
}

// InvalidateReports drops cached reports after any write that changes absences.
func InvalidateReports(ctx context.Context, rc *cache.Cache) {
	if rc == nil {
		return
	}
	rc.DeletePrefix(ctx, reportCachePrefix)
	log.Println("[CACHE] absence reports invalidated")
}

/* ===================== BY STUDENT ===================== */

func AbsencesByStudent(db *gorm.DB, studentID uint) ([]dto.StudentAbsenceDTO, error) {
	rows, err := loadFiltered(absenceQuery(db).Where("p.student_id = ?", studentID), slotRefQuery(db), DayCourseKey)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StudentAbsenceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StudentAbsenceDTO{
			CourseMaterial:    r.CourseMaterial,
			SessionType:       r.SessionType,
			Date:              r.Date,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			CourseID:          r.CourseID,
			Justified:         r.Justified,
			StudentID:         r.StudentID,
			SlotID:            r.SlotID,
			JustificationFile: r.JustificationFile,
		})
	}
	return out, nil
}

/* ===================== BY COURSE ===================== */

func AbsencesByCourse(db *gorm.DB, courseID uint) ([]dto.CourseAbsenceDTO, error) {
	rows, err := loadFiltered(
		absenceQuery(db).Where("t.course_material_id = ?", courseID),
		slotRefQuery(db).Where("t.course_material_id = ?", courseID),
		DayKey,
	)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseAbsenceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CourseAbsenceDTO{
			ID:                fmt.Sprintf("%d-%d", r.StudentID, r.SlotID),
			Name:              r.Name,
			StudentNumber:     r.StudentNumber,
			Date:              r.Date,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			SessionType:       r.SessionType,
			CourseMaterial:    r.CourseMaterial,
			Justified:         r.Justified,
			JustificationFile: r.JustificationFile,
			StudentID:         r.StudentID,
			SlotID:            r.SlotID,
		})
	}
	return out, nil
}
