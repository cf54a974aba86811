package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	courseService "gestionabsence_backend/internals/features/academics/course_materials/service"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	sessionTypeService "gestionabsence_backend/internals/features/academics/session_types/service"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/dbtime"
)

var (
	ErrSlotNotFound  = errors.New("Créneau introuvable")
	ErrInvalidDate   = errors.New("Date invalide")
	ErrInvalidTimes  = errors.New("L'heure de fin doit être après l'heure de début")
	ErrNothingToSave = errors.New("Aucun champ à mettre à jour")
)

const defaultSlotLength = 2 * time.Hour

// SessionLookup identifies a slot the way a professor picks it: group, course name, session type, day.
type SessionLookup struct {
	GroupID             uint
	CourseName          string
	SessionTypeGlobalID uint
	Date                time.Time
	StartTime           *dbtime.Tod
	EndTime             *dbtime.Tod
}

func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("SessionType.SessionTypeGlobal").
		Preload("SessionType.CourseMaterial").
		Preload("Group")
}

/* ===================== READ ===================== */

func List(db *gorm.DB) ([]slotModel.SlotModel, error) {
	var rows []slotModel.SlotModel
	err := withRefs(db).Order("date DESC, start_time ASC").Find(&rows).Error
	return rows, err
}

func Get(db *gorm.DB, id uint) (*slotModel.SlotModel, error) {
	var s slotModel.SlotModel
	if err := withRefs(db).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListBetween returns the slots whose date falls in [from, to), optionally for one professor.
func ListBetween(db *gorm.DB, from, to time.Time, professorID uint) ([]slotModel.SlotModel, error) {
	q := withRefs(db).Where("date >= ? AND date < ?", datatypes.Date(from), datatypes.Date(to))
	if professorID != 0 {
		q = q.Where("professor_id = ?", professorID)
	}
	var rows []slotModel.SlotModel
	err := q.Order("date ASC, start_time ASC").Find(&rows).Error
	return rows, err
}

// ListByDay uses the UTC calendar day of day.
func ListByDay(db *gorm.DB, day time.Time, professorID uint) ([]slotModel.SlotModel, error) {
	from, to := dbtime.DayRangeUTC(day)
	return ListBetween(db, from, to, professorID)
}

// WeekDates returns the Monday and next Monday of now's week as UTC calendar dates.
func WeekDates(now time.Time) (time.Time, time.Time) {
	start, end := dbtime.WeekRange(now)
	utcDate := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return utcDate(start), utcDate(end)
}

// ListWeek lists every professor's slots of the current campus week.
func ListWeek(db *gorm.DB, now time.Time) ([]slotModel.SlotModel, error) {
	from, to := WeekDates(now.In(dbtime.CampusLocation()))
	return ListBetween(db, from, to, 0)
}

/* ===================== RECENT CALLS ===================== */

const (
	recentCallsLimit = 20
	recentCallsScan  = 200
)

// RecentSlot is the part of a slot a call template is built from.
type RecentSlot struct {
	Date                time.Time
	GroupID             *uint
	GroupName           string
	CourseName          string
	SessionType         string
	SessionTypeGlobalID uint
}

// RecentCall is a template the professor can re-open in one click.
type RecentCall struct {
	Key                 string `json:"key"`
	GroupID             uint   `json:"groupId"`
	GroupName           string `json:"groupName"`
	CourseName          string `json:"courseName"`
	SessionType         string `json:"sessionType"`
	SessionTypeGlobalID uint   `json:"sessionTypeGlobalId"`
	DisplayText         string `json:"displayText"`
}

// BuildRecentCalls keeps the first limit slots (newest first) falling on dayOfWeek
// (0 = Sunday, nil = any) and folds them into unique templates.
// Slots detached from their group are skipped.
func BuildRecentCalls(slots []RecentSlot, dayOfWeek *int, limit int) []RecentCall {
	out := []RecentCall{}
	seen := map[string]struct{}{}
	taken := 0
	for _, s := range slots {
		if dayOfWeek != nil && int(s.Date.UTC().Weekday()) != *dayOfWeek {
			continue
		}
		if taken == limit {
			break
		}
		taken++
		if s.GroupID == nil || s.CourseName == "" || s.SessionType == "" {
			continue
		}
		key := fmt.Sprintf("%d-%s-%s", *s.GroupID, s.CourseName, s.SessionType)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, RecentCall{
			Key:                 key,
			GroupID:             *s.GroupID,
			GroupName:           s.GroupName,
			CourseName:          s.CourseName,
			SessionType:         s.SessionType,
			SessionTypeGlobalID: s.SessionTypeGlobalID,
			DisplayText:         fmt.Sprintf("%s (%s) - %s", s.CourseName, s.SessionType, s.GroupName),
		})
	}
	return out
}

func toRecentSlot(s *slotModel.SlotModel) RecentSlot {
	r := RecentSlot{Date: time.Time(s.Date), GroupID: s.GroupID}
	if s.Group != nil {
		r.GroupName = s.Group.Name
	}
	if st := s.SessionType; st != nil {
		if st.CourseMaterial != nil {
			r.CourseName = st.CourseMaterial.Name
		}
		if st.SessionTypeGlobal != nil {
			r.SessionType = st.SessionTypeGlobal.Name
			r.SessionTypeGlobalID = st.SessionTypeGlobal.ID
		}
	}
	return r
}

func RecentCalls(db *gorm.DB, professorID uint, dayOfWeek *int) ([]RecentCall, error) {
	var rows []slotModel.SlotModel
	err := withRefs(db).
		Where("professor_id = ?", professorID).
		Order("date DESC, start_time DESC").
		Limit(recentCallsScan).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	recent := make([]RecentSlot, 0, len(rows))
	for i := range rows {
		recent = append(recent, toRecentSlot(&rows[i]))
	}
	return BuildRecentCalls(recent, dayOfWeek, recentCallsLimit), nil
}

/* ===================== BY SESSION ===================== */

func findSlot(db *gorm.DB, day time.Time, sessionTypeID, groupID, professorID uint) (*slotModel.SlotModel, error) {
	var s slotModel.SlotModel
	err := db.Where("date = ? AND session_type_id = ? AND group_id = ? AND professor_id = ?",
		datatypes.Date(day), sessionTypeID, groupID, professorID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func defaultTimes(in SessionLookup, now time.Time) (dbtime.Tod, dbtime.Tod, error) {
	start := dbtime.From(now)
	if in.StartTime != nil {
		start = *in.StartTime
	}
	end := dbtime.From(start.Add(defaultSlotLength))
	if !end.After(start.Time) {
		end = dbtime.MustParse("23:59:59")
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if !end.After(start.Time) {
		return start, end, ErrInvalidTimes
	}
	return start, end, nil
}

// UpsertBySession finds or creates, in one transaction, the course material (in the
// group's semester), its session type and the professor's slot for that day.
func UpsertBySession(db *gorm.DB, professorID uint, in SessionLookup) (*slotModel.SlotModel, bool, error) {
	start, end, err := defaultTimes(in, dbtime.NowOnCampus())
	if err != nil {
		return nil, false, err
	}
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)

	var (
		out     *slotModel.SlotModel
		created bool
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		group, err := groupService.Get(tx, in.GroupID)
		if err != nil {
			return err
		}
		course, err := courseService.FindOrCreateByName(tx, group.SemesterID, in.CourseName)
		if err != nil {
			return err
		}
		st, err := sessionTypeService.Upsert(tx, in.SessionTypeGlobalID, course.ID)
		if err != nil {
			return err
		}

		existing, err := findSlot(tx, day, st.ID, group.ID, professorID)
		switch {
		case err == nil:
			out = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		gid := group.ID
		s := &slotModel.SlotModel{
			Date:          datatypes.Date(day),
			StartTime:     start,
			EndTime:       end,
			SessionTypeID: st.ID,
			GroupID:       &gid,
			ProfessorID:   professorID,
		}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		out, created = s, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	full, err := Get(db, out.ID)
	if err != nil {
		return nil, false, err
	}
	return full, created, nil
}

// SearchBySession is UpsertBySession without writes; (nil, nil) when any link is missing.
func SearchBySession(db *gorm.DB, professorID uint, in SessionLookup) (*slotModel.SlotModel, error) {
	if _, err := groupService.Get(db, in.GroupID); err != nil {
		if errors.Is(err, groupService.ErrGroupNotFound) {
			return nil, nil
		}
		return nil, err
	}
	course, err := courseService.FindByName(db, in.CourseName)
	if err != nil {
		if errors.Is(err, courseService.ErrCourseMaterialNotFound) {
			return nil, nil
		}
		return nil, err
	}
	st, err := sessionTypeService.Find(db, in.SessionTypeGlobalID, course.ID)
	if err != nil {
		if errors.Is(err, sessionTypeService.ErrSessionTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)
	s, err := findSlot(db, day, st.ID, in.GroupID, professorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return Get(db, s.ID)
}

/* ===================== WRITE ===================== */

// SlotPatch carries the fields of PUT /api/slot/:id that were sent.
type SlotPatch struct {
	Date          *time.Time
	StartTime     *dbtime.Tod
	EndTime       *dbtime.Tod
	GroupID       *uint
	SessionTypeID *uint
}

func Update(db *gorm.DB, id uint, p SlotPatch) (*slotModel.SlotModel, error) {
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if p.Date != nil {
		updates["date"] = datatypes.Date(*p.Date)
	}
	start, end := s.StartTime, s.EndTime
	if p.StartTime != nil {
		start = *p.StartTime
		updates["start_time"] = start
	}
	if p.EndTime != nil {
		end = *p.EndTime
		updates["end_time"] = end
	}
	if !end.After(start.Time) {
		return nil, ErrInvalidTimes
	}
	if p.GroupID != nil {
		if _, err := groupService.Get(db, *p.GroupID); err != nil {
			return nil, err
		}
		updates["group_id"] = *p.GroupID
	}
	if p.SessionTypeID != nil {
		var n int64
		if err := db.Model(&sessionTypeModel.SessionTypeModel{}).Where("id = ?", *p.SessionTypeID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, sessionTypeService.ErrSessionTypeNotFound
		}
		updates["session_type_id"] = *p.SessionTypeID
	}
	if len(updates) == 0 {
		return nil, ErrNothingToSave
	}
	if err := db.Model(&slotModel.SlotModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: un créneau identique existe déjà", gorm.ErrDuplicatedKey)
		}
		return nil, err
	}
	return Get(db, id)
}

func deleteSlotsTx(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("slot_id IN ?", ids).Delete(&presenceModel.PresenceModel{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&slotModel.SlotModel{})
	return res.RowsAffected, res.Error
}

func Delete(db *gorm.DB, id uint) (*slotModel.SlotModel, error) {
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := deleteSlotsTx(tx, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func DeleteAll(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&slotModel.SlotModel{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		n, err := deleteSlotsTx(tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}
