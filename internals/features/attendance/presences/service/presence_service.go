package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	helper "gestionabsence_backend/internals/helpers"
)

var (
	ErrPresenceNotFound = errors.New("Absence introuvable")
	ErrSlotNotFound     = errors.New("Créneau introuvable")
	ErrStudentNotFound  = errors.New("Étudiant introuvable")
	ErrAlreadyAbsent    = errors.New("Absence déjà enregistrée")
	ErrNoJustification  = errors.New("Aucun justificatif pour cette absence")
)

func ensureSlot(db *gorm.DB, slotID uint) error {
	var n int64
	if err := db.Model(&slotModel.SlotModel{}).Where("id = ?", slotID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// knownStudents returns the subset of ids that exist, in input order.
func knownStudents(db *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := db.Model(&studentModel.StudentModel{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	out := make([]uint, 0, len(found))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func rowsFor(slotID uint, studentIDs []uint) []presenceModel.PresenceModel {
	rows := make([]presenceModel.PresenceModel, 0, len(studentIDs))
	for _, sid := range studentIDs {
		rows = append(rows, presenceModel.PresenceModel{StudentID: sid, SlotID: slotID})
	}
	return rows
}

/* ===================== READ ===================== */

func ListBySlot(db *gorm.DB, slotID uint) ([]presenceModel.PresenceModel, error) {
	var rows []presenceModel.PresenceModel
	err := db.Where("slot_id = ?", slotID).Order("student_id ASC").Find(&rows).Error
	return rows, err
}

func Get(db *gorm.DB, studentID, slotID uint) (*presenceModel.PresenceModel, error) {
	var p presenceModel.PresenceModel
	if err := db.Where("student_id = ? AND slot_id = ?", studentID, slotID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresenceNotFound
		}
		return nil, err
	}
	return &p, nil
}

func List(db *gorm.DB, p helper.Paging) ([]presenceModel.PresenceModel, int64, error) {
	var total int64
	if err := db.Model(&presenceModel.PresenceModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []presenceModel.PresenceModel
	err := db.Order("slot_id DESC, student_id ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error
	return rows, total, err
}

/* ===================== WRITE ===================== */

func Create(db *gorm.DB, studentID, slotID uint) (*presenceModel.PresenceModel, error) {
	if err := ensureSlot(db, slotID); err != nil {
		return nil, err
	}
	known, err := knownStudents(db, []uint{studentID})
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		return nil, ErrStudentNotFound
	}
	row := &presenceModel.PresenceModel{StudentID: studentID, SlotID: slotID}
	if err := db.Create(row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrAlreadyAbsent
		}
		return nil, err
	}
	return row, nil
}

// CreateMany marks students absent for a slot; existing rows are left as they are.
func CreateMany(db *gorm.DB, slotID uint, studentIDs []uint) (int64, error) {
	if err := ensureSlot(db, slotID); err != nil {
		return 0, err
	}
	ids, err := knownStudents(db, helper.UniqueIDs(studentIDs))
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rowsFor(slotID, ids))
	return res.RowsAffected, res.Error
}

// ReplaceForSlot makes studentIDs the exact absence list of the slot.
// Rows of students still absent are kept, so their justification survives a re-call.
func ReplaceForSlot(db *gorm.DB, slotID uint, studentIDs []uint) ([]presenceModel.PresenceModel, error) {
	if err := ensureSlot(db, slotID); err != nil {
		return nil, err
	}
	var out []presenceModel.PresenceModel
	err := db.Transaction(func(tx *gorm.DB) error {
		ids, err := knownStudents(tx, helper.UniqueIDs(studentIDs))
		if err != nil {
			return err
		}

		del := tx.Where("slot_id = ?", slotID)
		if len(ids) > 0 {
			del = del.Where("student_id NOT IN ?", ids)
		}
		if err := del.Delete(&presenceModel.PresenceModel{}).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rowsFor(slotID, ids)).Error; err != nil {
				return err
			}
		}
		out, err = ListBySlot(tx, slotID)
		return err
	})
	return out, err
}

func SetJustified(db *gorm.DB, studentID, slotID uint, justified bool) (*presenceModel.PresenceModel, error) {
	p, err := Get(db, studentID, slotID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&presenceModel.PresenceModel{}).
		Where("student_id = ? AND slot_id = ?", studentID, slotID).
		Update("justified", justified).Error; err != nil {
		return nil, err
	}
	p.Justified = justified
	return p, nil
}

// AttachJustification upserts the absence as justified with the stored file.
// It returns the previous file reference, if any, so the caller can drop the old blob.
func AttachJustification(db *gorm.DB, studentID, slotID uint, fileRef string) (*presenceModel.PresenceModel, string, error) {
	if err := ensureSlot(db, slotID); err != nil {
		return nil, "", err
	}
	var (
		row      presenceModel.PresenceModel
		previous string
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		known, err := knownStudents(tx, []uint{studentID})
		if err != nil {
			return err
		}
		if len(known) == 0 {
			return ErrStudentNotFound
		}
		err = tx.Where("student_id = ? AND slot_id = ?", studentID, slotID).First(&row).Error
		switch {
		case err == nil:
			if row.JustificationFile != nil {
				previous = *row.JustificationFile
			}
			row.Justified = true
			row.JustificationFile = &fileRef
			return tx.Model(&presenceModel.PresenceModel{}).
				Where("student_id = ? AND slot_id = ?", studentID, slotID).
				Updates(map[string]any{"justified": true, "justification_file": fileRef}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = presenceModel.PresenceModel{StudentID: studentID, SlotID: slotID, Justified: true, JustificationFile: &fileRef}
			return tx.Create(&row).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("attach justification: %w", err)
	}
	return &row, previous, nil
}

// JustificationRef returns the stored file reference of an absence.
func JustificationRef(db *gorm.DB, studentID, slotID uint) (string, error) {
	p, err := Get(db, studentID, slotID)
	if err != nil {
		return "", err
	}
	if p.JustificationFile == nil || *p.JustificationFile == "" {
		return "", ErrNoJustification
	}
	return *p.JustificationFile, nil
}

// Delete returns the removed row so its justification blob can be cleaned.
func Delete(db *gorm.DB, studentID, slotID uint) (*presenceModel.PresenceModel, error) {
	p, err := Get(db, studentID, slotID)
	if err != nil {
		return nil, err
	}
	if err := db.Where("student_id = ? AND slot_id = ?", studentID, slotID).
		Delete(&presenceModel.PresenceModel{}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func DeleteAll(db *gorm.DB) (int64, error) {
	res := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&presenceModel.PresenceModel{})
	return res.RowsAffected, res.Error
}

// ReferencedFiles is the set of justification refs still pointed to by an absence.
func ReferencedFiles(db *gorm.DB) (map[string]struct{}, error) {
	var refs []string
	if err := db.Model(&presenceModel.PresenceModel{}).
		Where("justification_file IS NOT NULL AND justification_file <> ''").
		Pluck("justification_file", &refs).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}
	return set, nil
}
