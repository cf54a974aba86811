package service

import (
	"errors"

	"gorm.io/gorm"

	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
)

var (
	ErrGlobalTypeNotFound  = errors.New("Type de séance introuvable")
	ErrSessionTypeNotFound = errors.New("Séance introuvable")
)

func ListGlobals(db *gorm.DB) ([]sessionTypeModel.SessionTypeGlobalModel, error) {
	var rows []sessionTypeModel.SessionTypeGlobalModel
	err := db.Order("id ASC").Find(&rows).Error
	return rows, err
}

func List(db *gorm.DB) ([]sessionTypeModel.SessionTypeModel, error) {
	var rows []sessionTypeModel.SessionTypeModel
	err := db.Preload("SessionTypeGlobal").Preload("CourseMaterial").
		Order("course_material_id ASC, session_type_global_id ASC").
		Find(&rows).Error
	return rows, err
}

// Find returns the session type of (global, course) or ErrSessionTypeNotFound.
func Find(db *gorm.DB, globalID, courseMaterialID uint) (*sessionTypeModel.SessionTypeModel, error) {
	var st sessionTypeModel.SessionTypeModel
	err := db.Where("session_type_global_id = ? AND course_material_id = ?", globalID, courseMaterialID).
		First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionTypeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Upsert finds or creates the session type binding a global type to a course material.
func Upsert(tx *gorm.DB, globalID, courseMaterialID uint) (*sessionTypeModel.SessionTypeModel, error) {
	var n int64
	if err := tx.Model(&sessionTypeModel.SessionTypeGlobalModel{}).Where("id = ?", globalID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrGlobalTypeNotFound
	}
	var st sessionTypeModel.SessionTypeModel
	err := tx.Where(sessionTypeModel.SessionTypeModel{
		SessionTypeGlobalID: globalID,
		CourseMaterialID:    courseMaterialID,
	}).FirstOrCreate(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// DeleteSessionTypesTx removes session types with their slots and the absences recorded on them.
func DeleteSessionTypesTx(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	slotIDs := tx.Model(&slotModel.SlotModel{}).Select("id").Where("session_type_id IN ?", ids)
	if err := tx.Where("slot_id IN (?)", slotIDs).Delete(&presenceModel.PresenceModel{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("session_type_id IN ?", ids).Delete(&slotModel.SlotModel{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&sessionTypeModel.SessionTypeModel{})
	return res.RowsAffected, res.Error
}

func DeleteAll(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&sessionTypeModel.SessionTypeModel{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		n, err := DeleteSessionTypesTx(tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}
