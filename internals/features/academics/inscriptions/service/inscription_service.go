package service

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	helper "gestionabsence_backend/internals/helpers"
)

var ErrInscriptionNotFound = errors.New("Inscription introuvable")

func ListByGroup(db *gorm.DB, groupID uint) ([]inscriptionModel.InscriptionModel, error) {
	if _, err := groupService.Get(db, groupID); err != nil {
		return nil, err
	}
	var rows []inscriptionModel.InscriptionModel
	err := db.Preload("Student").
		Joins("JOIN students ON students.id = inscriptions.student_id").
		Where("inscriptions.group_id = ?", groupID).
		Order("students.name ASC").
		Find(&rows).Error
	return rows, err
}

// EnrollMany inserts (student, group) pairs, skipping unknown students and existing rows.
// It returns the number of rows actually inserted.
func EnrollMany(tx *gorm.DB, groupID uint, studentIDs []uint) (int64, error) {
	if _, err := groupService.Get(tx, groupID); err != nil {
		return 0, err
	}
	ids := helper.UniqueIDs(studentIDs)
	if len(ids) == 0 {
		return 0, nil
	}
	var known []uint
	if err := tx.Model(&studentModel.StudentModel{}).Where("id IN ?", ids).Pluck("id", &known).Error; err != nil {
		return 0, err
	}
	if len(known) == 0 {
		return 0, nil
	}
	rows := make([]inscriptionModel.InscriptionModel, 0, len(known))
	for _, sid := range known {
		rows = append(rows, inscriptionModel.InscriptionModel{StudentID: sid, GroupID: groupID})
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	return res.RowsAffected, res.Error
}

func Delete(db *gorm.DB, studentID, groupID uint) error {
	res := db.Where("student_id = ? AND group_id = ?", studentID, groupID).
		Delete(&inscriptionModel.InscriptionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInscriptionNotFound
	}
	return nil
}
