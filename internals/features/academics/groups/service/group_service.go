package service

import (
	"errors"

	"gorm.io/gorm"

	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
)

var (
	ErrGroupNotFound = errors.New("Groupe introuvable")
	ErrNothingToSave = errors.New("Aucun champ à mettre à jour")
)

func List(db *gorm.DB) ([]groupModel.GroupModel, error) {
	var rows []groupModel.GroupModel
	err := db.Preload("Semester").Order("semester_id ASC, name ASC").Find(&rows).Error
	return rows, err
}

func Get(db *gorm.DB, id uint) (*groupModel.GroupModel, error) {
	var g groupModel.GroupModel
	if err := db.Preload("Semester").First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByYear returns the groups of the two semesters of a licence year.
func ListByYear(db *gorm.DB, year int) ([]groupModel.GroupModel, error) {
	var rows []groupModel.GroupModel
	err := db.Preload("Semester").
		Where("semester_id IN (?)",
			db.Model(&semesterModel.SemesterModel{}).Select("id").Where("name IN ?", semesterService.NamesForYear(year))).
		Order("semester_id ASC, name ASC").
		Find(&rows).Error
	return rows, err
}

func ListByStudent(db *gorm.DB, studentID uint) ([]groupModel.GroupModel, error) {
	var rows []groupModel.GroupModel
	err := db.Preload("Semester").
		Where("id IN (?)",
			db.Model(&inscriptionModel.InscriptionModel{}).Select("group_id").Where("student_id = ?", studentID)).
		Order("semester_id ASC").
		Find(&rows).Error
	return rows, err
}

func Create(db *gorm.DB, g *groupModel.GroupModel) error {
	if _, err := semesterService.Get(db, g.SemesterID); err != nil {
		return err
	}
	return db.Create(g).Error
}

func CreateFromSemesterName(db *gorm.DB, semesterName, name string) (*groupModel.GroupModel, error) {
	sem, err := semesterService.FindByName(db, semesterName)
	if err != nil {
		return nil, err
	}
	g := &groupModel.GroupModel{Name: name, SemesterID: sem.ID, Semester: sem}
	if err := db.Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// FindOrCreate looks a group up by (semester, name).
func FindOrCreate(tx *gorm.DB, semesterID uint, name string) (*groupModel.GroupModel, error) {
	var g groupModel.GroupModel
	err := tx.Where(groupModel.GroupModel{SemesterID: semesterID, Name: name}).
		FirstOrCreate(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func Update(db *gorm.DB, id uint, updates map[string]any) (*groupModel.GroupModel, error) {
	if len(updates) == 0 {
		return nil, ErrNothingToSave
	}
	g, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if semID, ok := updates["semester_id"].(uint); ok {
		if _, err := semesterService.Get(db, semID); err != nil {
			return nil, err
		}
	}
	if err := db.Model(g).Updates(updates).Error; err != nil {
		return nil, err
	}
	return Get(db, id)
}

// DeleteGroupsTx drops the inscriptions of the groups and detaches their slots,
// which keep their absences as history.
func DeleteGroupsTx(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Model(&slotModel.SlotModel{}).
		Where("group_id IN ?", ids).
		Update("group_id", nil).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("group_id IN ?", ids).Delete(&inscriptionModel.InscriptionModel{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&groupModel.GroupModel{})
	return res.RowsAffected, res.Error
}

func Delete(db *gorm.DB, id uint) (*groupModel.GroupModel, error) {
	g, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := DeleteGroupsTx(tx, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func DeleteAll(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&groupModel.GroupModel{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		n, err := DeleteGroupsTx(tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}
