package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	sessionTypeService "gestionabsence_backend/internals/features/academics/session_types/service"
)

var (
	ErrCourseMaterialNotFound = errors.New("Matière introuvable")
	ErrCourseNameTaken        = errors.New("Une matière avec ce nom existe déjà")
	ErrNothingToSave          = errors.New("Aucun champ à mettre à jour")
)

// AbsentCourse is a course material the student missed at least once.
type AbsentCourse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func List(db *gorm.DB) ([]courseModel.CourseMaterialModel, error) {
	var rows []courseModel.CourseMaterialModel
	err := db.Order("semester_id ASC, name ASC").Find(&rows).Error
	return rows, err
}

func Get(db *gorm.DB, id uint) (*courseModel.CourseMaterialModel, error) {
	var cm courseModel.CourseMaterialModel
	if err := db.First(&cm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseMaterialNotFound
		}
		return nil, err
	}
	return &cm, nil
}

func FindByName(db *gorm.DB, name string) (*courseModel.CourseMaterialModel, error) {
	var cm courseModel.CourseMaterialModel
	if err := db.Where("name = ?", strings.TrimSpace(name)).First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseMaterialNotFound
		}
		return nil, err
	}
	return &cm, nil
}

func ListBySemester(db *gorm.DB, semesterID uint) ([]courseModel.CourseMaterialModel, error) {
	var rows []courseModel.CourseMaterialModel
	err := db.Where("semester_id = ?", semesterID).Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListAbsentByStudent returns, distinct by id, the courses in which the student has an absence.
// Type is the session type of the first absence met for that course.
func ListAbsentByStudent(db *gorm.DB, studentID uint) ([]AbsentCourse, error) {
	var rows []AbsentCourse
	err := db.Table("presences AS p").
		Select("cm.id, cm.name, stg.name AS type").
		Joins("JOIN slots s ON s.id = p.slot_id").
		Joins("JOIN session_types t ON t.id = s.session_type_id").
		Joins("JOIN session_type_globals stg ON stg.id = t.session_type_global_id").
		Joins("JOIN course_materials cm ON cm.id = t.course_material_id").
		Where("p.student_id = ?", studentID).
		Order("s.date ASC, s.start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{}, len(rows))
	out := make([]AbsentCourse, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func Create(db *gorm.DB, cm *courseModel.CourseMaterialModel) error {
	if _, err := semesterService.Get(db, cm.SemesterID); err != nil {
		return err
	}
	if err := db.Create(cm).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindOrCreateByName returns the course named name, creating it in semesterID when missing.
// Names are unique across semesters, so an existing course keeps its semester.
func FindOrCreateByName(tx *gorm.DB, semesterID uint, name string) (*courseModel.CourseMaterialModel, error) {
	var cm courseModel.CourseMaterialModel
	err := tx.Where(courseModel.CourseMaterialModel{Name: strings.TrimSpace(name)}).
		Attrs(courseModel.CourseMaterialModel{SemesterID: semesterID}).
		FirstOrCreate(&cm).Error
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func Update(db *gorm.DB, id uint, updates map[string]any) (*courseModel.CourseMaterialModel, error) {
	if len(updates) == 0 {
		return nil, ErrNothingToSave
	}
	cm, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if semID, ok := updates["semester_id"].(uint); ok {
		if _, err := semesterService.Get(db, semID); err != nil {
			return nil, err
		}
	}
	if err := db.Model(cm).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return Get(db, id)
}

// deleteCoursesTx removes courses with their session types, slots and absences.
func deleteCoursesTx(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var stIDs []uint
	if err := tx.Model(&sessionTypeModel.SessionTypeModel{}).
		Where("course_material_id IN ?", ids).
		Pluck("id", &stIDs).Error; err != nil {
		return 0, err
	}
	if _, err := sessionTypeService.DeleteSessionTypesTx(tx, stIDs); err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&courseModel.CourseMaterialModel{})
	return res.RowsAffected, res.Error
}

func Delete(db *gorm.DB, id uint) (*courseModel.CourseMaterialModel, error) {
	cm, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := deleteCoursesTx(tx, []uint{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return cm, nil
}

func DeleteAll(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&courseModel.CourseMaterialModel{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		n, err := deleteCoursesTx(tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCourseNameTaken
	}
	return err
}
