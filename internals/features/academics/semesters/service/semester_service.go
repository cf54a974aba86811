package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
)

var ErrSemesterNotFound = errors.New("Semestre introuvable")

// NamesForYear maps a licence year to its two semesters: 1 → S1,S2; 2 → S3,S4; 3 → S5,S6.
func NamesForYear(year int) []string {
	return []string{
		fmt.Sprintf("S%d", 2*year-1),
		fmt.Sprintf("S%d", 2*year),
	}
}

// ClassGroupName is the single group promotion creates, e.g. L2S3.
func ClassGroupName(year, semester int) string {
	return fmt.Sprintf("L%dS%d", year, semester)
}

// YearOfSemester returns the licence year of semester n (1-based), 0 when n is out of range.
func YearOfSemester(n int) int {
	if n < 1 || n > 6 {
		return 0
	}
	return (n + 1) / 2
}

func List(db *gorm.DB) ([]semesterModel.SemesterModel, error) {
	var rows []semesterModel.SemesterModel
	err := db.Order("id ASC").Find(&rows).Error
	return rows, err
}

func Get(db *gorm.DB, id uint) (*semesterModel.SemesterModel, error) {
	var s semesterModel.SemesterModel
	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	return &s, nil
}

func FindByName(db *gorm.DB, name string) (*semesterModel.SemesterModel, error) {
	var s semesterModel.SemesterModel
	if err := db.Where("name = ?", name).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSemesterNotFound, name)
		}
		return nil, err
	}
	return &s, nil
}

// IDsForYear returns the ids of the year's semesters that exist.
func IDsForYear(db *gorm.DB, year int) ([]uint, error) {
	var ids []uint
	err := db.Model(&semesterModel.SemesterModel{}).
		Where("name IN ?", NamesForYear(year)).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
