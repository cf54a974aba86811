package service

import (
	"github.com/lib/pq"
	"gorm.io/gorm"

	inscriptionService "gestionabsence_backend/internals/features/academics/inscriptions/service"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	studentService "gestionabsence_backend/internals/features/academics/students/service"
)

type StudentsResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type InscriptionsResult struct {
	Enrolled int64    `json:"enrolled"`
	Unknown  []string `json:"unknown"`
}

// ImportStudents upserts every valid row with its ETUDIANT account. All or nothing.
func ImportStudents(db *gorm.DB, data []byte) (*StudentsResult, error) {
	records, err := ReadRecords(data)
	if err != nil {
		return nil, err
	}
	rows, skipped := ParseStudents(records)
	res := &StudentsResult{Skipped: skipped}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			_, created, err := studentService.UpsertStudent(tx, r)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// findByNumbers uses "= ANY($1)" on Postgres and a plain IN list elsewhere.
func findByNumbers(db *gorm.DB, numbers []string) ([]studentModel.StudentModel, error) {
	var students []studentModel.StudentModel
	q := db.Model(&studentModel.StudentModel{})
	if db.Dialector.Name() == "postgres" {
		q = q.Where("student_number = ANY(?)", pq.Array(numbers))
	} else {
		q = q.Where("student_number IN ?", numbers)
	}
	err := q.Find(&students).Error
	return students, err
}

// EnrollFromCSV enrolls the students listed in the first column into the group.
// Numbers with no matching student are reported back.
func EnrollFromCSV(db *gorm.DB, groupID uint, data []byte) (*InscriptionsResult, error) {
	records, err := ReadRecords(data)
	if err != nil {
		return nil, err
	}
	numbers := ParseNumbers(records)
	res := &InscriptionsResult{Unknown: []string{}}
	if len(numbers) == 0 {
		return res, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		students, err := findByNumbers(tx, numbers)
		if err != nil {
			return err
		}
		found := make(map[string]uint, len(students))
		ids := make([]uint, 0, len(students))
		for _, s := range students {
			found[s.StudentNumber] = s.ID
			ids = append(ids, s.ID)
		}
		for _, n := range numbers {
			if _, ok := found[n]; !ok {
				res.Unknown = append(res.Unknown, n)
			}
		}
		res.Enrolled, err = inscriptionService.EnrollMany(tx, groupID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
