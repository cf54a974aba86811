package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	inscriptionService "gestionabsence_backend/internals/features/academics/inscriptions/service"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	studentService "gestionabsence_backend/internals/features/academics/students/service"
	promotionModel "gestionabsence_backend/internals/features/promotion/model"
)

var (
	ErrInvalidYear      = errors.New("L'année doit être entre 1 et 3")
	ErrInvalidSemester  = errors.New("La promotion ne peut se faire que du S1, S3 ou S5")
	ErrSemesterMismatch = errors.New("Le semestre ne correspond pas à l'année")
	ErrMissingSemesters = errors.New("Certains semestres n'existent pas")
)

// Result is returned to the client and stored as the run summary.
type Result struct {
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Promoted   int      `json:"promoted"`
	Deleted    int      `json:"deleted"`
	Groups     []string `json:"groups"`
	StudentIDs []uint   `json:"student_ids,omitempty"`
}

func semesterName(n int) string {
	return fmt.Sprintf("S%d", n)
}

// studentsOf returns the distinct students enrolled in any group of the semester.
func studentsOf(tx *gorm.DB, semesterID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&inscriptionModel.InscriptionModel{}).
		Distinct("student_id").
		Where("group_id IN (?)", tx.Model(&groupModel.GroupModel{}).Select("id").Where("semester_id = ?", semesterID)).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	return ids, err
}

func groupIDsOf(tx *gorm.DB, semesterIDs ...uint) ([]uint, error) {
	var ids []uint
	q := tx.Model(&groupModel.GroupModel{})
	if len(semesterIDs) > 0 {
		q = q.Where("semester_id IN ?", semesterIDs)
	}
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func findSemesters(tx *gorm.DB, numbers ...int) (map[int]*semesterModel.SemesterModel, error) {
	out := make(map[int]*semesterModel.SemesterModel, len(numbers))
	for _, n := range numbers {
		s, err := semesterService.FindByName(tx, semesterName(n))
		if err != nil {
			return nil, err
		}
		out[n] = s
	}
	return out, nil
}

// ValidateSemesterPromotion checks that semester is the odd semester of year (S1/L1, S3/L2, S5/L3).
func ValidateSemesterPromotion(year, semester int) error {
	if year < 1 || year > 3 {
		return ErrInvalidYear
	}
	if semester != 1 && semester != 3 && semester != 5 {
		return ErrInvalidSemester
	}
	if semester != 2*year-1 {
		return ErrSemesterMismatch
	}
	return nil
}

// PromoteSemester moves the students of S{n} into the class group L{y}S{n+1}
// and drops every group of S{n}.
func PromoteSemester(db *gorm.DB, year, semester int, actorID *uint) (*Result, error) {
	if err := ValidateSemesterPromotion(year, semester); err != nil {
		return nil, err
	}
	var res *Result
	err := db.Transaction(func(tx *gorm.DB) error {
		sems, err := findSemesters(tx, semester, semester+1)
		if err != nil {
			return err
		}
		current, next := sems[semester], sems[semester+1]

		students, err := studentsOf(tx, current.ID)
		if err != nil {
			return err
		}
		target, err := groupService.FindOrCreate(tx, next.ID, semesterService.ClassGroupName(year, semester+1))
		if err != nil {
			return err
		}
		oldGroups, err := groupIDsOf(tx, current.ID)
		if err != nil {
			return err
		}
		if _, err := groupService.DeleteGroupsTx(tx, oldGroups); err != nil {
			return err
		}
		if _, err := inscriptionService.EnrollMany(tx, target.ID, students); err != nil {
			return err
		}

		res = &Result{
			Kind: promotionModel.PromotionKindSemester,
			Message: fmt.Sprintf("Promotion de %s vers %s réussie. %d étudiants promus.",
				semesterService.ClassGroupName(year, semester),
				semesterService.ClassGroupName(year, semester+1),
				len(students)),
			Promoted:   len(students),
			Groups:     []string{target.Name},
			StudentIDs: students,
		}
		return recordRun(tx, res, actorID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PromoteYear starts a new academic year: S2 → L2S3, S4 → L3S5, S6 students graduate
// (deleted with their absences and accounts). Every group is rebuilt.
func PromoteYear(db *gorm.DB, actorID *uint) (*Result, error) {
	var res *Result
	err := db.Transaction(func(tx *gorm.DB) error {
		sems, err := findSemesters(tx, 2, 3, 4, 5, 6)
		if err != nil {
			if errors.Is(err, semesterService.ErrSemesterNotFound) {
				return ErrMissingSemesters
			}
			return err
		}

		fromS2, err := studentsOf(tx, sems[2].ID)
		if err != nil {
			return err
		}
		fromS4, err := studentsOf(tx, sems[4].ID)
		if err != nil {
			return err
		}
		graduates, err := studentsOf(tx, sems[6].ID)
		if err != nil {
			return err
		}

		deleted, err := studentService.DeleteStudentsTx(tx, graduates)
		if err != nil {
			return err
		}
		all, err := groupIDsOf(tx)
		if err != nil {
			return err
		}
		if _, err := groupService.DeleteGroupsTx(tx, all); err != nil {
			return err
		}

		l2s3, err := groupService.FindOrCreate(tx, sems[3].ID, semesterService.ClassGroupName(2, 3))
		if err != nil {
			return err
		}
		l3s5, err := groupService.FindOrCreate(tx, sems[5].ID, semesterService.ClassGroupName(3, 5))
		if err != nil {
			return err
		}
		n1, err := inscriptionService.EnrollMany(tx, l2s3.ID, fromS2)
		if err != nil {
			return err
		}
		n2, err := inscriptionService.EnrollMany(tx, l3s5.ID, fromS4)
		if err != nil {
			return err
		}

		promoted := int(n1 + n2)
		res = &Result{
			Kind: promotionModel.PromotionKindYear,
			Message: fmt.Sprintf("Nouvelle année réussie. %d étudiants promus, %d étudiants supprimés (fin de licence).",
				promoted, deleted),
			Promoted: promoted,
			Deleted:  int(deleted),
			Groups:   []string{l2s3.Name, l3s5.Name},
		}
		return recordRun(tx, res, actorID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func recordRun(tx *gorm.DB, res *Result, actorID *uint) error {
	sort.Strings(res.Groups)
	summary, err := sonic.Marshal(res)
	if err != nil {
		return err
	}
	return tx.Create(&promotionModel.PromotionRunModel{
		Kind:        res.Kind,
		Summary:     summary,
		ActorUserID: actorID,
	}).Error
}

// History lists the most recent runs first.
func History(db *gorm.DB, limit int) ([]promotionModel.PromotionRunModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []promotionModel.PromotionRunModel
	err := db.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
