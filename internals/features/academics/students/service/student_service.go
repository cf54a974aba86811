package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	courseService "gestionabsence_backend/internals/features/academics/course_materials/service"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	inscriptionService "gestionabsence_backend/internals/features/academics/inscriptions/service"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	userService "gestionabsence_backend/internals/features/users/user/service"
	helper "gestionabsence_backend/internals/helpers"
)

var (
	ErrStudentNotFound   = errors.New("Étudiant introuvable")
	ErrStudentNumberUsed = errors.New("Ce numéro étudiant existe déjà")
	ErrNothingToSave     = errors.New("Aucun champ à mettre à jour")
	ErrEmptyImport       = errors.New("Aucun étudiant à importer")
	ErrInvalidSemester   = errors.New("Semestre invalide")
)

// StudentRow is one student to upsert, as read from an import.
type StudentRow struct {
	StudentNumber string
	FirstName     string
	LastName      string
}

// FullName is "LAST First", the form student names are stored in.
func (r StudentRow) FullName() string {
	return helper.NormalizeName(r.LastName + " " + r.FirstName)
}

// SplitName reads a stored "LAST First" name back into first and last names.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(helper.NormalizeName(name))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[1:], " "), parts[0]
	}
}

// IsOneCharDifferent reports whether a and b have the same length and differ at exactly one position (TD1/TD2).
func IsOneCharDifferent(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	diff := 0
	for i := range ra {
		if ra[i] != rb[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}

/* ===================== READ ===================== */

func List(db *gorm.DB, q string, p helper.Paging) ([]studentModel.StudentModel, int64, error) {
	q = strings.TrimSpace(q)
	filtered := func() *gorm.DB {
		tx := db.Model(&studentModel.StudentModel{})
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			tx = tx.Where("LOWER(name) LIKE ? OR student_number LIKE ?", like, like)
		}
		return tx
	}
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []studentModel.StudentModel
	err := filtered().Order("name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

func Get(db *gorm.DB, id uint) (*studentModel.StudentModel, error) {
	var s studentModel.StudentModel
	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func ListByGroup(db *gorm.DB, groupID uint) ([]studentModel.StudentModel, error) {
	var rows []studentModel.StudentModel
	err := db.Where("id IN (?)",
		db.Model(&inscriptionModel.InscriptionModel{}).Select("student_id").Where("group_id = ?", groupID)).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// OtherGroupStudent is a student of another group; OriginalGroupID is set when that group is similar.
type OtherGroupStudent struct {
	studentModel.StudentModel
	OriginalGroupID   *uint
	OriginalGroupName string
}

type otherGroupRow struct {
	ID            uint
	StudentNumber string
	Name          string
	GroupID       uint
	GroupName     string
}

// ListByOtherGroups returns the students a group may borrow from. Similar groups of the same
// semester (TD1 for TD2) are preferred; without one, every other group of the semester is used.
// Students already in the base group are excluded.
func ListByOtherGroups(db *gorm.DB, groupID uint) ([]OtherGroupStudent, error) {
	base, err := groupService.Get(db, groupID)
	if err != nil {
		return nil, err
	}
	var others []groupModel.GroupModel
	if err := db.Where("semester_id = ? AND id <> ?", base.SemesterID, base.ID).Find(&others).Error; err != nil {
		return nil, err
	}

	var similar, all []uint
	for _, g := range others {
		all = append(all, g.ID)
		if IsOneCharDifferent(base.Name, g.Name) {
			similar = append(similar, g.ID)
		}
	}
	withOrigin := len(similar) > 0
	ids := all
	if withOrigin {
		ids = similar
	}
	if len(ids) == 0 {
		return []OtherGroupStudent{}, nil
	}

	var rows []otherGroupRow
	err = db.Table("inscriptions AS i").
		Select("st.id, st.student_number, st.name, g.id AS group_id, g.name AS group_name").
		Joins("JOIN students st ON st.id = i.student_id").
		Joins("JOIN groups g ON g.id = i.group_id").
		Where("i.group_id IN ?", ids).
		Where("i.student_id NOT IN (?)",
			db.Model(&inscriptionModel.InscriptionModel{}).Select("student_id").Where("group_id = ?", base.ID)).
		Order("st.name ASC, g.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(rows))
	out := make([]OtherGroupStudent, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		s := OtherGroupStudent{StudentModel: studentModel.StudentModel{ID: r.ID, StudentNumber: r.StudentNumber, Name: r.Name}}
		if withOrigin {
			gid := r.GroupID
			s.OriginalGroupID = &gid
			s.OriginalGroupName = r.GroupName
		}
		out = append(out, s)
	}
	return out, nil
}

// ListByCourseMaterial returns the students enrolled in a group of the course's semester.
func ListByCourseMaterial(db *gorm.DB, courseID uint) ([]studentModel.StudentModel, error) {
	cm, err := courseService.Get(db, courseID)
	if err != nil {
		return nil, err
	}
	enrolled := db.Table("inscriptions AS i").
		Select("i.student_id").
		Joins("JOIN groups g ON g.id = i.group_id").
		Where("g.semester_id = ?", cm.SemesterID)

	var rows []studentModel.StudentModel
	err = db.Where("id IN (?)", enrolled).Order("name ASC").Find(&rows).Error
	return rows, err
}

/* ===================== WRITE ===================== */

func Create(db *gorm.DB, s *studentModel.StudentModel) error {
	if err := db.Create(s).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrStudentNumberUsed
		}
		return err
	}
	return nil
}

// UpsertStudent creates or renames the student with row's number and refreshes their account.
func UpsertStudent(tx *gorm.DB, row StudentRow) (*studentModel.StudentModel, bool, error) {
	number := strings.TrimSpace(row.StudentNumber)
	name := row.FullName()

	var s studentModel.StudentModel
	created := false
	err := tx.Where("student_number = ?", number).First(&s).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s = studentModel.StudentModel{StudentNumber: number, Name: name}
		if err := tx.Create(&s).Error; err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	case s.Name != name && name != "":
		if err := tx.Model(&s).Update("name", name).Error; err != nil {
			return nil, false, err
		}
		s.Name = name
	}

	if _, err := userService.UpsertStudentAccount(tx, &s, row.FirstName, row.LastName); err != nil {
		return nil, false, err
	}
	return &s, created, nil
}

// ImportResult summarises ImportIntoSemester.
type ImportResult struct {
	Created  int
	Updated  int
	Enrolled int64
	Group    *groupModel.GroupModel
	Students []studentModel.StudentModel
}

// ImportIntoSemester upserts the students with their accounts and enrolls them into
// the semester's class group L{y}S{n}, created when missing. All or nothing.
func ImportIntoSemester(db *gorm.DB, semesterID uint, rows []StudentRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	sem, err := semesterService.Get(db, semesterID)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(sem.Name, "S"))
	year := semesterService.YearOfSemester(n)
	if err != nil || year == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSemester, sem.Name)
	}

	res := &ImportResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		group, err := groupService.FindOrCreate(tx, sem.ID, semesterService.ClassGroupName(year, n))
		if err != nil {
			return err
		}
		res.Group = group

		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			if strings.TrimSpace(r.StudentNumber) == "" {
				continue
			}
			s, created, err := UpsertStudent(tx, r)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
			ids = append(ids, s.ID)
			res.Students = append(res.Students, *s)
		}

		enrolled, err := inscriptionService.EnrollMany(tx, group.ID, ids)
		res.Enrolled = enrolled
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func Update(db *gorm.DB, id uint, updates map[string]any) (*studentModel.StudentModel, error) {
	if len(updates) == 0 {
		return nil, ErrNothingToSave
	}
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(s).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrStudentNumberUsed
		}
		return nil, err
	}
	return Get(db, id)
}

// DeleteStudentsTx removes students with their absences, inscriptions and accounts.
func DeleteStudentsTx(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("student_id IN ?", ids).Delete(&presenceModel.PresenceModel{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("student_id IN ?", ids).Delete(&inscriptionModel.InscriptionModel{}).Error; err != nil {
		return 0, err
	}
	if err := userService.DeleteStudentAccounts(tx, ids); err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&studentModel.StudentModel{})
	return res.RowsAffected, res.Error
}

func Delete(db *gorm.DB, id uint) (*studentModel.StudentModel, error) {
	s, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := DeleteStudentsTx(tx, []uint{id})
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
		if err := tx.Model(&studentModel.StudentModel{}).Pluck("id", &ids).Error; err != nil {
			return err
		}
		n, err := DeleteStudentsTx(tx, ids)
		deleted = n
		return err
	})
	return deleted, err
}
