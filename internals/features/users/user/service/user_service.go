package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	"gestionabsence_backend/internals/constants"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	uModel "gestionabsence_backend/internals/features/users/user/model"
	helper "gestionabsence_backend/internals/helpers"
)

const DefaultStudentDomain = "etu.univ-grenoble-alpes.fr"

var (
	ErrEmailTaken        = errors.New("Un utilisateur avec cet email existe déjà")
	ErrProfessorNotFound = errors.New("Professeur introuvable")
)

// PasswordCost is lowered by tests; bulk student imports hash one password per row.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

/* ===================== PROFESSORS ===================== */

func ListProfessors(db *gorm.DB) ([]uModel.UserModel, error) {
	var users []uModel.UserModel
	err := db.Where("role = ?", constants.RoleProfessor).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func CreateProfessor(db *gorm.DB, u *uModel.UserModel) error {
	var count int64
	if err := db.Model(&uModel.UserModel{}).Where("LOWER(email) = ?", strings.ToLower(u.Email)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	hashed, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	u.Role = constants.RoleProfessor

	if err := db.Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// DeleteProfessor removes the account together with the slots they taught and their absences.
func DeleteProfessor(db *gorm.DB, id uint) (*uModel.UserModel, error) {
	var deleted uModel.UserModel
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND role = ?", id, constants.RoleProfessor).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfessorNotFound
			}
			return err
		}

		slotIDs := tx.Model(&slotModel.SlotModel{}).Select("id").Where("professor_id = ?", id)
		if err := tx.Where("slot_id IN (?)", slotIDs).Delete(&presenceModel.PresenceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("professor_id = ?", id).Delete(&slotModel.SlotModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&uModel.UserModel{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

/* ===================== STUDENT ACCOUNTS ===================== */

func studentDomain() string {
	return configs.GetEnv("STUDENT_EMAIL_DOMAIN", DefaultStudentDomain)
}

// StudentEmail builds first.last@domain; the student number disambiguates homonyms.
func StudentEmail(firstName, lastName, studentNumber string, withNumber bool) string {
	local := helper.EmailLocalPart(firstName, lastName)
	if withNumber {
		local += "." + strings.ToLower(strings.TrimSpace(studentNumber))
	}
	return local + "@" + studentDomain()
}

// UpsertStudentAccount creates or refreshes the ETUDIANT account linked to student.
// Must be called with the transaction handle of the caller.
func UpsertStudentAccount(tx *gorm.DB, student *studentModel.StudentModel, firstName, lastName string) (*uModel.UserModel, error) {
	var existing *uModel.UserModel
	var row uModel.UserModel
	err := tx.Where("student_id = ?", student.ID).First(&row).Error
	switch {
	case err == nil:
		existing = &row
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	email, err := freeStudentEmail(tx, student, existing, firstName, lastName)
	if err != nil {
		return nil, err
	}
	name := helper.NormalizeName(strings.TrimSpace(firstName + " " + lastName))
	if name == "" {
		name = student.Name
	}

	if existing != nil {
		if err := tx.Model(existing).Updates(map[string]any{"name": name, "email": email}).Error; err != nil {
			return nil, err
		}
		existing.Name, existing.Email = name, email
		return existing, nil
	}

	hashed, err := HashPassword(student.StudentNumber)
	if err != nil {
		return nil, err
	}
	sid := student.ID
	u := &uModel.UserModel{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      constants.RoleStudent,
		StudentID: &sid,
		IsActive:  true,
	}
	if err := tx.Create(u).Error; err != nil {
		return nil, fmt.Errorf("create account for %s: %w", student.StudentNumber, err)
	}
	return u, nil
}

// freeStudentEmail keeps the current login when it is still a valid form for
// the name, so a re-import never moves a homonym to another address.
func freeStudentEmail(tx *gorm.DB, student *studentModel.StudentModel, current *uModel.UserModel, firstName, lastName string) (string, error) {
	plain := StudentEmail(firstName, lastName, student.StudentNumber, false)
	numbered := StudentEmail(firstName, lastName, student.StudentNumber, true)
	if current != nil && (current.Email == plain || current.Email == numbered) {
		return current.Email, nil
	}
	for _, email := range []string{plain, numbered} {
		var owner uModel.UserModel
		err := tx.Select("id", "student_id").Where("email = ?", email).First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return email, nil
		}
		if err != nil {
			return "", err
		}
		if owner.StudentID != nil && *owner.StudentID == student.ID {
			return email, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrEmailTaken, student.StudentNumber)
}

// DeleteStudentAccounts is used when a student leaves (deletion, end of licence).
func DeleteStudentAccounts(tx *gorm.DB, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return tx.Where("student_id IN ?", studentIDs).Delete(&uModel.UserModel{}).Error
}
