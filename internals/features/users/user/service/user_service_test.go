package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/databases/testdb"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	uModel "gestionabsence_backend/internals/features/users/user/model"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestCreateAndListProfessors(t *testing.T) {
	db := testdb.New(t)

	require.NoError(t, CreateProfessor(db, &uModel.UserModel{Name: "Zoé Martin", Email: "zoe@univ.fr", Password: "pw"}))
	require.NoError(t, CreateProfessor(db, &uModel.UserModel{Name: "Alain Durand", Email: "alain@univ.fr", Password: "pw"}))
	require.NoError(t, db.Create(&uModel.UserModel{Name: "Admin", Email: "admin@univ.fr", Password: "x", Role: constants.RoleManager}).Error)

	err := CreateProfessor(db, &uModel.UserModel{Name: "Dup", Email: "ZOE@univ.fr", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	profs, err := ListProfessors(db)
	require.NoError(t, err)
	require.Len(t, profs, 2)
	assert.Equal(t, "Alain Durand", profs[0].Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profs[0].Password), []byte("pw")))
}

func TestDeleteProfessor(t *testing.T) {
	db := testdb.New(t)

	prof := &uModel.UserModel{Name: "Prof", Email: "prof@univ.fr", Password: "pw"}
	require.NoError(t, CreateProfessor(db, prof))
	manager := &uModel.UserModel{Name: "Admin", Email: "admin@univ.fr", Password: "x", Role: constants.RoleManager}
	require.NoError(t, db.Create(manager).Error)

	st := &studentModel.StudentModel{StudentNumber: "1001", Name: "Dupont Jean"}
	require.NoError(t, db.Create(st).Error)
	slot := testdb.Slot(t, db, prof.ID)
	require.NoError(t, db.Create(&presenceModel.PresenceModel{StudentID: st.ID, SlotID: slot.ID}).Error)

	_, err := DeleteProfessor(db, manager.ID)
	assert.ErrorIs(t, err, ErrProfessorNotFound)

	deleted, err := DeleteProfessor(db, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, "prof@univ.fr", deleted.Email)

	var n int64
	db.Model(&slotModel.SlotModel{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&presenceModel.PresenceModel{}).Count(&n)
	assert.Zero(t, n)

	_, err = DeleteProfessor(db, prof.ID)
	assert.ErrorIs(t, err, ErrProfessorNotFound)
}

func TestUpsertStudentAccount(t *testing.T) {
	t.Setenv("STUDENT_EMAIL_DOMAIN", "etu.test.fr")
	db := testdb.New(t)

	a := &studentModel.StudentModel{StudentNumber: "2001", Name: "Dupont Amélie"}
	b := &studentModel.StudentModel{StudentNumber: "2002", Name: "Dupont Amélie"}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	ua, err := UpsertStudentAccount(db, a, "Amélie", "Dupont")
	require.NoError(t, err)
	assert.Equal(t, "amelie.dupont@etu.test.fr", ua.Email)
	assert.Equal(t, constants.RoleStudent, ua.Role)
	require.NotNil(t, ua.StudentID)
	assert.Equal(t, a.ID, *ua.StudentID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ua.Password), []byte("2001")))

	// homonym gets the student number appended
	ub, err := UpsertStudentAccount(db, b, "Amélie", "Dupont")
	require.NoError(t, err)
	assert.Equal(t, "amelie.dupont.2002@etu.test.fr", ub.Email)

	// second call updates in place
	again, err := UpsertStudentAccount(db, a, "Amélie", "Dupont")
	require.NoError(t, err)
	assert.Equal(t, ua.ID, again.ID)
	assert.Equal(t, "amelie.dupont@etu.test.fr", again.Email)

	var count int64
	db.Model(&uModel.UserModel{}).Where("role = ?", constants.RoleStudent).Count(&count)
	assert.EqualValues(t, 2, count)

	require.NoError(t, DeleteStudentAccounts(db, []uint{a.ID, b.ID}))
	db.Model(&uModel.UserModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpsertStudentAccountKeepsHomonymLogin(t *testing.T) {
	t.Setenv("STUDENT_EMAIL_DOMAIN", "etu.test.fr")
	db := testdb.New(t)

	a := &studentModel.StudentModel{StudentNumber: "2001", Name: "Dupont Amélie"}
	b := &studentModel.StudentModel{StudentNumber: "2002", Name: "Dupont Amélie"}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	_, err := UpsertStudentAccount(db, a, "Amélie", "Dupont")
	require.NoError(t, err)
	ub, err := UpsertStudentAccount(db, b, "Amélie", "Dupont")
	require.NoError(t, err)
	require.Equal(t, "amelie.dupont.2002@etu.test.fr", ub.Email)

	// the plain address frees up once the first homonym leaves
	require.NoError(t, DeleteStudentAccounts(db, []uint{a.ID}))

	again, err := UpsertStudentAccount(db, b, "Amélie", "Dupont")
	require.NoError(t, err)
	assert.Equal(t, ub.ID, again.ID)
	assert.Equal(t, "amelie.dupont.2002@etu.test.fr", again.Email)

	// a name change still moves the login to the new name
	renamed, err := UpsertStudentAccount(db, b, "Amélie", "Durand")
	require.NoError(t, err)
	assert.Equal(t, "amelie.durand@etu.test.fr", renamed.Email)
}
