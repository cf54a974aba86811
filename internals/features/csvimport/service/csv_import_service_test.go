package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gestionabsence_backend/internals/databases/testdb"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	uModel "gestionabsence_backend/internals/features/users/user/model"
	userService "gestionabsence_backend/internals/features/users/user/service"
)

func init() {
	userService.PasswordCost = bcrypt.MinCost
}

func TestDetectSeparator(t *testing.T) {
	assert.Equal(t, ';', DetectSeparator([]byte("num;nom;prenom\n1,2;x;y")))
	assert.Equal(t, ',', DetectSeparator([]byte("num,nom,prenom\n")))
	assert.Equal(t, ',', DetectSeparator([]byte("21001")))
}

func TestReadRecords(t *testing.T) {
	data := []byte("\xEF\xBB\xBFnuméro;nom;prénom\n21001;MARTIN;Alice\n\n21002 ; DURAND ; Bob\n")
	recs, err := ReadRecords(data)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"21001", "MARTIN", "Alice"},
		{"21002", "DURAND", "Bob"},
	}, recs)

	// no header: first cell is numeric
	recs, err = ReadRecords([]byte("21001,MARTIN,Alice\n"))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	// decomposed accents come back composed
	// decomposed é becomes the composed form
	recs, err = ReadRecords([]byte("21003,GARCON,E\u0301lodie\n"))
	require.NoError(t, err)
	assert.Equal(t, "\u00c9lodie", recs[0][2])

	_, err = ReadRecords([]byte("\xEF\xBB\xBF  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadRecords([]byte("21001,\"MARTIN,Alice\n"))
	assert.ErrorIs(t, err, ErrBadCSV)
}

func TestParseStudentsAndNumbers(t *testing.T) {
	rows, skipped := ParseStudents([][]string{
		{"21001", "MARTIN", "Alice"},
		{"21002", "CHER"},
		{"", "NOBODY", "X"},
		{"21004"},
	})
	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].FirstName)
	assert.Equal(t, "CHER", rows[1].LastName)
	assert.Empty(t, rows[1].FirstName)

	assert.Equal(t, []string{"1", "2"}, ParseNumbers([][]string{{"1", "a"}, {""}, {"2"}, {"1"}}))
}

func TestImportStudents(t *testing.T) {
	db := testdb.New(t)

	res, err := ImportStudents(db, []byte("numero;nom;prenom\n21001;MARTIN;Alice\n21002;DURAND;Bob\n;X;Y\n"))
	require.NoError(t, err)
	assert.Equal(t, StudentsResult{Created: 2, Updated: 0, Skipped: 1}, *res)

	res, err = ImportStudents(db, []byte("21001;MARTIN;Alicia\n"))
	require.NoError(t, err)
	assert.Equal(t, StudentsResult{Created: 0, Updated: 1, Skipped: 0}, *res)

	var s studentModel.StudentModel
	require.NoError(t, db.Where("student_number = ?", "21001").First(&s).Error)
	assert.Equal(t, "MARTIN Alicia", s.Name)

	var accounts int64
	require.NoError(t, db.Model(&uModel.UserModel{}).Where("student_id IS NOT NULL").Count(&accounts).Error)
	assert.EqualValues(t, 2, accounts)
}

func TestEnrollFromCSV(t *testing.T) {
	db := testdb.New(t)
	sem := semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, db.Create(&sem).Error)
	g := groupModel.GroupModel{Name: "TD1", SemesterID: sem.ID}
	require.NoError(t, db.Create(&g).Error)
	for _, n := range []string{"21001", "21002"} {
		require.NoError(t, db.Create(&studentModel.StudentModel{StudentNumber: n, Name: "S " + n}).Error)
	}

	res, err := EnrollFromCSV(db, g.ID, []byte("numero\n21001\n21002\n99999\n21001\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Enrolled)
	assert.Equal(t, []string{"99999"}, res.Unknown)

	res, err = EnrollFromCSV(db, g.ID, []byte("21001\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Enrolled)
	assert.Empty(t, res.Unknown)

	_, err = EnrollFromCSV(db, g.ID+100, []byte("21001\n"))
	assert.ErrorIs(t, err, groupService.ErrGroupNotFound)
}
