package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/databases/testdb"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	uModel "gestionabsence_backend/internals/features/users/user/model"
	userService "gestionabsence_backend/internals/features/users/user/service"
	helper "gestionabsence_backend/internals/helpers"
)

func init() {
	userService.PasswordCost = bcrypt.MinCost
}

func TestIsOneCharDifferent(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"TD1", "TD2", true},
		{"TD1", "TD1", false},
		{"TD1", "TP2", false},
		{"TD1", "TD10", false},
		{"A", "B", true},
		{"", "", false},
		{"Gé1", "Gé2", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsOneCharDifferent(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("  DUPONT  Jean Pierre ")
	assert.Equal(t, "Jean Pierre", first)
	assert.Equal(t, "DUPONT", last)

	first, last = SplitName("Cher")
	assert.Empty(t, first)
	assert.Equal(t, "Cher", last)
}

type world struct {
	db     *gorm.DB
	sem    semesterModel.SemesterModel
	groups map[string]groupModel.GroupModel
	st     map[string]studentModel.StudentModel
}

func newWorld(t *testing.T, groups ...string) *world {
	t.Helper()
	w := &world{db: testdb.New(t), groups: map[string]groupModel.GroupModel{}, st: map[string]studentModel.StudentModel{}}
	w.sem = semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, w.db.Create(&w.sem).Error)
	for _, name := range groups {
		g := groupModel.GroupModel{Name: name, SemesterID: w.sem.ID}
		require.NoError(t, w.db.Create(&g).Error)
		w.groups[name] = g
	}
	return w
}

func (w *world) enroll(t *testing.T, student, number string, groups ...string) {
	t.Helper()
	s, ok := w.st[student]
	if !ok {
		s = studentModel.StudentModel{StudentNumber: number, Name: student}
		require.NoError(t, w.db.Create(&s).Error)
		w.st[student] = s
	}
	for _, g := range groups {
		require.NoError(t, w.db.Create(&inscriptionModel.InscriptionModel{StudentID: s.ID, GroupID: w.groups[g].ID}).Error)
	}
}

func names(rows []OtherGroupStudent) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestListByOtherGroupsPrefersSimilarGroups(t *testing.T) {
	w := newWorld(t, "TD1", "TD2", "TD3", "L1S1")
	w.enroll(t, "Zoé", "1", "TD1", "L1S1")
	w.enroll(t, "Bruno", "2", "TD2", "L1S1")
	w.enroll(t, "Alice", "3", "TD2", "TD3", "L1S1")
	w.enroll(t, "Marc", "4", "L1S1")

	rows, err := ListByOtherGroups(w.db, w.groups["TD1"].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bruno"}, names(rows))
	require.NotNil(t, rows[0].OriginalGroupID)
	assert.Equal(t, w.groups["TD2"].ID, *rows[0].OriginalGroupID)
	assert.Equal(t, "TD2", rows[0].OriginalGroupName)
}

func TestListByOtherGroupsFallsBackToSemester(t *testing.T) {
	w := newWorld(t, "Anglais", "L1S1", "TD1")
	w.enroll(t, "Zoé", "1", "Anglais", "L1S1")
	w.enroll(t, "Bruno", "2", "L1S1", "TD1")
	w.enroll(t, "Alice", "3", "TD1")

	rows, err := ListByOtherGroups(w.db, w.groups["Anglais"].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bruno"}, names(rows))
	assert.Nil(t, rows[0].OriginalGroupID)

	_, err = ListByOtherGroups(w.db, 999)
	assert.Error(t, err)
}

func TestListPagingAndSearch(t *testing.T) {
	w := newWorld(t, "TD1")
	w.enroll(t, "MARTIN Léa", "21000001")
	w.enroll(t, "DURAND Paul", "21000002")
	w.enroll(t, "BERNARD Luc", "22000003")

	rows, total, err := List(w.db, "", helper.Paging{Page: 1, PerPage: 2, Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "BERNARD Luc", rows[0].Name)

	rows, total, err = List(w.db, "2100", helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, _, err = List(w.db, "martin", helper.Paging{Page: 1, PerPage: 10, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "21000001", rows[0].StudentNumber)
}

func TestImportIntoSemester(t *testing.T) {
	db := testdb.New(t)
	for _, n := range []string{"S1", "S2", "S3"} {
		require.NoError(t, db.Create(&semesterModel.SemesterModel{Name: n}).Error)
	}
	var s3 semesterModel.SemesterModel
	require.NoError(t, db.Where("name = ?", "S3").First(&s3).Error)

	existing := studentModel.StudentModel{StudentNumber: "100", Name: "old name"}
	require.NoError(t, db.Create(&existing).Error)

	res, err := ImportIntoSemester(db, s3.ID, []StudentRow{
		{StudentNumber: "100", FirstName: "Élodie", LastName: "Garçon"},
		{StudentNumber: "101", FirstName: "Hugo", LastName: "Petit"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.EqualValues(t, 2, res.Enrolled)
	assert.Equal(t, "L2S3", res.Group.Name)

	var renamed studentModel.StudentModel
	require.NoError(t, db.First(&renamed, existing.ID).Error)
	assert.Equal(t, "Garçon Élodie", renamed.Name)

	var acc uModel.UserModel
	require.NoError(t, db.Where("student_id = ?", existing.ID).First(&acc).Error)
	assert.Equal(t, "elodie.garcon@"+userService.DefaultStudentDomain, acc.Email)

	// second import reuses the class group and skips existing inscriptions
	res, err = ImportIntoSemester(db, s3.ID, []StudentRow{{StudentNumber: "101", FirstName: "Hugo", LastName: "Petit"}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Enrolled)
	var groups int64
	db.Model(&groupModel.GroupModel{}).Count(&groups)
	assert.EqualValues(t, 1, groups)

	_, err = ImportIntoSemester(db, s3.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestDeleteCascades(t *testing.T) {
	w := newWorld(t, "TD1")
	w.enroll(t, "Zoé", "1", "TD1")
	zoe := w.st["Zoé"]
	_, err := userService.UpsertStudentAccount(w.db, &zoe, "Zoé", "Blanc")
	require.NoError(t, err)
	slot := testdb.Slot(t, w.db, 0)
	require.NoError(t, w.db.Create(&presenceModel.PresenceModel{StudentID: zoe.ID, SlotID: slot.ID}).Error)

	_, err = Delete(w.db, zoe.ID)
	require.NoError(t, err)

	for _, m := range []any{&presenceModel.PresenceModel{}, &inscriptionModel.InscriptionModel{}, &studentModel.StudentModel{}} {
		var n int64
		require.NoError(t, w.db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	var accounts int64
	require.NoError(t, w.db.Model(&uModel.UserModel{}).Where("student_id IS NOT NULL").Count(&accounts).Error)
	assert.Zero(t, accounts)
	_, err = Delete(w.db, zoe.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
