package service

import (
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/databases/testdb"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
)

type campus struct {
	db   *gorm.DB
	sems map[int]semesterModel.SemesterModel
	n    int
}

func newCampus(t *testing.T) *campus {
	t.Helper()
	c := &campus{db: testdb.New(t), sems: map[int]semesterModel.SemesterModel{}}
	for i := 1; i <= 6; i++ {
		s := semesterModel.SemesterModel{Name: fmt.Sprintf("S%d", i)}
		require.NoError(t, c.db.Create(&s).Error)
		c.sems[i] = s
	}
	return c
}

func (c *campus) group(t *testing.T, semester int, name string) groupModel.GroupModel {
	t.Helper()
	g := groupModel.GroupModel{Name: name, SemesterID: c.sems[semester].ID}
	require.NoError(t, c.db.Create(&g).Error)
	return g
}

func (c *campus) student(t *testing.T, name string, groups ...groupModel.GroupModel) studentModel.StudentModel {
	t.Helper()
	c.n++
	s := studentModel.StudentModel{StudentNumber: fmt.Sprintf("2100%02d", c.n), Name: name}
	require.NoError(t, c.db.Create(&s).Error)
	for _, g := range groups {
		require.NoError(t, c.db.Create(&inscriptionModel.InscriptionModel{StudentID: s.ID, GroupID: g.ID}).Error)
	}
	return s
}

func groupNames(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.Model(&groupModel.GroupModel{}).Order("name").Pluck("name", &names).Error)
	return names
}

func membersOf(t *testing.T, db *gorm.DB, groupName string) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&inscriptionModel.InscriptionModel{}).
		Joins("JOIN groups g ON g.id = inscriptions.group_id").
		Where("g.name = ?", groupName).
		Order("student_id").
		Pluck("student_id", &ids).Error)
	return ids
}

func TestValidateSemesterPromotion(t *testing.T) {
	assert.NoError(t, ValidateSemesterPromotion(1, 1))
	assert.NoError(t, ValidateSemesterPromotion(2, 3))
	assert.NoError(t, ValidateSemesterPromotion(3, 5))

	assert.ErrorIs(t, ValidateSemesterPromotion(0, 1), ErrInvalidYear)
	assert.ErrorIs(t, ValidateSemesterPromotion(4, 1), ErrInvalidYear)
	assert.ErrorIs(t, ValidateSemesterPromotion(1, 2), ErrInvalidSemester)
	assert.ErrorIs(t, ValidateSemesterPromotion(2, 1), ErrSemesterMismatch)
}

func TestPromoteSemester(t *testing.T) {
	c := newCampus(t)
	td1 := c.group(t, 1, "TD1")
	td2 := c.group(t, 1, "TD2")
	other := c.group(t, 3, "TD1")
	alice := c.student(t, "MARTIN Alice", td1, td2)
	bob := c.student(t, "DURAND Bob", td1)
	c.student(t, "PETIT Chloe", other)

	actor := uint(7)
	res, err := PromoteSemester(c.db, 1, 1, &actor)
	require.NoError(t, err)
	assert.Equal(t, "Promotion de L1S1 vers L1S2 réussie. 2 étudiants promus.", res.Message)
	assert.Equal(t, 2, res.Promoted)
	assert.Equal(t, []string{"L1S2"}, res.Groups)

	assert.Equal(t, []string{"L1S2", "TD1"}, groupNames(t, c.db))
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, membersOf(t, c.db, "L1S2"))

	runs, err := History(c.db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "semester", runs[0].Kind)
	require.NotNil(t, runs[0].ActorUserID)
	assert.Equal(t, actor, *runs[0].ActorUserID)

	var summary Result
	require.NoError(t, sonic.Unmarshal(runs[0].Summary, &summary))
	assert.Equal(t, res.Message, summary.Message)
}

func TestPromoteSemesterRejectsBadInput(t *testing.T) {
	c := newCampus(t)
	_, err := PromoteSemester(c.db, 1, 3, nil)
	assert.ErrorIs(t, err, ErrSemesterMismatch)

	runs, err := History(c.db, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPromoteYear(t *testing.T) {
	c := newCampus(t)
	s2 := c.group(t, 2, "L1S2")
	s4 := c.group(t, 4, "TD1")
	s6 := c.group(t, 6, "TP1")
	c.group(t, 1, "TD9")
	anna := c.student(t, "ROUX Anna", s2)
	ben := c.student(t, "BLANC Ben", s4)
	carl := c.student(t, "NOIR Carl", s6)

	res, err := PromoteYear(c.db, nil)
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle année réussie. 2 étudiants promus, 1 étudiants supprimés (fin de licence).", res.Message)
	assert.Equal(t, 2, res.Promoted)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []string{"L2S3", "L3S5"}, res.Groups)

	assert.Equal(t, []string{"L2S3", "L3S5"}, groupNames(t, c.db))
	assert.Equal(t, []uint{anna.ID}, membersOf(t, c.db, "L2S3"))
	assert.Equal(t, []uint{ben.ID}, membersOf(t, c.db, "L3S5"))

	var left int64
	require.NoError(t, c.db.Model(&studentModel.StudentModel{}).Where("id = ?", carl.ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestPromoteYearMissingSemesters(t *testing.T) {
	db := testdb.New(t)
	require.NoError(t, db.Create(&semesterModel.SemesterModel{Name: "S2"}).Error)

	_, err := PromoteYear(db, nil)
	assert.ErrorIs(t, err, ErrMissingSemesters)
}
