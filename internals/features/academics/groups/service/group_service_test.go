package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/databases/testdb"
	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	inscriptionModel "gestionabsence_backend/internals/features/academics/inscriptions/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	"gestionabsence_backend/internals/helpers/dbtime"
)

func seedSemesters(t *testing.T, db *gorm.DB) map[string]uint {
	t.Helper()
	ids := map[string]uint{}
	for _, n := range []string{"S1", "S2", "S3", "S4"} {
		s := semesterModel.SemesterModel{Name: n}
		require.NoError(t, db.Create(&s).Error)
		ids[n] = s.ID
	}
	return ids
}

func TestListByYearAndStudent(t *testing.T) {
	db := testdb.New(t)
	sem := seedSemesters(t, db)

	g1 := &groupModel.GroupModel{Name: "G1", SemesterID: sem["S1"]}
	g2 := &groupModel.GroupModel{Name: "G2", SemesterID: sem["S2"]}
	g3 := &groupModel.GroupModel{Name: "G3", SemesterID: sem["S3"]}
	for _, g := range []*groupModel.GroupModel{g1, g2, g3} {
		require.NoError(t, Create(db, g))
	}
	assert.Error(t, Create(db, &groupModel.GroupModel{Name: "X", SemesterID: 999}))

	year1, err := ListByYear(db, 1)
	require.NoError(t, err)
	require.Len(t, year1, 2)
	assert.Equal(t, "G1", year1[0].Name)
	assert.Equal(t, "S1", year1[0].Semester.Name)

	st := &studentModel.StudentModel{StudentNumber: "1", Name: "A"}
	require.NoError(t, db.Create(st).Error)
	require.NoError(t, db.Create(&inscriptionModel.InscriptionModel{StudentID: st.ID, GroupID: g3.ID}).Error)

	mine, err := ListByStudent(db, st.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g3.ID, mine[0].ID)
}

func TestCreateFromSemesterNameAndFindOrCreate(t *testing.T) {
	db := testdb.New(t)
	sem := seedSemesters(t, db)

	g, err := CreateFromSemesterName(db, "S3", "L2S3")
	require.NoError(t, err)
	assert.Equal(t, sem["S3"], g.SemesterID)

	_, err = CreateFromSemesterName(db, "S8", "x")
	assert.ErrorIs(t, err, semesterService.ErrSemesterNotFound)

	same, err := FindOrCreate(db, sem["S3"], "L2S3")
	require.NoError(t, err)
	assert.Equal(t, g.ID, same.ID)

	other, err := FindOrCreate(db, sem["S4"], "L2S4")
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, other.ID)
}

func TestUpdate(t *testing.T) {
	db := testdb.New(t)
	sem := seedSemesters(t, db)
	g := &groupModel.GroupModel{Name: "G1", SemesterID: sem["S1"]}
	require.NoError(t, Create(db, g))

	_, err := Update(db, g.ID, map[string]any{})
	assert.ErrorIs(t, err, ErrNothingToSave)

	updated, err := Update(db, g.ID, map[string]any{"name": "G1bis", "semester_id": sem["S2"]})
	require.NoError(t, err)
	assert.Equal(t, "G1bis", updated.Name)
	assert.Equal(t, "S2", updated.Semester.Name)

	_, err = Update(db, 999, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteKeepsSlotsAsHistory(t *testing.T) {
	db := testdb.New(t)
	sem := seedSemesters(t, db)
	g := &groupModel.GroupModel{Name: "G1", SemesterID: sem["S1"]}
	require.NoError(t, Create(db, g))

	st := &studentModel.StudentModel{StudentNumber: "1", Name: "A"}
	require.NoError(t, db.Create(st).Error)
	require.NoError(t, db.Create(&inscriptionModel.InscriptionModel{StudentID: st.ID, GroupID: g.ID}).Error)

	course := courseModel.CourseMaterialModel{Name: "Analyse", SemesterID: sem["S1"]}
	require.NoError(t, db.Create(&course).Error)
	global := sessionTypeModel.SessionTypeGlobalModel{Name: "CM"}
	require.NoError(t, db.Create(&global).Error)
	stype := sessionTypeModel.SessionTypeModel{SessionTypeGlobalID: global.ID, CourseMaterialID: course.ID}
	require.NoError(t, db.Create(&stype).Error)

	gid := g.ID
	slot := &slotModel.SlotModel{
		Date:          datatypes.Date(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)),
		StartTime:     dbtime.MustParse("08:00"),
		EndTime:       dbtime.MustParse("10:00"),
		SessionTypeID: stype.ID,
		GroupID:       &gid,
		ProfessorID:   testdb.Professor(t, db, "prof@univ.fr"),
	}
	require.NoError(t, db.Create(slot).Error)

	deleted, err := Delete(db, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "G1", deleted.Name)

	var n int64
	db.Model(&inscriptionModel.InscriptionModel{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&slotModel.SlotModel{}).Where("group_id IS NULL").Count(&n)
	assert.EqualValues(t, 1, n)

	_, err = Delete(db, g.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteAll(t *testing.T) {
	db := testdb.New(t)
	sem := seedSemesters(t, db)
	require.NoError(t, Create(db, &groupModel.GroupModel{Name: "A", SemesterID: sem["S1"]}))
	require.NoError(t, Create(db, &groupModel.GroupModel{Name: "B", SemesterID: sem["S2"]}))

	n, err := DeleteAll(db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = DeleteAll(db)
	require.NoError(t, err)
	assert.Zero(t, n)
}
