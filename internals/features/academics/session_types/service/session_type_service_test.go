package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"gestionabsence_backend/internals/databases/testdb"
	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	"gestionabsence_backend/internals/helpers/dbtime"
)

func TestUpsertIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	sem := semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, db.Create(&sem).Error)
	course := courseModel.CourseMaterialModel{Name: "Programmation 1", SemesterID: sem.ID}
	require.NoError(t, db.Create(&course).Error)
	td := sessionTypeModel.SessionTypeGlobalModel{Name: "TD"}
	require.NoError(t, db.Create(&td).Error)

	first, err := Upsert(db, td.ID, course.ID)
	require.NoError(t, err)
	again, err := Upsert(db, td.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = Upsert(db, 999, course.ID)
	assert.ErrorIs(t, err, ErrGlobalTypeNotFound)

	found, err := Find(db, td.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	rows, err := List(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TD", rows[0].SessionTypeGlobal.Name)
	assert.Equal(t, "Programmation 1", rows[0].CourseMaterial.Name)
}

func TestDeleteAllCascadesToSlots(t *testing.T) {
	db := testdb.New(t)
	sem := semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, db.Create(&sem).Error)
	course := courseModel.CourseMaterialModel{Name: "Programmation 1", SemesterID: sem.ID}
	require.NoError(t, db.Create(&course).Error)
	cm := sessionTypeModel.SessionTypeGlobalModel{Name: "CM"}
	require.NoError(t, db.Create(&cm).Error)
	st, err := Upsert(db, cm.ID, course.ID)
	require.NoError(t, err)

	slot := slotModel.SlotModel{
		Date:          datatypes.Date(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)),
		StartTime:     dbtime.MustParse("08:00"),
		EndTime:       dbtime.MustParse("10:00"),
		SessionTypeID: st.ID,
		ProfessorID:   testdb.Professor(t, db, "prof@univ.fr"),
	}
	require.NoError(t, db.Create(&slot).Error)
	stu := studentModel.StudentModel{StudentNumber: "1", Name: "Jean Dupont"}
	require.NoError(t, db.Create(&stu).Error)
	require.NoError(t, db.Create(&presenceModel.PresenceModel{StudentID: stu.ID, SlotID: slot.ID}).Error)

	n, err := DeleteAll(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var slots, presences int64
	db.Model(&slotModel.SlotModel{}).Count(&slots)
	db.Model(&presenceModel.PresenceModel{}).Count(&presences)
	assert.Zero(t, slots)
	assert.Zero(t, presences)

	globals, err := ListGlobals(db)
	require.NoError(t, err)
	assert.Len(t, globals, 1)
}
