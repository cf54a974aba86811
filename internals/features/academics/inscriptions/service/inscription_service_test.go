package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestionabsence_backend/internals/databases/testdb"
	groupModel "gestionabsence_backend/internals/features/academics/groups/model"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
)

func TestEnrollManyIgnoresDuplicates(t *testing.T) {
	db := testdb.New(t)
	sem := semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, db.Create(&sem).Error)
	g := groupModel.GroupModel{Name: "TD1", SemesterID: sem.ID}
	require.NoError(t, db.Create(&g).Error)

	zoe := studentModel.StudentModel{StudentNumber: "2", Name: "Zoé Petit"}
	adam := studentModel.StudentModel{StudentNumber: "1", Name: "Adam Roux"}
	require.NoError(t, db.Create(&zoe).Error)
	require.NoError(t, db.Create(&adam).Error)

	n, err := EnrollMany(db, g.ID, []uint{zoe.ID, zoe.ID, 404})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = EnrollMany(db, g.ID, []uint{zoe.ID, adam.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows, err := ListByGroup(db, g.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Adam Roux", rows[0].Student.Name)

	_, err = EnrollMany(db, 999, []uint{adam.ID})
	assert.ErrorIs(t, err, groupService.ErrGroupNotFound)
}

func TestDeleteInscription(t *testing.T) {
	db := testdb.New(t)
	sem := semesterModel.SemesterModel{Name: "S1"}
	require.NoError(t, db.Create(&sem).Error)
	g := groupModel.GroupModel{Name: "TD1", SemesterID: sem.ID}
	require.NoError(t, db.Create(&g).Error)
	st := studentModel.StudentModel{StudentNumber: "1", Name: "Adam Roux"}
	require.NoError(t, db.Create(&st).Error)

	_, err := EnrollMany(db, g.ID, []uint{st.ID})
	require.NoError(t, err)

	require.NoError(t, Delete(db, st.ID, g.ID))
	assert.ErrorIs(t, Delete(db, st.ID, g.ID), ErrInscriptionNotFound)
}
