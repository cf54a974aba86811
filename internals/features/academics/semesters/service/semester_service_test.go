package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestionabsence_backend/internals/databases/testdb"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
)

func TestNamesForYear(t *testing.T) {
	assert.Equal(t, []string{"S1", "S2"}, NamesForYear(1))
	assert.Equal(t, []string{"S3", "S4"}, NamesForYear(2))
	assert.Equal(t, []string{"S5", "S6"}, NamesForYear(3))
	assert.Equal(t, "L2S3", ClassGroupName(2, 3))
}

func TestYearOfSemester(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 3, 7: 0}
	for n, want := range cases {
		assert.Equal(t, want, YearOfSemester(n), "semester %d", n)
	}
}

func TestLookups(t *testing.T) {
	db := testdb.New(t)
	for _, n := range []string{"S1", "S2", "S3"} {
		require.NoError(t, db.Create(&semesterModel.SemesterModel{Name: n}).Error)
	}

	all, err := List(db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "S1", all[0].Name)

	s2, err := FindByName(db, "S2")
	require.NoError(t, err)
	assert.Equal(t, all[1].ID, s2.ID)

	_, err = FindByName(db, "S9")
	assert.ErrorIs(t, err, ErrSemesterNotFound)

	_, err = Get(db, 999)
	assert.ErrorIs(t, err, ErrSemesterNotFound)

	ids, err := IDsForYear(db, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{all[2].ID}, ids)
}
