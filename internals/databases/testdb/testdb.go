// Package testdb opens a migrated in-memory SQLite database for package tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gestionabsence_backend/internals/constants"
	database "gestionabsence_backend/internals/databases"
	courseModel "gestionabsence_backend/internals/features/academics/course_materials/model"
	semesterModel "gestionabsence_backend/internals/features/academics/semesters/model"
	sessionTypeModel "gestionabsence_backend/internals/features/academics/session_types/model"
	slotModel "gestionabsence_backend/internals/features/attendance/slots/model"
	userModel "gestionabsence_backend/internals/features/users/user/model"
	"gestionabsence_backend/internals/helpers/dbtime"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Professor inserts a professor account so slot fixtures satisfy the
// professor_id foreign key.
func Professor(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	u := userModel.UserModel{Name: "Professeur", Email: email, Password: "x", Role: constants.RoleProfessor}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

// Slot inserts a slot together with its semester, course and session type.
// A zero profID creates a dedicated professor.
func Slot(t *testing.T, db *gorm.DB, profID uint) slotModel.SlotModel {
	t.Helper()
	sem := semesterModel.SemesterModel{Name: "SX"}
	require.NoError(t, db.Create(&sem).Error)
	course := courseModel.CourseMaterialModel{Name: "Cours fixture", SemesterID: sem.ID}
	require.NoError(t, db.Create(&course).Error)
	global := sessionTypeModel.SessionTypeGlobalModel{Name: "FX"}
	require.NoError(t, db.Create(&global).Error)
	st := sessionTypeModel.SessionTypeModel{SessionTypeGlobalID: global.ID, CourseMaterialID: course.ID}
	require.NoError(t, db.Create(&st).Error)
	if profID == 0 {
		profID = Professor(t, db, "fixture@univ.fr")
	}
	slot := slotModel.SlotModel{
		Date:          datatypes.Date(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)),
		StartTime:     dbtime.MustParse("08:00"),
		EndTime:       dbtime.MustParse("10:00"),
		SessionTypeID: st.ID,
		ProfessorID:   profID,
	}
	require.NoError(t, db.Create(&slot).Error)
	return slot
}
