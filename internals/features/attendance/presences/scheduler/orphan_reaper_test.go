package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestionabsence_backend/internals/databases/testdb"
	studentModel "gestionabsence_backend/internals/features/academics/students/model"
	presenceModel "gestionabsence_backend/internals/features/attendance/presences/model"
	"gestionabsence_backend/internals/helpers/storage"
)

func TestReapOrphans(t *testing.T) {
	db := testdb.New(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now()
	old := now.Add(-48 * time.Hour)
	for _, name := range []string{"justif-kept.pdf", "justif-orphan.pdf", "justif-fresh.pdf"} {
		_, err := store.Put(ctx, name, "application/pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, os.Chtimes(filepath.Join(dir, "justif-kept.pdf"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "justif-orphan.pdf"), old, old))

	ref := "justif-kept.pdf"
	st := studentModel.StudentModel{StudentNumber: "1", Name: "Jean Dupont"}
	require.NoError(t, db.Create(&st).Error)
	slot := testdb.Slot(t, db, 0)
	require.NoError(t, db.Create(&presenceModel.PresenceModel{StudentID: st.ID, SlotID: slot.ID, Justified: true, JustificationFile: &ref}).Error)

	cfg := ReaperConfig{Grace: 24 * time.Hour, DryRun: true}
	reaped, err := ReapOrphans(ctx, db, store, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"justif-orphan.pdf"}, reaped)
	_, err = os.Stat(filepath.Join(dir, "justif-orphan.pdf"))
	assert.NoError(t, err, "dry-run must not delete")

	cfg.DryRun = false
	reaped, err = ReapOrphans(ctx, db, store, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"justif-orphan.pdf"}, reaped)
	_, err = os.Stat(filepath.Join(dir, "justif-orphan.pdf"))
	assert.True(t, os.IsNotExist(err))

	objects, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestReaperConfigFromEnv(t *testing.T) {
	t.Setenv("REAPER_GRACE", "2h")
	t.Setenv("REAPER_DRY_RUN", "yes")
	cfg := ReaperConfigFromEnv()
	assert.Equal(t, 2*time.Hour, cfg.Grace)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "15 2 * * *", cfg.CronSchedule)
}
