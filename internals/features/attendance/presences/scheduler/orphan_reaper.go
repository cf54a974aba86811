package scheduler

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	"gestionabsence_backend/internals/features/attendance/presences/service"
	"gestionabsence_backend/internals/helpers/storage"
)

type ReaperConfig struct {
	Grace        time.Duration
	CronSchedule string
	DryRun       bool
}

func ReaperConfigFromEnv() ReaperConfig {
	dry := strings.ToLower(configs.GetEnv("REAPER_DRY_RUN", "false"))
	return ReaperConfig{
		Grace:        configs.GetDuration("REAPER_GRACE", 24*time.Hour),
		CronSchedule: configs.GetEnv("REAPER_CRON", "15 2 * * *"),
		DryRun:       dry == "1" || dry == "true" || dry == "yes" || dry == "on",
	}
}

// StartOrphanReaper schedules the removal of stored justifications that no absence references anymore.
func StartOrphanReaper(c *cron.Cron, db *gorm.DB, store storage.BlobStore, cfg ReaperConfig) (cron.EntryID, error) {
	id, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := ReapOrphans(ctx, db, store, cfg, time.Now()); err != nil {
			log.Printf("[REAPER] run failed: %v", err)
		}
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[REAPER] scheduled %q on %s storage (grace=%s dry_run=%v)", cfg.CronSchedule, store.Driver(), cfg.Grace, cfg.DryRun)
	return id, nil
}

// ReapOrphans returns the refs it deleted (or would delete in dry-run).
// Files younger than the grace period are skipped: an upload may not be committed yet.
func ReapOrphans(ctx context.Context, db *gorm.DB, store storage.BlobStore, cfg ReaperConfig, now time.Time) ([]string, error) {
	objects, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	referenced, err := service.ReferencedFiles(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var reaped []string
	for _, o := range objects {
		if _, ok := referenced[o.Ref]; ok {
			continue
		}
		if now.Sub(o.ModTime) < cfg.Grace {
			continue
		}
		if cfg.DryRun {
			log.Printf("[REAPER] (dry-run) would delete %s", o.Ref)
			reaped = append(reaped, o.Ref)
			continue
		}
		if err := store.Delete(ctx, o.Ref); err != nil {
			log.Printf("[REAPER] delete %s: %v", o.Ref, err)
			continue
		}
		reaped = append(reaped, o.Ref)
	}
	log.Printf("[REAPER] scanned=%d referenced=%d reaped=%d", len(objects), len(referenced), len(reaped))
	return reaped, nil
}
