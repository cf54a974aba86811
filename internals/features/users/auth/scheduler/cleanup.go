package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	authRepo "gestionabsence_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler registers the purge of expired blacklist rows on c.
// The schedule comes from BLACKLIST_CLEANUP_CRON (default @daily).
func StartBlacklistCleanupScheduler(c *cron.Cron, db *gorm.DB) (cron.EntryID, error) {
	schedule := configs.GetEnv("BLACKLIST_CLEANUP_CRON", "@daily")
	id, err := c.AddFunc(schedule, func() { RunBlacklistCleanup(db) })
	if err != nil {
		return 0, err
	}
	log.Printf("[CLEANUP] token_blacklist cleanup scheduled (%s)", schedule)
	return id, nil
}

func RunBlacklistCleanup(db *gorm.DB) int64 {
	log.Println("[CLEANUP] purging token_blacklist...")
	n, err := authRepo.CleanupExpiredBlacklist(db, time.Now().UTC())
	if err != nil {
		log.Printf("[CLEANUP ERROR] purge failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	} else {
		log.Println("[CLEANUP] nothing to purge")
	}
	return n
}
