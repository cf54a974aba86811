package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	"gestionabsence_backend/internals/configs"
	database "gestionabsence_backend/internals/databases"
	"gestionabsence_backend/internals/databases/seeds"
	presenceScheduler "gestionabsence_backend/internals/features/attendance/presences/scheduler"
	authScheduler "gestionabsence_backend/internals/features/users/auth/scheduler"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/storage"
	middlewares "gestionabsence_backend/internals/middlewares"
	routes "gestionabsence_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	// 🔌 DB connect + pool
	database.ConnectDB()
	database.TunePool()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}

	// `go run . seed` fills the reference data and exits
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seeds.Run(database.DB); err != nil {
			log.Fatalf("❌ seed failed: %v", err)
		}
		database.Close(database.DB)
		return
	}
	database.WarmUpQueries()

	rc := cache.NewFromEnv()
	store, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("❌ storage init failed: %v", err)
	}

	// ⏱ schedulers after the DB is ready
	c := cron.New()
	if _, err := authScheduler.StartBlacklistCleanupScheduler(c, database.DB); err != nil {
		log.Printf("[WARN] blacklist cleanup not scheduled: %v", err)
	}
	if _, err := presenceScheduler.StartOrphanReaper(c, database.DB, store, presenceScheduler.ReaperConfigFromEnv()); err != nil {
		log.Printf("[WARN] orphan reaper not scheduled: %v", err)
	}
	c.Start()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.FiberErrorHandler,
		DisableStartupMessage: true,
		BodyLimit:             6 << 20,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	middlewares.SetupMiddlewares(app)
	routes.SetupRoutes(app, database.DB, rc, store)

	port := configs.GetEnv("PORT", "8080")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-c.Stop().Done()

	if err := rc.Close(); err != nil {
		log.Printf("[WARN] redis close: %v", err)
	}
	database.Close(database.DB)
}
