package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/abdur28/boarding-sky-sub000/cache"
	"github.com/abdur28/boarding-sky-sub000/config"
	"github.com/abdur28/boarding-sky-sub000/controllers"
	"github.com/abdur28/boarding-sky-sub000/inflight"
	"github.com/abdur28/boarding-sky-sub000/media"
	"github.com/abdur28/boarding-sky-sub000/notify"
	"github.com/abdur28/boarding-sky-sub000/routes"
	"github.com/abdur28/boarding-sky-sub000/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	cfg := config.Load()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")
	config.SeedDatabase(db, cfg.AdminEmail)

	var (
		listCache cache.ListCache
		guard     inflight.Guard = inflight.NewMemoryGuard()
		rdb       *redis.Client
	)
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = cache.NewClient(ctx, cache.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		cancel()
		if err != nil {
			log.Printf("⚠️  Redis unavailable, using in-process cache and guard: %v", err)
		} else {
			listCache = cache.NewRedis(rdb, cfg.CacheTTL)
			guard = inflight.NewRedisGuard(rdb, time.Minute)
			log.Println("✅ Redis connected.")
		}
	}
	if listCache == nil {
		listCache = cache.NewMemory(cfg.CacheTTL)
	}

	notifiers := notify.Multi{notify.NewEmailNotifier(cfg.SMTP)}
	var kafka *notify.KafkaNotifier
	if len(cfg.KafkaBrokers) > 0 {
		kafka = notify.NewKafkaNotifier(notify.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		notifiers = append(notifiers, kafka)
		log.Printf("✅ Booking events published to Kafka topic %s", cfg.KafkaTopic)
	}

	store := media.NewLocalStore(cfg.UploadsDir, cfg.UploadsURL())
	deps := services.CatalogDeps{
		Placeholder: cfg.Placeholder,
		Cleaner:     media.NewCleaner(store),
		Cache:       listCache,
		Guard:       guard,
	}

	userService := services.NewUserService(db)
	bookingService := services.NewBookingService(db, guard, notifiers)
	settingsService := services.NewSettingsService(db)

	router := routes.SetupRouter(routes.Router{
		Resolver:    userService,
		Catalogs:    routes.NewCatalogRoutes(db, deps),
		Bookings:    controllers.NewBookingController(bookingService),
		Settings:    controllers.NewSettingsController(settingsService),
		Media:       controllers.NewMediaController(store),
		Roles:       controllers.NewRoleController(userService),
		UploadsDir:  cfg.UploadsDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	if kafka != nil {
		if err := kafka.Close(); err != nil {
			log.Printf("⚠️  kafka writer close: %v", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("⚠️  redis close: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("✅ Server stopped gracefully")
}
