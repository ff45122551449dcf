package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/plutus/internal/api/rest"
	"github.com/fortuna/plutus/internal/api/websocket"
	"github.com/fortuna/plutus/internal/cache"
	"github.com/fortuna/plutus/internal/config"
	"github.com/fortuna/plutus/internal/ingest"
	"github.com/fortuna/plutus/internal/publisher"
	"github.com/fortuna/plutus/internal/scheduler"
	"github.com/fortuna/plutus/internal/service"
	"github.com/fortuna/plutus/internal/store"
	"github.com/fortuna/plutus/internal/store/repository"
	"github.com/fortuna/plutus/internal/teams"
)

const (
	serviceName    = "plutus"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "plutus.json5", "path to a JSON5 config file")
	flag.Parse()

	log.Printf("Starting %s v%s - NBA Salary Service", serviceName, serviceVersion)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("✓ Connected to %s database", db.Driver())

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Seed the team directory (non-fatal)
	if err := repository.NewTeamRepository(db).Seed(ctx, teams.All()); err != nil {
		log.Printf("⚠️  Team seed warning: %v (continuing anyway)", err)
	} else {
		log.Println("✓ Team directory seeded")
	}

	deps := service.Dependencies{
		Store: repository.NewSalaryRepository(db),
		TTL:   cfg.CacheTTL,
	}
	checks := map[string]rest.HealthCheck{
		"database": db.HealthCheck,
	}

	// Redis is optional: without it the service runs on memory and the database
	if redisCache := connectRedis(cfg); redisCache != nil {
		defer redisCache.Close()
		deps.Cache = redisCache
		deps.Publisher = publisher.NewRedisPublisher(redisCache.Client())
		checks["redis"] = func() error {
			hctx, hcancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer hcancel()
			return redisCache.HealthCheck(hctx)
		}
	}

	ingester, closeIngester := ingest.NewDefaultIngester(ingest.Options{
		HoopsHypeURL: cfg.HoopsHypeURL,
		BBRefURL:     cfg.BBRefURL,
		RequestDelay: cfg.RequestDelay,
		UseBrowser:   cfg.UseBrowser,
	})
	defer closeIngester()

	salaries := service.NewSalaryService(ingester, deps)

	// Scheduler
	sched := scheduler.NewOrchestrator(salaries, &scheduler.Config{
		CurrentSeason:      cfg.CurrentSeason,
		DailyRefreshHour:   cfg.DailyRefreshHour,
		EnableDailyRefresh: cfg.EnableDailyRefresh,
		RefreshOnStart:     cfg.RefreshOnStart,
		MaxRetries:         3,
		RetryDelay:         30 * time.Second,
	})
	go sched.Start(ctx)
	log.Println("✓ Scheduler started")

	// REST API server
	restServer := rest.NewServer(cfg.RESTPort, salaries, cfg.CurrentSeason, checks)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	// WebSocket server
	wsServer := websocket.NewServer(cfg.WSPort, salaries)
	go func() {
		if err := wsServer.Start(); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ Plutus v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s/ws/salaries", cfg.WSPort)
	log.Printf("  Season: %s", cfg.CurrentSeason)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down Plutus gracefully...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("Plutus stopped")
}

// connectRedis retries for a while so the service can start alongside Redis
func connectRedis(cfg config.Config) *cache.RedisCache {
	if cfg.RedisURL == "" {
		log.Println("⚠️  REDIS_URL not set, running without cache and refresh events")
		return nil
	}

	const maxRetries = 10
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err == nil {
			log.Println("✓ Connected to Redis")
			return redisCache
		}
		log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
		time.Sleep(retryDelay)
	}

	log.Printf("⚠️  Giving up on Redis, running without cache and refresh events")
	return nil
}
