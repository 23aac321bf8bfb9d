package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/dhammaseva/center-console/internal/config"     // Internal config loader
	"github.com/dhammaseva/center-console/internal/database"   // MySQL connection pool
	"github.com/dhammaseva/center-console/internal/handler"    // HTTP handlers
	"github.com/dhammaseva/center-console/internal/middleware" // Redis cache and rate limiting
	"github.com/dhammaseva/center-console/internal/queue"      // RabbitMQ operations-log consumer
	"github.com/dhammaseva/center-console/internal/repository" // Data access layer
	"github.com/dhammaseva/center-console/internal/router"     // Route registration
)

func main() {
	// Load .env if present; in production the variables come from the
	// environment and a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config (fatal on missing vars)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single *sql.DB pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	courses := repository.NewCourseRepo(db)
	participants := repository.NewParticipantRepo(db)
	geometries := repository.NewGeometryRepo(db)
	purchases := repository.NewPurchaseRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	courseH := handler.NewCourseHandler(courses)
	participantH := handler.NewParticipantHandler(courses, participants)
	seatingH := handler.NewSeatingHandler(courses, participants, geometries)
	purchaseH := handler.NewPurchaseHandler(participants, purchases)

	e := echo.New() // Create Echo instance

	// Redis-backed rate limiting and response caching apply to every route.
	// Both middlewares degrade to pass-through no-ops when Redis is down, so
	// the console keeps working during an outage.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)                                                // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)                            // Auth endpoints
	router.RegisterAPI(e, cfg.JWTSecret, courseH, participantH, seatingH, purchaseH) // Console API

	// Consume seating and check-in events into the operations log in the
	// background. The consumer reconnects on its own; main never waits on it.
	go queue.StartOperationsConsumer()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
