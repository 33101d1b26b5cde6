package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymdesk/routine-admin/internal/api"
	"gymdesk/routine-admin/internal/cache"
	"gymdesk/routine-admin/internal/config"
	"gymdesk/routine-admin/internal/housekeeping"
	"gymdesk/routine-admin/internal/notify"
	"gymdesk/routine-admin/internal/repository/mongo"
	"gymdesk/routine-admin/internal/service"
	"gymdesk/routine-admin/internal/storage"
	"gymdesk/routine-admin/internal/tokengate"

	"github.com/gin-gonic/gin"
)

// @title Routine Admin API
// @version 1.0
// @description API for gym staff managing students, the exercise library and weekly routines, plus the public training timer.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Routine Admin Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: JWT_SECRET is not set")
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	storageCtx, cancelStorage := context.WithTimeout(context.Background(), 30*time.Second)
	fileStorage, err := storage.NewS3Storage(storageCtx, cfg.S3)
	cancelStorage()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	studentRepo := mongo.NewMongoStudentRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	tokenRepo := mongo.NewMongoAccessTokenRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	gate := tokengate.NewGate(tokenRepo, nil)
	mailer := notify.NewMailer(cfg.Email.ResendAPIKey, cfg.Email.From)
	lookupCache := cache.New(cfg.Cache.TTL)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	studentService := service.NewStudentService(studentRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, lookupCache, fileStorage)
	routineService := service.NewRoutineService(routineRepo, studentRepo, exerciseService, gate, mailer, service.LinkSettings{
		PublicOrigin: cfg.Server.PublicOrigin,
		ChatBaseURL:  cfg.Chat.BaseURL,
	})
	trainingService := service.NewTrainingService(gate, routineRepo, studentRepo, exerciseService)
	dashboardService := service.NewDashboardService(studentRepo, routineRepo)

	// --- Housekeeping ---
	scheduler, err := housekeeping.NewScheduler(cfg.Housekeeping.Schedule, housekeeping.NewTokenPurger(tokenRepo, cfg.Housekeeping.TokenRetention))
	if err != nil {
		log.Fatalf("FATAL: Invalid housekeeping schedule %q: %v", cfg.Housekeeping.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, userService, studentService, exerciseService, routineService, trainingService, dashboardService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s (public origin %s)", cfg.Server.Address, cfg.Server.PublicOrigin)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
