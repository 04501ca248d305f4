package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skilllink/course-platform/internal/api"
	"skilllink/course-platform/internal/config"
	"skilllink/course-platform/internal/repository/mongo"
	"skilllink/course-platform/internal/service"
	"skilllink/course-platform/internal/storage"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title SkillLink Course Platform API
// @version 1.0
// @description API for authoring, bulk-importing, and consuming online courses.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting SkillLink Course Platform Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
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
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureCourseIndexes(ctx, appDB.Collection("courses"))
		mongo.EnsureSectionIndexes(ctx, appDB.Collection("sections"))
		mongo.EnsureLessonIndexes(ctx, appDB.Collection("lessons"))
		mongo.EnsureAssetIndexes(ctx, appDB.Collection("assets"))
		mongo.EnsureEnrollmentIndexes(ctx, appDB.Collection("enrollments"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	courseRepo := mongo.NewMongoCourseRepository(appDB)
	sectionRepo := mongo.NewMongoSectionRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)
	assetRepo := mongo.NewMongoAssetRepository(appDB)
	enrollmentRepo := mongo.NewMongoEnrollmentRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	courseService := service.NewCourseService(courseRepo, sectionRepo, lessonRepo, assetRepo, fileStorage)
	importService := service.NewImportService(courseRepo, sectionRepo, lessonRepo, fileStorage)
	learnerService := service.NewLearnerService(courseRepo, sectionRepo, lessonRepo, assetRepo, enrollmentRepo, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware
	router.MaxMultipartMemory = 64 << 20

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, api.RouterConfig{
		JWTSecret:       cfg.JWT.Secret,
		MaxArchiveBytes: cfg.Upload.MaxArchiveBytes,
	}, authService, courseService, importService, learnerService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

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

	// Give in-flight requests a short window to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
