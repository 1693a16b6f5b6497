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

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/api"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/catalog"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/config"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository"
	mongoRepo "github.com/iarefin28/myva-fitness-tracker-sub000/internal/repository/mongo"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/session"
	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Myva Fitness Tracker server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongoRepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongoRepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongoRepo.EnsureCatalogIndexes(ctx, appDB.Collection("catalog_entries"))
	}()

	// --- State repository (selected backend) ---
	var stateRepo repository.StateRepository
	switch cfg.Session.Storage {
	case "s3":
		stateRepo, err = storage.NewS3StateStore(cfg.S3, cfg.Session.StorageKey+".json")
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 state store: %v", err)
		}
	default:
		stateRepo = mongoRepo.NewMongoStateRepository(appDB, cfg.Session.StorageKey)
	}
	log.Printf("Session state backend: %s", cfg.Session.Storage)

	// --- Repositories and services ---
	catalogRepo := mongoRepo.NewMongoCatalogRepository(appDB)
	resolver := catalog.NewResolver(catalogRepo)
	sessions := session.NewSessionService(stateRepo)
	defer sessions.Close()

	// Rehydrate before any route is served so a write can never race ahead
	// of a not-yet-loaded prior state.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := sessions.Load(loadCtx); err != nil {
		loadCancel()
		log.Fatalf("FATAL: Could not rehydrate session state: %v", err)
	}
	loadCancel()
	log.Println("Session state rehydrated.")

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, sessions, resolver)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

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
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
