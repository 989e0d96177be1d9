package main

import (
	"context"
	"log"

	"github.com/brushforge/backend/internal/router"
	"github.com/brushforge/backend/internal/store"
	"github.com/brushforge/backend/pkg/config"
	"github.com/brushforge/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize PostgreSQL for the saved-projects table
	pgdb, err := config.InitPostgres(cfg.PostgresConnStr)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer config.ClosePostgres(pgdb)

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer firebaseApp.Close()

	// Select the document store backend
	docStore, cleanup, err := newStore(cfg, firebaseApp)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer cleanup()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, docStore, pgdb, firebaseApp.AuthClient, logger)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newStore(cfg *config.Config, firebaseApp *firebase.App) (store.Store, func(), error) {
	if cfg.StoreBackend == "mongo" {
		client, err := config.InitMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMongoStore(client.Database(cfg.MongoDatabase)), func() { config.CloseMongo(client) }, nil
	}
	return store.NewFirestoreStore(firebaseApp.Firestore), func() {}, nil
}
