package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/brushforge/backend/internal/handlers"
	"github.com/brushforge/backend/internal/middleware"
	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/services"
	"github.com/brushforge/backend/internal/store"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, docStore store.Store, pgdb *gorm.DB, firebaseAuthClient *auth.Client, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.SavedProject{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewUserRepository(docStore)
	targetRepo := repositories.NewTargetRepository(docStore)
	likeRepo := repositories.NewLikeRepository(docStore)
	followRepo := repositories.NewFollowRepository(docStore)
	commentRepo := repositories.NewCommentRepository(docStore)
	activityRepo := repositories.NewActivityRepository(docStore)
	notificationRepo := repositories.NewNotificationRepository(docStore)
	badgeRepo := repositories.NewBadgeRepository(docStore)
	savedProjectRepo := repositories.NewPostgresSavedProjectRepository(pgdb)

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, logger)
	activityService := services.NewActivityService(activityRepo, logger)
	badgeService := services.NewBadgeService(badgeRepo, userRepo, notificationService, logger)
	reconcilerService := services.NewReconcilerService(activityRepo, notificationRepo, userRepo, 0, logger)
	engagementService := services.NewEngagementService(
		likeRepo, followRepo, commentRepo, targetRepo, userRepo,
		notificationService, activityService, badgeService, logger)
	targetService := services.NewTargetService(
		targetRepo, userRepo, likeRepo, commentRepo,
		activityService, badgeService, reconcilerService, logger)
	feedService := services.NewFeedService(activityRepo, followRepo, targetRepo, savedProjectRepo)

	// --- Protected routes (require Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Entity lifecycle routes
	targetHandler := handlers.NewTargetHandler(targetService)
	targetHandler.RegisterTargetRoutes(api)
	log.Println("Entity routes configured.")

	// Like, follow, and comment routes
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	engagementHandler.RegisterEngagementRoutes(api)
	log.Println("Engagement routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Badge routes
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	badgeHandler.RegisterBadgeRoutes(api)
	log.Println("Badge routes configured.")

	// Saved project routes
	savedProjectHandler := handlers.NewSavedProjectHandler(savedProjectRepo, targetService)
	savedProjectHandler.RegisterSavedProjectRoutes(api)
	log.Println("Saved project routes configured.")

	log.Println("All routes configured.")
}
