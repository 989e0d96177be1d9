// Command prune deletes activities and notifications older than the
// retention horizon. It is an out-of-band maintenance job meant for a cron
// schedule, never the request path.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/services"
	"github.com/brushforge/backend/internal/store"
	"github.com/brushforge/backend/pkg/config"
	"github.com/brushforge/backend/pkg/firebase"
	"go.uber.org/zap"
)

func main() {
	retentionDays := flag.Int("retention-days", 0, "override RETENTION_DAYS")
	dryRun := flag.Bool("dry-run", false, "report the cutoff without deleting")
	flag.Parse()

	cfg := config.Load()
	if *retentionDays > 0 {
		cfg.RetentionDays = *retentionDays
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	docStore, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer cleanup()

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)
	if *dryRun {
		logger.Info("dry run, nothing deleted", zap.Time("cutoff", cutoff))
		return
	}

	reconciler := services.NewReconcilerService(
		repositories.NewActivityRepository(docStore),
		repositories.NewNotificationRepository(docStore),
		repositories.NewUserRepository(docStore),
		time.Duration(cfg.PruneThrottleMS)*time.Millisecond,
		logger,
	)

	report, err := reconciler.Prune(ctx, cutoff)
	if err != nil {
		logger.Fatal("prune failed",
			zap.Error(err),
			zap.Int("activities_deleted", report.Activities),
			zap.Int("notifications_deleted", report.Notifications))
	}
	logger.Info("prune finished",
		zap.Int("activities_deleted", report.Activities),
		zap.Int("notifications_deleted", report.Notifications))
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreBackend == "mongo" {
		client, err := config.InitMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMongoStore(client.Database(cfg.MongoDatabase)), func() { config.CloseMongo(client) }, nil
	}
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewFirestoreStore(firebaseApp.Firestore), firebaseApp.Close, nil
}
