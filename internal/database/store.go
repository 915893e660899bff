package database

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/config"
	"github.com/safebite/safebite/backend/internal/store"
)

// OpenStore connects the document store selected by cfg.StoreDriver. app is
// only used by the firestore driver and may be nil otherwise. SQL backends
// are migrated before they are returned.
func OpenStore(ctx context.Context, cfg *config.Config, app *firebase.App, log logrus.FieldLogger) (store.Store, error) {
	log = log.WithField("store_driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.StoreDriverFirestore:
		if app == nil {
			return nil, fmt.Errorf("firestore store requires a Firebase app")
		}
		client, err := NewFirestoreClient(ctx, app)
		if err != nil {
			return nil, err
		}
		log.Info("Using Firestore document store")
		return store.NewFirestoreStore(client), nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		db, err := Open(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db, log); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store.NewGormStore(db), nil

	case config.StoreDriverRedis:
		client, err := NewRedisClient(cfg, log)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, ""), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NeedsFirebase reports whether cfg uses any Firebase service.
func NeedsFirebase(cfg *config.Config) bool {
	return cfg.StoreDriver == config.StoreDriverFirestore || cfg.AuthProvider == config.AuthProviderFirebase
}
