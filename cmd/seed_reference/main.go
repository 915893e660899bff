package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/config"
	"github.com/safebite/safebite/backend/internal/database"
	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/service"
)

func main() {
	file := flag.String("file", "reference.json", "JSON file with allergens and educational_resources arrays")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, *file, log); err != nil {
		log.WithError(err).Fatal("Failed to seed reference data")
	}
}

func run(cfg *config.Config, file string, log logrus.FieldLogger) error {
	ctx := context.Background()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open reference data: %w", err)
	}
	defer f.Close()

	seed, err := service.DecodeReferenceSeed(f)
	if err != nil {
		return err
	}

	var app *firebase.App
	if cfg.StoreDriver == config.StoreDriverFirestore {
		if app, err = database.NewFirebaseApp(ctx, cfg, log); err != nil {
			return err
		}
	}
	docs, err := database.OpenStore(ctx, cfg, app, log)
	if err != nil {
		return err
	}
	defer docs.Close()

	res, err := service.SeedReference(ctx, docs, seed)
	if err != nil {
		return err
	}
	log.WithField("allergens", res.Allergens).
		WithField("educational_resources", res.EducationalResources).
		Info("Reference data seeded")
	return nil
}
