package main

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/config"
	"github.com/safebite/safebite/backend/internal/database"
	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/router"
	"github.com/safebite/safebite/backend/internal/server"
	"github.com/safebite/safebite/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server exited")
		os.Exit(1)
	}
	log.Info("Server stopped")
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	var app *firebase.App
	if database.NeedsFirebase(cfg) {
		var err error
		if app, err = database.NewFirebaseApp(ctx, cfg, log); err != nil {
			return err
		}
	}

	docs, err := database.OpenStore(ctx, cfg, app, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			log.WithError(err).Warn("Failed to close document store")
		}
	}()

	verifier, err := newVerifier(ctx, cfg, app)
	if err != nil {
		return err
	}

	gemini := service.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiTimeout)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(router.NewDependencies(log, docs, verifier, gemini, cfg.CORSAllowedOrigins))

	log.WithFields(logrus.Fields{
		"addr":          cfg.Addr(),
		"auth_provider": cfg.AuthProvider,
		"store_driver":  cfg.StoreDriver,
	}).Info("Starting server")
	return server.New(cfg, r, log).Start()
}

func newVerifier(ctx context.Context, cfg *config.Config, app *firebase.App) (service.TokenVerifier, error) {
	if cfg.AuthProvider == config.AuthProviderJWT {
		return service.NewJWTVerifier(cfg.JWTSecret), nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewFirebaseVerifier(client), nil
}
