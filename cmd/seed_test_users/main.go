package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/config"
	"github.com/safebite/safebite/backend/internal/database"
	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
)

// Development users for AUTH_PROVIDER=jwt. Each gets a profile and a token.
var testUsers = []struct {
	uid       string
	name      string
	allergens []any
}{
	{uid: "dev-lupin", name: "Lupin Tester", allergens: []any{"lupin"}},
	{uid: "dev-mustard", name: "Mustard Tester", allergens: []any{"mustard", "celery"}},
	{uid: "dev-none", name: "No Allergies", allergens: []any{}},
}

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "Lifetime of the issued tokens")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.AuthProvider != config.AuthProviderJWT || cfg.StoreDriver == config.StoreDriverFirestore {
		log.Fatal("Test users need AUTH_PROVIDER=jwt and a non-Firestore STORE_DRIVER")
	}
	ctx := context.Background()

	docs, err := database.OpenStore(ctx, cfg, nil, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open document store")
	}
	defer docs.Close()

	n := seedUsers(ctx, service.NewProfileService(docs), service.NewJWTVerifier(cfg.JWTSecret), *ttl, os.Stdout, log)
	log.WithField("users", n).Info("Test users ready")
}

// seedUsers creates any missing test profile and writes "uid<TAB>token" for
// every user whose profile exists afterwards. Failures are logged and the
// user skipped; it returns the number of tokens written.
func seedUsers(ctx context.Context, profiles service.IProfileService, verifier *service.JWTVerifier, ttl time.Duration, out io.Writer, log logrus.FieldLogger) int {
	written := 0
	for _, u := range testUsers {
		ulog := log.WithField("user_id", u.uid)
		_, err := profiles.GetProfile(ctx, u.uid)
		switch {
		case err == nil:
			ulog.Info("Profile already exists, skipping")
		case errors.Is(err, store.ErrNotFound):
			err = profiles.CreateProfile(ctx, u.uid, models.Document{
				"name":           u.name,
				"knownAllergens": u.allergens,
			})
			if err != nil {
				ulog.WithError(err).Error("Failed to create profile")
				continue
			}
			ulog.Info("Created profile")
		default:
			ulog.WithError(err).Error("Failed to read profile")
			continue
		}

		token, err := verifier.IssueToken(u.uid, ttl)
		if err != nil {
			ulog.WithError(err).Error("Failed to issue token")
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", u.uid, token)
		written++
	}
	return written
}
