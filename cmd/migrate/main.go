package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/migrations"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	log := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := run(dsn, *rollback, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
}

func run(dsn string, rollback bool, log logrus.FieldLogger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	list, err := migrations.List()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	if rollback {
		return rollbackLast(db, list, log)
	}
	return applyAll(db, list, log)
}

func applyAll(db *sql.DB, list []migrations.Migration, log logrus.FieldLogger) error {
	for _, m := range list {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", m.Name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			log.WithField("migration", m.Name).Info("Migration already applied")
			continue
		}

		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.Up); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", m.Name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.WithField("migration", m.Name).Info("Successfully applied migration")
	}
	log.Info("All migrations applied successfully")
	return nil
}

func rollbackLast(db *sql.DB, list []migrations.Migration, log logrus.FieldLogger) error {
	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY applied_at DESC, name DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("No migrations to rollback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var down string
	for _, m := range list {
		if m.Name == name {
			down = m.Down
		}
	}
	if down == "" {
		return fmt.Errorf("no rollback script for migration %s", name)
	}

	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(down); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithField("migration", name).Info("Successfully rolled back migration")
	return nil
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
