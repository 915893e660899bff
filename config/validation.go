package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// driverRequirements lists the settings each store driver cannot start without.
var driverRequirements = map[string]func(cfg *Config) []ValidationError{
	StoreDriverFirestore: func(cfg *Config) []ValidationError {
		return requireFirebaseCredentials(cfg, "firestore store driver")
	},
	StoreDriverPostgres: func(cfg *Config) []ValidationError {
		var errs []ValidationError
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{Field: field, Message: "is required for the postgres store driver"})
			}
		}
		return errs
	},
	StoreDriverSQLite: func(cfg *Config) []ValidationError {
		if cfg.SQLitePath == "" {
			return []ValidationError{{Field: "SQLITE_PATH", Message: "is required for the sqlite store driver"}}
		}
		return nil
	},
	StoreDriverRedis: func(cfg *Config) []ValidationError {
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			return []ValidationError{{Field: "REDIS_URL", Message: "or REDIS_HOST and REDIS_PORT are required for the redis store driver"}}
		}
		return nil
	},
}

// ValidateConfig reports every missing or invalid setting at once so the
// process can fail fast at startup.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.GeminiAPIKey == "" {
		errs = append(errs, ValidationError{Field: "GEMINI_API_KEY", Message: "environment variable not set"})
	}
	if cfg.GeminiTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "GEMINI_TIMEOUT", Message: "must be positive"})
	}
	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "is required"})
	}

	switch cfg.AuthProvider {
	case AuthProviderFirebase:
		errs = append(errs, requireFirebaseCredentials(cfg, "firebase auth provider")...)
	case AuthProviderJWT:
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required for the jwt auth provider"})
		}
	default:
		errs = append(errs, ValidationError{Field: "AUTH_PROVIDER", Message: fmt.Sprintf("unknown provider %q", cfg.AuthProvider)})
	}

	if check, ok := driverRequirements[cfg.StoreDriver]; ok {
		errs = append(errs, check(cfg)...)
	} else {
		errs = append(errs, ValidationError{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.StoreDriver)})
	}

	if len(errs) == 0 {
		return nil
	}

	// firestore + firebase auth report the same credentials problem twice
	seen := make(map[string]bool)
	var lines []string
	for _, e := range errs {
		if msg := e.Error(); !seen[msg] {
			seen[msg] = true
			lines = append(lines, msg)
		}
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func requireFirebaseCredentials(cfg *Config, usedBy string) []ValidationError {
	if cfg.FirebaseCredentialsPath == "" {
		return []ValidationError{{Field: "FIREBASE_ADMIN_SDK_PATH", Message: "is required for the " + usedBy}}
	}
	if info, err := os.Stat(cfg.FirebaseCredentialsPath); err != nil || info.IsDir() {
		return []ValidationError{{Field: "FIREBASE_ADMIN_SDK_PATH", Message: fmt.Sprintf("key file not found at %s", cfg.FirebaseCredentialsPath)}}
	}
	return nil
}
