package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"

	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"
	StoreDriverSQLite    = "sqlite"
	StoreDriverRedis     = "redis"

	DefaultGeminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Logging
	LogLevel  string
	LogFormat string

	// Identity
	AuthProvider            string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	JWTSecret               string

	// Document store
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Gemini configuration
	GeminiAPIKey  string
	GeminiAPIURL  string
	GeminiTimeout time.Duration

	CORSAllowedOrigins []string
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the postgres store driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// LoadConfig builds a Config from the environment, an optional .env file and
// Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	if !IsProduction() {
		if err := loadDotEnv(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:              setting("SERVER_PORT", "5000"),
		ServerHost:              setting("SERVER_HOST", "0.0.0.0"),
		LogLevel:                setting("LOG_LEVEL", "info"),
		LogFormat:               setting("LOG_FORMAT", "text"),
		AuthProvider:            strings.ToLower(setting("AUTH_PROVIDER", AuthProviderFirebase)),
		FirebaseCredentialsPath: setting("FIREBASE_ADMIN_SDK_PATH", ""),
		FirebaseProjectID:       setting("FIREBASE_PROJECT_ID", ""),
		JWTSecret:               setting("JWT_SECRET", ""),
		StoreDriver:             strings.ToLower(setting("STORE_DRIVER", StoreDriverFirestore)),
		DBHost:                  setting("DB_HOST", "localhost"),
		DBPort:                  setting("DB_PORT", "5432"),
		DBUser:                  setting("DB_USER", ""),
		DBPassword:              setting("DB_PASSWORD", ""),
		DBName:                  setting("DB_NAME", "safebite"),
		DBSSLMode:               setting("DB_SSL_MODE", "disable"),
		SQLitePath:              setting("SQLITE_PATH", "safebite.db"),
		RedisHost:               setting("REDIS_HOST", "localhost"),
		RedisPort:               setting("REDIS_PORT", "6379"),
		RedisPassword:           setting("REDIS_PASSWORD", ""),
		RedisURL:                setting("REDIS_URL", ""),
		GeminiAPIURL:            setting("GEMINI_API_URL", DefaultGeminiAPIURL),
		CORSAllowedOrigins:      splitList(setting("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(setting("REDIS_DB", "0")); err != nil {
		return nil, ValidationError{Field: "REDIS_DB", Message: "must be an integer"}
	}
	if cfg.GeminiTimeout, err = time.ParseDuration(setting("GEMINI_TIMEOUT", "30s")); err != nil {
		return nil, ValidationError{Field: "GEMINI_TIMEOUT", Message: "must be a duration such as 30s"}
	}
	if cfg.GeminiAPIKey, err = geminiAPIKey(); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// geminiAPIKey reads GEMINI_API_KEY, falling back to the file named by
// GEMINI_API_KEY_FILE.
func geminiAPIKey() (string, error) {
	if key := setting("GEMINI_API_KEY", ""); key != "" {
		return key, nil
	}
	keyFile := os.Getenv("GEMINI_API_KEY_FILE")
	if keyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// setting returns the environment variable name, then the Docker secret of
// the same name in lower case, then def.
func setting(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return def
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
