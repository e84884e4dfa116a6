package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr            = ":8080"
	defaultDatabaseURL     = "resort.db"
	defaultStoreDriver     = "gorm"
	defaultAuthProvider    = "local"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultAdvanceRate     = "0.4"
	defaultMinStayNights   = "1"
	defaultPendingBlocks   = "false"
	defaultHoldsEnabled    = "false"
	defaultHoldTTL         = "15m"
	defaultBackendTimeout  = "10s"
	defaultWizardTTL       = "2h"
	defaultUploadsDir      = "./uploads"
	defaultLogLevel        = "info"
	defaultCORSAllowOrigin = "http://localhost:3000,http://localhost:5173"
)

type Config struct {
	AppEnv string
	Addr   string

	DatabaseURL             string
	StoreDriver             string
	FirebaseCredentialsFile string
	FirebaseProjectID       string

	AuthProvider string
	JWTSecret    string
	JWTTTL       time.Duration

	AdvanceRate               float64
	MinStayNights             int
	PendingBlocksAvailability bool
	RoomHoldsEnabled          bool
	RoomHoldTTL               time.Duration
	BackendTimeout            time.Duration
	WizardTTL                 time.Duration

	UploadsDir         string
	CORSAllowedOrigins []string
	LogLevel           string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Addr = strings.TrimSpace(getEnv("APP_ADDR", defaultAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", defaultStoreDriver)))
	cfg.FirebaseCredentialsFile = strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS_FILE"))
	cfg.FirebaseProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(getEnv("AUTH_PROVIDER", defaultAuthProvider)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS", defaultCORSAllowOrigin)

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.RoomHoldTTL, err = parseDurationEnv("ROOM_HOLD_TTL", defaultHoldTTL); err != nil {
		return nil, err
	}
	if cfg.BackendTimeout, err = parseDurationEnv("BACKEND_TIMEOUT", defaultBackendTimeout); err != nil {
		return nil, err
	}
	if cfg.WizardTTL, err = parseDurationEnv("WIZARD_TTL", defaultWizardTTL); err != nil {
		return nil, err
	}
	if cfg.AdvanceRate, err = parseFloatEnv("ADVANCE_RATE", defaultAdvanceRate); err != nil {
		return nil, err
	}
	if cfg.MinStayNights, err = parseIntEnv("MIN_STAY_NIGHTS", defaultMinStayNights); err != nil {
		return nil, err
	}

	cfg.PendingBlocksAvailability = parseBoolEnv("PENDING_BLOCKS_AVAILABILITY", defaultPendingBlocks)
	cfg.RoomHoldsEnabled = parseBoolEnv("ROOM_HOLDS_ENABLED", defaultHoldsEnabled)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("APP_ADDR must not be empty")
	}
	if cfg.StoreDriver != "gorm" && cfg.StoreDriver != "firestore" {
		return fmt.Errorf("STORE_DRIVER must be one of: gorm, firestore")
	}
	if cfg.StoreDriver == "gorm" && cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.AuthProvider != "local" && cfg.AuthProvider != "firebase" {
		return fmt.Errorf("AUTH_PROVIDER must be one of: local, firebase")
	}
	usesFirebase := cfg.StoreDriver == "firestore" || cfg.AuthProvider == "firebase"
	if usesFirebase && cfg.FirebaseProjectID == "" && cfg.FirebaseCredentialsFile == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE is required for firestore/firebase")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.AdvanceRate < 0 || cfg.AdvanceRate > 1 {
		return fmt.Errorf("ADVANCE_RATE must be within [0, 1]")
	}
	if cfg.MinStayNights < 1 {
		return fmt.Errorf("MIN_STAY_NIGHTS must be >= 1")
	}
	if cfg.RoomHoldTTL <= 0 {
		return fmt.Errorf("ROOM_HOLD_TTL must be > 0")
	}
	if cfg.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be > 0")
	}
	if cfg.WizardTTL <= 0 {
		return fmt.Errorf("WIZARD_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.AuthProvider == "local" && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		for _, o := range cfg.CORSAllowedOrigins {
			if o == "*" {
				return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must not contain *")
			}
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func parseListEnv(name, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(name, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
