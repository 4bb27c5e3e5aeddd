package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"booking-calendar/services"
	"booking-calendar/utils"
)

const (
	ModeCalendar = "calendar"
	ModeStore    = "store"
	ModeAll      = "all"
)

// Config is read once from the environment at startup.
type Config struct {
	Port             string
	Mode             string
	StoreURL         string
	StoreTimeout     time.Duration
	DBSeed           bool
	CognitoRegion    string
	CognitoPoolID    string
	DefaultCompanyID string
	RedisURL         string
	CORSOrigins      []string
	SessionTTL       time.Duration
}

func (c Config) ServesCalendar() bool { return c.Mode == ModeCalendar || c.Mode == ModeAll }
func (c Config) ServesStore() bool    { return c.Mode == ModeStore || c.Mode == ModeAll }

// AuthEnabled is false when no user pool is configured.
func (c Config) AuthEnabled() bool { return c.CognitoPoolID != "" }

func Load() (Config, error) {
	cfg := Config{
		Port:             utils.EnvOrDefault("PORT", "8080"),
		Mode:             strings.ToLower(utils.EnvOrDefault("SERVICE_MODE", ModeAll)),
		StoreURL:         utils.EnvOrDefault("STORE_URL", ""),
		StoreTimeout:     utils.EnvDuration("STORE_TIMEOUT", services.DefaultStoreTimeout),
		DBSeed:           utils.EnvBool("DB_SEED", false),
		CognitoRegion:    utils.EnvOrDefault("COGNITO_REGION", "eu-central-1"),
		CognitoPoolID:    utils.EnvOrDefault("COGNITO_USER_POOL_ID", ""),
		DefaultCompanyID: utils.EnvOrDefault("DEFAULT_COMPANY_ID", "comp1"),
		RedisURL:         utils.EnvOrDefault("REDIS_URL", ""),
		CORSOrigins:      utils.SplitList(utils.EnvOrDefault("CORS_ORIGINS", "*")),
		SessionTTL:       utils.EnvDuration("SESSION_TTL", services.DefaultSessionTTL),
	}

	switch cfg.Mode {
	case ModeCalendar, ModeStore, ModeAll:
	default:
		return Config{}, fmt.Errorf("SERVICE_MODE must be calendar, store or all, got %q", cfg.Mode)
	}

	if cfg.StoreURL == "" {
		if cfg.Mode == ModeCalendar {
			return Config{}, fmt.Errorf("STORE_URL is required when SERVICE_MODE=calendar")
		}
		cfg.StoreURL = "http://127.0.0.1:" + cfg.Port
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if !cfg.AuthEnabled() {
		log.Println("⚠️  COGNITO_USER_POOL_ID not set; authentication is disabled")
	}
	return cfg, nil
}
