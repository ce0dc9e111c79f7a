package config

import (
	"os"
	"strconv"
	"time"

	"psymatch/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Adaptive AdaptiveConfig
	Scoring  ScoringConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port     string
	LogLevel string
}

// AdaptiveConfig holds the adaptive testing parameters
type AdaptiveConfig struct {
	MinItems  int
	MaxItems  int
	TargetSEM float64
}

// ScoringConfig holds scoring parameters
type ScoringConfig struct {
	LikertWeight  float64
	AssessmentTTL time.Duration
}

// PathConfig holds file system paths
type PathConfig struct {
	ItemBankFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()

	adaptiveConfig, err := loadAdaptiveConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load adaptive testing configuration")
	}
	config.Adaptive = *adaptiveConfig

	scoringConfig, err := loadScoringConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scoring configuration")
	}
	config.Scoring = *scoringConfig

	config.Paths = PathConfig{
		ItemBankFile: getEnvOrDefault("ITEM_BANK_FILE", ""),
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:          url,
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:     getEnvOrDefault("PORT", "8080"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func loadAdaptiveConfig() (*AdaptiveConfig, error) {
	cfg := &AdaptiveConfig{
		MinItems:  getEnvIntOrDefault("CAT_MIN_ITEMS", 5),
		MaxItems:  getEnvIntOrDefault("CAT_MAX_ITEMS", 20),
		TargetSEM: getEnvFloatOrDefault("CAT_TARGET_SEM", 0.35),
	}
	if cfg.MinItems < 1 {
		return nil, errors.ConfigInvalid("CAT_MIN_ITEMS must be at least 1")
	}
	if cfg.MaxItems < cfg.MinItems {
		return nil, errors.ConfigInvalid("CAT_MAX_ITEMS must be at least CAT_MIN_ITEMS")
	}
	if cfg.TargetSEM <= 0 {
		return nil, errors.ConfigInvalid("CAT_TARGET_SEM must be positive")
	}
	return cfg, nil
}

func loadScoringConfig() (*ScoringConfig, error) {
	cfg := &ScoringConfig{
		LikertWeight:  getEnvFloatOrDefault("LIKERT_FC_WEIGHT", 0.7),
		AssessmentTTL: time.Duration(getEnvIntOrDefault("ASSESSMENT_TTL_HOURS", 72)) * time.Hour,
	}
	if cfg.LikertWeight < 0 || cfg.LikertWeight > 1 {
		return nil, errors.ConfigInvalid("LIKERT_FC_WEIGHT must be within [0,1]")
	}
	if cfg.AssessmentTTL <= 0 {
		return nil, errors.ConfigInvalid("ASSESSMENT_TTL_HOURS must be positive")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
