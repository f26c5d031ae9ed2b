// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	ModelPath string `envconfig:"MODEL_PATH" default:"artifacts/fire_risk_rf.json" validate:"required"`

	// RiskThreshold is the decision threshold for the moderate_or_high
	// class. Its true operating value is owned by the training pipeline,
	// so it is injectable rather than hard-coded.
	RiskThreshold float64 `envconfig:"RISK_THRESHOLD" default:"0.5" validate:"gt=0,lt=1"`

	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"100" validate:"gt=0,lte=10000"`
	CacheSize    int `envconfig:"CACHE_SIZE" default:"1024" validate:"gt=0"`

	// Prediction event publishing. Disabled unless PUBLISH_ENABLED is set;
	// when enabled, KAFKA_BROKERS is required.
	PublishEnabled bool     `envconfig:"PUBLISH_ENABLED" default:"false"`
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic     string   `envconfig:"KAFKA_TOPIC" default:"fire-risk-predictions"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid config: %s failed %q constraint", verrs[0].StructField(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.PublishEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return &cfg, nil
}
