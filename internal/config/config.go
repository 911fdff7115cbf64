package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port               int    `env:"PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	RedisURL           string `env:"REDIS_URL,required"`
	WorkflowWebhookURL string `env:"WORKFLOW_WEBHOOK_URL,required"`
	WebhookToken       string `env:"WEBHOOK_TOKEN"`
	SessionSecret      string `env:"SESSION_SECRET"`
	UploadDir          string `env:"UPLOAD_DIR" envDefault:"/tmp/uploads"`
	StaticDir          string `env:"STATIC_DIR" envDefault:"static/portal"`
	WorkflowTimeoutSec int    `env:"WORKFLOW_TIMEOUT_SECONDS" envDefault:"60"`
	PendingTTLMinutes  int    `env:"PENDING_TTL_MINUTES" envDefault:"30"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

// WorkflowTimeout bounds the outbound call to the workflow engine. The
// engine may itself be waiting on a slow ERP, hence the generous default.
func (c *Config) WorkflowTimeout() time.Duration {
	return time.Duration(c.WorkflowTimeoutSec) * time.Second
}

// PendingTTL is how long a searched order stays attached to a visitor
// before they must search again.
func (c *Config) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLMinutes) * time.Minute
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}

		if c.WebhookToken == "" {
			log.Warn().Msg("WEBHOOK_TOKEN is empty in production: inbound engine callbacks are unauthenticated")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if !strings.HasPrefix(c.WorkflowWebhookURL, "https://") {
			log.Warn().Msg("WORKFLOW_WEBHOOK_URL is not https in production")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
