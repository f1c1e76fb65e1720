package boot

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,default=dev"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	// Not required: the process boots without a secret so readiness
	// can report 503. The verifier rejects everything while empty.
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Server        struct {
		Port string `env:"PORT,default=8080"`
	}
	Database struct {
		Path string `env:"DATABASE_PATH,default=messages.db"`
	}
}

func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}
