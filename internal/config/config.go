package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration.
type Config struct {
	Addr       string `env:"ADDR" envDefault:":5000"`
	SQLitePath string `env:"SQLITE_PATH"`
	UploadDir  string `env:"UPLOAD_DIR" envDefault:"uploads"`
	AdminCode  string `env:"ADMIN_CODE" envDefault:"ADMIN123"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
