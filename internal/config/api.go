// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/api"
)

// LoadAPIConfig loads group-management backend configuration from Viper and
// environment variables. Precedence:
// 1. Viper configuration (from config file or GROUPCAL_ env vars)
// 2. Direct environment variables (GROUP_API_*)
func LoadAPIConfig() (api.Config, error) {
	cfg := api.Config{}

	if v := viper.GetString("api.base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("api.token"); v != "" {
		cfg.Token = v
	}
	if v := viper.GetDuration("api.timeout"); v > 0 {
		cfg.Timeout = v
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("GROUP_API_BASE_URL")
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GROUP_API_TOKEN")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return api.Config{}, err
	}
	return cfg, nil
}
