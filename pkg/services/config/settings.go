package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings carries the non-credential application configuration. Every value
// has a default, so a missing settings file is not an error for callers that
// can live with the defaults.
type Settings struct {
	DBPath     string `mapstructure:"db_path"`
	LogoURL    string `mapstructure:"logo_url"`
	ServerHost string `mapstructure:"server_host"`
	ServerPort string `mapstructure:"server_port"`
}

// LoadSettings reads the settings file at path and applies REPORT_ATLAS_*
// environment overrides on top.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("db_path", "report-atlas.db")
	v.SetDefault("logo_url", "")
	v.SetDefault("server_host", "localhost")
	v.SetDefault("server_port", "8080")

	v.SetEnvPrefix("REPORT_ATLAS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}
