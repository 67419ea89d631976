package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Teletekst struct {
		BaseURL    string `yaml:"base_url"`
		IndexPages []int  `yaml:"index_pages"`
		StartPage  int    `yaml:"start_page"`
		LastPage   int    `yaml:"last_page"`
	} `yaml:"teletekst"`
	Scheduler struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		KeepSnapshots   int `yaml:"keep_snapshots"`
	} `yaml:"scheduler"`
	Telegram struct {
		ChatID int64 `yaml:"chat_id"`
	} `yaml:"telegram"`
	Sheets struct {
		SpreadsheetURL string `yaml:"spreadsheet_url"`
	} `yaml:"sheets"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Teletekst.BaseURL = "https://teletekst-data.nos.nl"
	cfg.Teletekst.IndexPages = []int{101, 102, 103}
	cfg.Teletekst.StartPage = 104
	cfg.Teletekst.LastPage = 199
	cfg.Scheduler.IntervalMinutes = 5
	cfg.Scheduler.KeepSnapshots = 48
	return cfg
}
