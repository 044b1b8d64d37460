package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix              = "DEALDESK"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultDatabaseDSN     = "dealdesk.db"
	defaultLogLevel        = "info"
	defaultCooldownMinutes = 5
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress           string
	DatabaseDSN           string
	LogLevel              string
	NotionToken           string
	NotionBaseURL         string
	DealsDatabaseID       string
	BrandsDatabaseID      string
	OffersDatabaseID      string
	AdvertisersDatabaseID string
	SyncCooldown          time.Duration
	SyncSchedule          string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.dsn", defaultDatabaseDSN)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("notion.base_url", "")
	configViper.SetDefault("sync.cooldown_minutes", defaultCooldownMinutes)
	configViper.SetDefault("sync.schedule", "")
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:           configViper.GetString("http.address"),
		DatabaseDSN:           configViper.GetString("database.dsn"),
		LogLevel:              configViper.GetString("log.level"),
		NotionToken:           configViper.GetString("notion.token"),
		NotionBaseURL:         configViper.GetString("notion.base_url"),
		DealsDatabaseID:       configViper.GetString("notion.deals_database_id"),
		BrandsDatabaseID:      configViper.GetString("notion.brands_database_id"),
		OffersDatabaseID:      configViper.GetString("notion.offers_database_id"),
		AdvertisersDatabaseID: configViper.GetString("notion.advertisers_database_id"),
		SyncCooldown:          time.Duration(configViper.GetInt("sync.cooldown_minutes")) * time.Minute,
		SyncSchedule:          configViper.GetString("sync.schedule"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if strings.TrimSpace(c.NotionToken) == "" {
		return fmt.Errorf("notion.token is required")
	}
	required := []struct {
		key   string
		value string
	}{
		{"notion.deals_database_id", c.DealsDatabaseID},
		{"notion.brands_database_id", c.BrandsDatabaseID},
		{"notion.offers_database_id", c.OffersDatabaseID},
		{"notion.advertisers_database_id", c.AdvertisersDatabaseID},
	}
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			return fmt.Errorf("%s is required", entry.key)
		}
	}
	if c.SyncCooldown <= 0 {
		return fmt.Errorf("sync.cooldown_minutes must be positive")
	}
	return nil
}
