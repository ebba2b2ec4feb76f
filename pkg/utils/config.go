package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	Reconcile ReconcileConfig
	Events    EventsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// IdentityConfig controls calls to the external identity authority.
type IdentityConfig struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

type ReconcileConfig struct {
	Schedule string
}

type EventsConfig struct {
	RabbitURL string
	Exchange  string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "reserveit")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("IDENTITY_URL", "http://auth-service:5000/api/auth")
	viper.SetDefault("IDENTITY_TIMEOUT", "2s")
	viper.SetDefault("IDENTITY_MAX_ATTEMPTS", 3)
	viper.SetDefault("IDENTITY_BACKOFF", "500ms")
	viper.SetDefault("RECONCILE_SCHEDULE", "@every 10m")
	viper.SetDefault("RABBIT_URL", "")
	viper.SetDefault("BOOKING_EXCHANGE", "reserveit.booking")

	// .env is optional in containers; the environment wins either way
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Identity: IdentityConfig{
			URL:         viper.GetString("IDENTITY_URL"),
			Timeout:     viper.GetDuration("IDENTITY_TIMEOUT"),
			MaxAttempts: viper.GetInt("IDENTITY_MAX_ATTEMPTS"),
			Backoff:     viper.GetDuration("IDENTITY_BACKOFF"),
		},
		Reconcile: ReconcileConfig{
			Schedule: viper.GetString("RECONCILE_SCHEDULE"),
		},
		Events: EventsConfig{
			RabbitURL: viper.GetString("RABBIT_URL"),
			Exchange:  viper.GetString("BOOKING_EXCHANGE"),
		},
	}

	return config, nil
}
