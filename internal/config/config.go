package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Payment   PaymentConfig
	External  ExternalConfig
	Discovery DiscoveryConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
}

type PaymentConfig struct {
	WebhookSecret string
	IntentTTL     time.Duration
}

type ExternalConfig struct {
	GeocoderBaseURL   string
	TranslatorBaseURL string
	Timeout           time.Duration
}

type DiscoveryConfig struct {
	DefaultMaxDistanceKm float64
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "radagast")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "radagast")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	viper.SetDefault("PAYMENT_INTENT_TTL", "15m")
	viper.SetDefault("GEOCODER_BASE_URL", "")
	viper.SetDefault("TRANSLATOR_BASE_URL", "")
	viper.SetDefault("EXTERNAL_TIMEOUT", "3s")
	viper.SetDefault("DISCOVERY_MAX_DISTANCE_KM", 10.0)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	intentTTL, err := time.ParseDuration(viper.GetString("PAYMENT_INTENT_TTL"))
	if err != nil {
		return nil, err
	}

	externalTimeout, err := time.ParseDuration(viper.GetString("EXTERNAL_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Payment: PaymentConfig{
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			IntentTTL:     intentTTL,
		},
		External: ExternalConfig{
			GeocoderBaseURL:   viper.GetString("GEOCODER_BASE_URL"),
			TranslatorBaseURL: viper.GetString("TRANSLATOR_BASE_URL"),
			Timeout:           externalTimeout,
		},
		Discovery: DiscoveryConfig{
			DefaultMaxDistanceKm: viper.GetFloat64("DISCOVERY_MAX_DISTANCE_KM"),
		},
	}

	return cfg, nil
}
