package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	JWT         JWTConfig
	Pricing     PricingConfig
	FX          FXConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

type PricingConfig struct {
	// SettlementCurrency is the currency delivery fees and payment
	// capture are expressed in, independent of product currencies.
	SettlementCurrency string
}

type FXConfig struct {
	// RateURL serves the AFN-per-USD display rate; empty disables the
	// USD-equivalent display.
	RateURL        string
	RefreshMinutes int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_TTL_HOURS", 72)
	viper.SetDefault("SETTLEMENT_CURRENCY", "AFN")
	viper.SetDefault("FX_REFRESH_MINUTES", 60)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:   getEnvOrViper("JWT_SECRET", ""),
			TTLHours: viper.GetInt("JWT_TTL_HOURS"),
		},
		Pricing: PricingConfig{
			SettlementCurrency: getEnvOrViper("SETTLEMENT_CURRENCY", "AFN"),
		},
		FX: FXConfig{
			RateURL:        getEnvOrViper("FX_RATE_URL", ""),
			RefreshMinutes: viper.GetInt("FX_REFRESH_MINUTES"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Pricing.SettlementCurrency == "" {
		return nil, fmt.Errorf("SETTLEMENT_CURRENCY must not be empty")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
