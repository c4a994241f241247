// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage driver names
const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `env:"SERVER_ADDRESS" envDefault:":8080"`
	Environment   string   `env:"ENVIRONMENT" envDefault:"development"`
	CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	Storage Storage `envPrefix:"STORAGE_"`
	JWT     JWT     `envPrefix:"JWT_"`
}

// Storage selects and configures the persistence driver
type Storage struct {
	Driver        string `env:"DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"memoryvault.db"`
	DynamoDBTable string `env:"DYNAMODB_TABLE" envDefault:"memoryvault"`
	AWSRegion     string `env:"AWS_REGION" envDefault:"us-west-2"`
}

// JWT configures session token signing
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"development-secret-change-in-production"`
	Issuer string        `env:"ISSUER" envDefault:"memoryvault"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverDynamoDB, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	return nil
}
