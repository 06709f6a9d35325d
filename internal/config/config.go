package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"BASE_URL"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Export struct {
		MarginX           float64 `yaml:"margin_x" env:"EXPORT_MARGIN_X"`
		MarginY           float64 `yaml:"margin_y" env:"EXPORT_MARGIN_Y"`
		DefaultWatermark  string  `yaml:"default_watermark" env:"EXPORT_DEFAULT_WATERMARK"`
		ImageTimeout      string  `yaml:"image_timeout" env:"EXPORT_IMAGE_TIMEOUT"`
		MaxImageBytes     int64   `yaml:"max_image_bytes" env:"EXPORT_MAX_IMAGE_BYTES"`
		ImageConcurrency  int     `yaml:"image_concurrency" env:"EXPORT_IMAGE_CONCURRENCY"`
		SeedByComponentID bool    `yaml:"seed_by_component_id" env:"EXPORT_SEED_BY_COMPONENT_ID"`
	} `yaml:"export"`

	Autosave struct {
		Enabled  bool   `yaml:"enabled" env:"AUTOSAVE_ENABLED"`
		Interval string `yaml:"interval" env:"AUTOSAVE_INTERVAL"`
		Debounce string `yaml:"debounce" env:"AUTOSAVE_DEBOUNCE"`
		DraftTTL string `yaml:"draft_ttl" env:"AUTOSAVE_DRAFT_TTL"`
	} `yaml:"autosave"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.MaxUploadMB = 5

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "examcraft"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Redis.Addr = "localhost:6379"

	config.JWT.AccessTokenExpiration = "168h"
	config.JWT.Issuer = "examcraft.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Export.MarginX = 20
	config.Export.MarginY = 15
	config.Export.ImageTimeout = "10s"
	config.Export.MaxImageBytes = 10 << 20
	config.Export.ImageConcurrency = 4

	config.Autosave.Enabled = true
	config.Autosave.Interval = "30s"
	config.Autosave.Debounce = "2s"
	config.Autosave.DraftTTL = "24h"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"database connection lifetime": config.Database.ConnMaxLifetime,
		"export image timeout":         config.Export.ImageTimeout,
		"autosave interval":            config.Autosave.Interval,
		"autosave debounce":            config.Autosave.Debounce,
		"autosave draft ttl":           config.Autosave.DraftTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Export.MarginX <= 0 || config.Export.MarginY <= 0 {
		return fmt.Errorf("export margins must be positive")
	}
	if config.Export.MarginX*2 >= 210 || config.Export.MarginY*2 >= 297 {
		return fmt.Errorf("export margins leave no room for content")
	}

	switch config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Duration parses a duration that validateConfig already checked
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
