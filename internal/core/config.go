// Package core provides configuration management for CrashLens.
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all CrashLens configuration with validation.
type Config struct {
	App struct {
		Name     string `yaml:"name"`
		Version  string `yaml:"version"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	Database struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		User           string `yaml:"user"`
		Password       string `yaml:"password"`
		DBName         string `yaml:"dbname"`
		MaxConnections int    `yaml:"max_connections"`
	} `yaml:"database"`

	Rules struct {
		Path string `yaml:"path"` // empty means the built-in catalog
	} `yaml:"rules"`

	Ingest struct {
		Enabled       bool              `yaml:"enabled"`
		PrometheusURL string            `yaml:"prometheus_url"`
		PollInterval  string            `yaml:"poll_interval"`
		AppName       string            `yaml:"app_name"`
		Queries       map[string]string `yaml:"queries"` // metric name -> PromQL
	} `yaml:"ingest"`
}

// LoadConfig reads and validates configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.ApplyEnvOverrides()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8081"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}
	if c.Ingest.PollInterval == "" {
		c.Ingest.PollInterval = "30s"
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 10
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name cannot be empty")
	}
	if c.App.Version == "" {
		return fmt.Errorf("app.version cannot be empty")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of: debug, info, warn, error")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database.host cannot be empty")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname cannot be empty")
	}
	if c.Database.MaxConnections <= 0 {
		return fmt.Errorf("database.max_connections must be positive")
	}

	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("server.read_timeout is not a duration: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("server.write_timeout is not a duration: %w", err)
	}

	if c.Ingest.Enabled {
		if !strings.HasPrefix(c.Ingest.PrometheusURL, "http://") && !strings.HasPrefix(c.Ingest.PrometheusURL, "https://") {
			return fmt.Errorf("ingest.prometheus_url must start with http:// or https://")
		}
		if _, err := time.ParseDuration(c.Ingest.PollInterval); err != nil {
			return fmt.Errorf("ingest.poll_interval is not a duration: %w", err)
		}
		if len(c.Ingest.Queries) == 0 {
			return fmt.Errorf("ingest.queries cannot be empty when ingest is enabled")
		}
	}

	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if host := os.Getenv("CRASHLENS_DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if user := os.Getenv("CRASHLENS_DB_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("CRASHLENS_DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if dbname := os.Getenv("CRASHLENS_DB_NAME"); dbname != "" {
		c.Database.DBName = dbname
	}
	if url := os.Getenv("CRASHLENS_PROMETHEUS_URL"); url != "" {
		c.Ingest.PrometheusURL = url
	}
	if logLevel := os.Getenv("CRASHLENS_LOG_LEVEL"); logLevel != "" {
		c.App.LogLevel = logLevel
	}
	if rulesPath := os.Getenv("CRASHLENS_RULES_PATH"); rulesPath != "" {
		c.Rules.Path = rulesPath
	}
}

// GetDatabaseURL returns the PostgreSQL connection string.
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.MaxConnections,
	)
}

// ReadTimeoutDuration returns the parsed server read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns the parsed server write timeout.
func (c *Config) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// PollIntervalDuration returns the parsed ingest poll interval.
func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Ingest.PollInterval)
	return d
}
