package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config хранит все параметры приложения
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the SQLite file, or ":memory:".
	Path string `yaml:"path"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"tls"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "laundry",
			Database: "laundry",
			SSLMode:  "disable",
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			VHost:    "/",
		},
		Server: ServerConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads path on top of Default, applies environment overrides and
// validates the result. An empty path falls back to FindConfig; when no file
// is found the defaults plus environment are used.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if p, err := FindConfig(); err == nil {
			path = p
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, errors.New("database.port must be positive"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("database.database is required"))
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.Host == "" {
		errs = append(errs, errors.New("rabbitmq.host is required when rabbitmq is enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Database.Driver = GetEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = GetEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = GetEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = GetEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = GetEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = GetEnv("DB_SSL_MODE", cfg.Database.SSLMode)
	cfg.Database.Path = GetEnv("DB_PATH", cfg.Database.Path)

	cfg.RabbitMQ.Enabled = getEnvBool("RABBITMQ_ENABLED", cfg.RabbitMQ.Enabled)
	cfg.RabbitMQ.Host = GetEnv("RABBITMQ_HOST", cfg.RabbitMQ.Host)
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", cfg.RabbitMQ.Port)
	cfg.RabbitMQ.User = GetEnv("RABBITMQ_USER", cfg.RabbitMQ.User)
	cfg.RabbitMQ.Password = GetEnv("RABBITMQ_PASSWORD", cfg.RabbitMQ.Password)
	cfg.RabbitMQ.VHost = GetEnv("RABBITMQ_VHOST", cfg.RabbitMQ.VHost)

	cfg.Log.Level = GetEnv("LOG_LEVEL", cfg.Log.Level)
}

// GetEnv returns the trimmed value of key, or fallback when it is unset or blank.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(GetEnv(key, "")); err == nil {
		return b
	}
	return fallback
}
