package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Store   StoreConfig
	Redis   RedisConfig
	Session SessionConfig
	Audit   AuditConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"wareflow"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Type       string `envconfig:"STORE_TYPE" default:"jsonfile"` // jsonfile, sqlite, mysql, redis, or memory
	DataDir    string `envconfig:"STORE_DATA_DIR" default:"./data"`
	SQLitePath string `envconfig:"STORE_SQLITE_PATH" default:"./data/wareflow.db"`
	// MySQL settings
	MySQLHost string `envconfig:"STORE_MYSQL_HOST" default:"localhost"`
	MySQLPort int    `envconfig:"STORE_MYSQL_PORT" default:"3306"`
	MySQLName string `envconfig:"STORE_MYSQL_NAME" default:"wareflow"`
	MySQLUser string `envconfig:"STORE_MYSQL_USER" default:"root"`
	MySQLPass string `envconfig:"STORE_MYSQL_PASS" default:""`
}

// RedisConfig holds Redis connection settings, shared by the redis store
// backend and the redis session cache.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig holds session token settings for the HTTP surface.
type SessionConfig struct {
	Backend string        `envconfig:"SESSION_BACKEND" default:"memory"` // memory or redis
	TTL     time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// AuditConfig holds audit log settings.
type AuditConfig struct {
	FilePath string `envconfig:"AUDIT_FILE" default:"./data/logs.txt"`
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.MySQLUser, s.MySQLPass, s.MySQLHost, s.MySQLPort, s.MySQLName)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the Redis address in host:port format.
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
