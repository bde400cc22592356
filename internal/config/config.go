package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted in table.backend
const (
	BackendAirtable = "airtable"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds all configuration options for mission control
type Config struct {
	Table       TableConfig       `koanf:"table"`
	Database    DatabaseConfig    `koanf:"database"`
	Server      ServerConfig      `koanf:"server"`
	Validation  ValidationConfig  `koanf:"validation"`
	Reminders   RemindersConfig   `koanf:"reminders"`
	Log         LogConfig         `koanf:"log"`
	Application ApplicationConfig `koanf:"app"`
}

// TableConfig selects and configures the record table backend
type TableConfig struct {
	Backend   string        `koanf:"backend"`
	BaseID    string        `koanf:"base_id"`
	TableName string        `koanf:"table_name"`
	APIToken  string        `koanf:"api_token"`
	BaseURL   string        `koanf:"base_url"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
	Timeout   time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds the local sqlite backend settings
type DatabaseConfig struct {
	Dir      string `koanf:"dir"`
	Filename string `koanf:"filename"`
}

// ServerConfig holds HTTP server and session settings
type ServerConfig struct {
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	CORSOrigins   string        `koanf:"cors_origins"` // comma separated
	CookieName    string        `koanf:"cookie_name"`
	CookieSecure  bool          `koanf:"cookie_secure"`
	SessionSecret string        `koanf:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	ResetTTL      time.Duration `koanf:"reset_ttl"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	MissionMinLength int `koanf:"mission_min_length"`
	MissionMaxLength int `koanf:"mission_max_length"`
	TimeMaxLength    int `koanf:"time_max_length"`
}

// RemindersConfig holds alarm and digest settings
type RemindersConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Interval       time.Duration `koanf:"interval"`
	Window         time.Duration `koanf:"window"`
	DigestTime     string        `koanf:"digest_time"`
	Timezone       string        `koanf:"timezone"`
	TelegramToken  string        `koanf:"telegram_token"`
	TelegramChatID int64         `koanf:"telegram_chat_id"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `koanf:"timeout"`
	Verbose bool          `koanf:"verbose"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Table: TableConfig{
			Backend:   BackendAirtable,
			TableName: "Missions",
			BaseURL:   "https://api.airtable.com",
			RateLimit: 5,
			Timeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			Dir:      filepath.Join(homeDir, ".mission-control"),
			Filename: "mc.db",
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       8080,
			CookieName: "mc_session",
			SessionTTL: 12 * time.Hour,
			ResetTTL:   10 * time.Minute,
		},
		Validation: ValidationConfig{
			MissionMinLength: 1,
			MissionMaxLength: 255,
			TimeMaxLength:    64,
		},
		Reminders: RemindersConfig{
			Interval:   time.Minute,
			Window:     5 * time.Minute,
			DigestTime: "07:00",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// ListenAddress returns host:port for the HTTP server
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// AllowedOrigins splits server.cors_origins into a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Location resolves reminders.timezone, defaulting to the local zone
func (c *Config) Location() (*time.Location, error) {
	if c.Reminders.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Reminders.Timezone)
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Table.Backend {
	case BackendAirtable:
		if c.Table.BaseID == "" {
			return &ConfigError{Field: "table.base_id", Message: "base id is required for the airtable backend"}
		}
		if c.Table.TableName == "" {
			return &ConfigError{Field: "table.table_name", Message: "table name is required for the airtable backend"}
		}
		if c.Table.APIToken == "" {
			return &ConfigError{Field: "table.api_token", Message: "api token is required for the airtable backend"}
		}
		if c.Table.BaseURL == "" {
			return &ConfigError{Field: "table.base_url", Message: "base url cannot be empty"}
		}
	case BackendSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case BackendMemory:
	default:
		return &ConfigError{Field: "table.backend", Message: "backend must be one of airtable, sqlite, memory"}
	}
	if c.Table.RateLimit <= 0 {
		return &ConfigError{Field: "table.rate_limit", Message: "rate limit must be positive"}
	}
	if c.Table.Timeout <= 0 {
		return &ConfigError{Field: "table.timeout", Message: "table timeout must be positive"}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.CookieName == "" {
		return &ConfigError{Field: "server.cookie_name", Message: "cookie name cannot be empty"}
	}
	if c.Server.SessionSecret != "" && len(c.Server.SessionSecret) < 16 {
		return &ConfigError{Field: "server.session_secret", Message: "session secret must be at least 16 characters"}
	}
	if c.Server.SessionTTL <= 0 {
		return &ConfigError{Field: "server.session_ttl", Message: "session ttl must be positive"}
	}
	if c.Server.ResetTTL <= 0 {
		return &ConfigError{Field: "server.reset_ttl", Message: "reset ttl must be positive"}
	}

	if c.Validation.MissionMinLength < 1 {
		return &ConfigError{Field: "validation.mission_min_length", Message: "mission minimum length must be at least 1"}
	}
	if c.Validation.MissionMaxLength < c.Validation.MissionMinLength {
		return &ConfigError{Field: "validation.mission_max_length", Message: "mission maximum length must be greater than minimum length"}
	}
	if c.Validation.TimeMaxLength < 1 {
		return &ConfigError{Field: "validation.time_max_length", Message: "time maximum length must be at least 1"}
	}

	if c.Reminders.Enabled {
		if c.Reminders.Interval < time.Second {
			return &ConfigError{Field: "reminders.interval", Message: "reminder interval must be at least one second"}
		}
		if c.Reminders.Window <= 0 {
			return &ConfigError{Field: "reminders.window", Message: "reminder window must be positive"}
		}
		if _, err := time.Parse("15:04", c.Reminders.DigestTime); err != nil {
			return &ConfigError{Field: "reminders.digest_time", Message: "digest time must be HH:MM"}
		}
		if c.Reminders.TelegramToken != "" && c.Reminders.TelegramChatID == 0 {
			return &ConfigError{Field: "reminders.telegram_chat_id", Message: "chat id is required when a telegram token is set"}
		}
	}
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "reminders.timezone", Message: "unknown timezone " + c.Reminders.Timezone}
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return &ConfigError{Field: "log.format", Message: "log format must be json or console"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "app.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
