package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the SQL driver and its connection string. For
// sqlite the URL is a modernc.org/sqlite DSN (a file path or file: URI).
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// SessionConfig controls the in-memory study session registry.
type SessionConfig struct {
	IdleTimeoutMinutes   int    `mapstructure:"idle_timeout_minutes" validate:"required,gt=0"`
	SweepIntervalSeconds int    `mapstructure:"sweep_interval_seconds" validate:"required,gt=0"`
	DefaultViewport      string `mapstructure:"default_viewport" validate:"required,oneof=desktop mobile"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}
