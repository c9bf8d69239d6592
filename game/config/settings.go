package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSettings = errors.New("invalid settings")

const (
	DefaultHost = "localhost"
	DefaultPort = 8080
)

// Settings holds the runtime options of the server
type Settings struct {
	Host  string
	Port  int
	Debug bool

	// SessionTTL is how long an untouched game is kept in the registry
	SessionTTL time.Duration
	// CleanupInterval is the period of the expired game sweep
	CleanupInterval time.Duration

	// Optional public tunnel
	NgrokEnabled bool
	NgrokAuth    string
	NgrokDomain  string
}

// Default returns the settings used when no flag or env var overrides them
func Default() Settings {
	return Settings{
		Host:            DefaultHost,
		Port:            DefaultPort,
		SessionTTL:      24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

// Addr returns host:port for the HTTP listener
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BaseURL returns the http URL the MCP client uses to reach the REST API
func (s Settings) BaseURL() string {
	return "http://" + s.Addr()
}

// Validate checks the settings for values the server cannot run with
func (s Settings) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidSettings)
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive, got %s", ErrInvalidSettings, s.SessionTTL)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive, got %s", ErrInvalidSettings, s.CleanupInterval)
	}
	if s.NgrokEnabled && s.NgrokAuth == "" {
		return fmt.Errorf("%w: ngrok enabled without auth token", ErrInvalidSettings)
	}
	return nil
}
