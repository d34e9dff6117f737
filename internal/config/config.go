package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"doorlist/pkg/scancode"
)

type Config struct {
	DatabaseURL    string
	EventID        uuid.UUID
	StationID      string
	Locale         string
	MigrationsPath string

	rawEventID string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment
		// itself (Docker, CI, etc.).
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StationID:      os.Getenv("STATION_ID"),
		Locale:         os.Getenv("LOCALE"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		rawEventID:     os.Getenv("EVENT_ID"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies all the rules on the loaded configuration and fills in
// defaults.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Useful local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/doorlist?sslmode=disable"
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}

	if strings.TrimSpace(c.rawEventID) == "" {
		return fmt.Errorf("config: EVENT_ID is required and cannot be empty")
	}
	c.EventID, err = uuid.Parse(c.rawEventID)
	if err != nil {
		return fmt.Errorf("config: EVENT_ID must be a UUID (%q): %w", c.rawEventID, err)
	}

	if strings.TrimSpace(c.StationID) == "" {
		// Stations without an explicit identity get an ephemeral one; it
		// only has to be unique among this event's stations for tagging
		// optimistic state and logs.
		c.StationID = "station-" + scancode.New()[:6]
	}

	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "en"
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}

	return nil
}
