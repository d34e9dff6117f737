package config

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://door:pw@db:5432/doorlist?sslmode=disable")
	t.Setenv("EVENT_ID", "0f8fad5b-d9cb-469f-a165-70867728950e")
	t.Setenv("STATION_ID", "door-a")
	t.Setenv("LOCALE", "fr")
	t.Setenv("MIGRATIONS_PATH", "db/migrations")
}

func TestLoad(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://door:pw@db:5432/doorlist?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.EventID != uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e") {
		t.Errorf("EventID = %s", cfg.EventID)
	}
	if cfg.StationID != "door-a" || cfg.Locale != "fr" || cfg.MigrationsPath != "db/migrations" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STATION_ID", "")
	t.Setenv("LOCALE", "")
	t.Setenv("MIGRATIONS_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/doorlist?sslmode=disable" {
		t.Errorf("DatabaseURL default = %q", cfg.DatabaseURL)
	}
	if !strings.HasPrefix(cfg.StationID, "station-") || len(cfg.StationID) != len("station-")+6 {
		t.Errorf("StationID default = %q", cfg.StationID)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale default = %q", cfg.Locale)
	}
	if cfg.MigrationsPath != "migrations" {
		t.Errorf("MigrationsPath default = %q", cfg.MigrationsPath)
	}
}

func TestLoadRequiresEventID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EVENT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("missing EVENT_ID accepted")
	}
}

func TestLoadRejectsBadEventID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EVENT_ID", "not-a-uuid")

	if _, err := Load(); err == nil {
		t.Fatal("malformed EVENT_ID accepted")
	}
}

func TestLoadRejectsBadDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("malformed DATABASE_URL accepted")
	}
}
