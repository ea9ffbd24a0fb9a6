package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"city", "city", "Tashkent", false},
		{"country", "country", "Uzbekistan", false},
		{"latitude", "latitude", "41.3111", false},
		{"latitude out of range", "latitude", "91", true},
		{"latitude not a number", "latitude", "north", true},
		{"longitude", "longitude", "-74.006", false},
		{"longitude out of range", "longitude", "181", true},
		{"method", "method", "3", false},
		{"method too large", "method", "24", true},
		{"method negative", "method", "-1", true},
		{"method not a number", "method", "MWL", true},
		{"school standard", "school", "0", false},
		{"school hanafi", "school", "1", false},
		{"school invalid", "school", "2", true},
		{"time_format 12h", "time_format", "12h", false},
		{"time_format 24h", "time_format", "24h", false},
		{"time_format invalid", "time_format", "24", true},
		{"cache_dir", "cache_dir", "/tmp/salat-cache", false},
		{"gps_command", "gps_command", "termux-location", false},
		{"unknown key", "refresh_interval", "5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	var cfg Config
	pairs := map[string]string{
		"city":        "London",
		"latitude":    "51.5074",
		"longitude":   "-0.1278",
		"method":      "3",
		"school":      "1",
		"time_format": "12h",
		"gps_command": "termux-location -p gps",
	}

	for key, value := range pairs {
		if err := cfg.Set(key, value); err != nil {
			t.Fatalf("Set(%q, %q): %v", key, value, err)
		}
	}

	for key, want := range pairs {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestGet_UnsetValues(t *testing.T) {
	var cfg Config

	for _, key := range []string{"latitude", "longitude", "method", "school"} {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) on empty config = %q, want empty", key, got)
		}
	}

	if _, err := cfg.Get("nope"); err == nil {
		t.Error("Get of unknown key should fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	method := 2
	cfg := Config{
		City:     "Jakarta",
		Latitude: -6.2088,
		Method:   &method,
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.City != "Jakarta" || loaded.Latitude != -6.2088 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Method == nil || *loaded.Method != 2 {
		t.Errorf("Method = %v, want 2", loaded.Method)
	}
	if loaded.School != nil {
		t.Errorf("School = %v, want nil (never set)", loaded.School)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg == nil || cfg.City != "" {
		t.Errorf("cfg = %+v, want empty config", cfg)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("invalid JSON should fail loading")
	}
}

func TestResetAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := (&Config{City: "x"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config file still exists after reset")
	}

	// Resetting an absent file is fine.
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on missing file: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SALAT_CITY", "Istanbul")
	t.Setenv("SALAT_LATITUDE", "41.0082")
	t.Setenv("SALAT_METHOD", "13")
	t.Setenv("SALAT_SCHOOL", "7") // invalid, must be ignored
	t.Setenv("SALAT_TIME_FORMAT", "12h")

	cfg := Config{City: "Tashkent"}
	cfg.ApplyEnv()

	if cfg.City != "Istanbul" {
		t.Errorf("City = %q, want env override", cfg.City)
	}
	if cfg.Latitude != 41.0082 {
		t.Errorf("Latitude = %v, want 41.0082", cfg.Latitude)
	}
	if cfg.Method == nil || *cfg.Method != 13 {
		t.Errorf("Method = %v, want 13", cfg.Method)
	}
	if cfg.School != nil {
		t.Errorf("School = %v, want nil: invalid env values are ignored", cfg.School)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want 12h", cfg.TimeFormat)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Method == nil || *cfg.Method != -1 {
		t.Errorf("default Method = %v, want -1 (provider default)", cfg.Method)
	}
	if cfg.School == nil || *cfg.School != 0 {
		t.Errorf("default School = %v, want 0", cfg.School)
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("default TimeFormat = %q, want 24h", cfg.TimeFormat)
	}
}

func TestMethodOrDefault(t *testing.T) {
	var cfg Config
	if got := cfg.MethodOrDefault(-1); got != -1 {
		t.Errorf("unset MethodOrDefault = %d, want -1", got)
	}
	m := 4
	cfg.Method = &m
	if got := cfg.MethodOrDefault(-1); got != 4 {
		t.Errorf("MethodOrDefault = %d, want 4", got)
	}
}

func TestDir_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if !strings.HasPrefix(dir, "/tmp/xdg-test") || filepath.Base(dir) != "salat" {
		t.Errorf("Dir() = %q, want under $XDG_CONFIG_HOME/salat", dir)
	}
}
