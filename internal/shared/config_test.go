package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://127.0.0.1:8000" {
			t.Errorf("expected base URL http://127.0.0.1:8000, got %s", config.Server.BaseURL)
		}

		if config.Server.StreamPath != "/produce-story-stream" {
			t.Errorf("expected stream path /produce-story-stream, got %s", config.Server.StreamPath)
		}

		if config.Server.Transport != "auto" {
			t.Errorf("expected transport auto, got %s", config.Server.Transport)
		}

		if config.Server.InactivityTimeout != 2*time.Minute {
			t.Errorf("expected inactivity timeout 2m, got %v", config.Server.InactivityTimeout)
		}

		if config.Generation.FallbackPause != 800*time.Millisecond {
			t.Errorf("expected fallback pause 800ms, got %v", config.Generation.FallbackPause)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Server.BaseURL != defaultConfig.Server.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
base_url = "http://stories.local:9000"
transport = "stream"
inactivity_timeout = "30s"

[library]
dir = "/srv/books"
books = ["alice.txt", "dracula.pdf"]

[generation]
length = "short"
style = "whimsical"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.BaseURL != "http://stories.local:9000" {
			t.Errorf("expected base URL http://stories.local:9000, got %s", config.Server.BaseURL)
		}

		if config.Server.InactivityTimeout != 30*time.Second {
			t.Errorf("expected inactivity timeout 30s, got %v", config.Server.InactivityTimeout)
		}

		if config.Server.ProducePath != "/produce-story" {
			t.Errorf("expected unset produce path to keep default, got %s", config.Server.ProducePath)
		}

		if len(config.Library.Books) != 2 || config.Library.Books[1] != "dracula.pdf" {
			t.Errorf("unexpected library books %v", config.Library.Books)
		}

		if config.Generation.Style != "whimsical" {
			t.Errorf("expected style whimsical, got %s", config.Generation.Style)
		}
	})

	t.Run("LoadConfig With Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			"STORYX_BASE_URL":           "http://env.local:1234",
			"STORYX_TRANSPORT":          "single",
			"STORYX_INACTIVITY_TIMEOUT": "45s",
			"STORYX_RATE_LIMIT":         "2.5",
		}
		lookup := func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}

		config := DefaultConfig()
		if err := config.ApplyEnv(lookup); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}

		if config.Server.BaseURL != "http://env.local:1234" {
			t.Errorf("expected env base URL, got %s", config.Server.BaseURL)
		}
		if config.Server.Transport != "single" {
			t.Errorf("expected env transport, got %s", config.Server.Transport)
		}
		if config.Server.InactivityTimeout != 45*time.Second {
			t.Errorf("expected 45s, got %v", config.Server.InactivityTimeout)
		}
		if config.Server.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Server.RateLimit)
		}
	})

	t.Run("ApplyEnv With Bad Duration", func(t *testing.T) {
		lookup := func(key string) (string, bool) {
			if key == "STORYX_REQUEST_TIMEOUT" {
				return "soon", true
			}
			return "", false
		}

		err := DefaultConfig().ApplyEnv(lookup)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "bad transport", mutate: func(c *Config) { c.Server.Transport = "carrier-pigeon" }},
			{name: "missing base url", mutate: func(c *Config) { c.Server.BaseURL = "" }},
			{name: "relative stream path", mutate: func(c *Config) { c.Server.StreamPath = "stream" }},
			{name: "zero inactivity timeout", mutate: func(c *Config) { c.Server.InactivityTimeout = 0 }},
			{name: "bad length", mutate: func(c *Config) { c.Generation.Length = "epic" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
