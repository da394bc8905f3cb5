package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

var validate = validator.New()

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Library    LibraryConfig    `toml:"library"`
	Generation GenerationConfig `toml:"generation"`
	Output     OutputConfig     `toml:"output"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig describes the story backend and how to reach it.
type ServerConfig struct {
	BaseURL           string        `toml:"base_url" validate:"required,url"`
	StreamPath        string        `toml:"stream_path" validate:"required,startswith=/"`
	ProducePath       string        `toml:"produce_path" validate:"required,startswith=/"`
	Transport         string        `toml:"transport" validate:"required,oneof=stream single auto"`
	InactivityTimeout time.Duration `toml:"inactivity_timeout" validate:"gt=0"`
	RequestTimeout    time.Duration `toml:"request_timeout" validate:"gte=0"`
	RateLimit         float64       `toml:"rate_limit" validate:"gte=0"`
}

// LibraryConfig lists where selectable books come from.
type LibraryConfig struct {
	Dir   string   `toml:"dir"`
	Books []string `toml:"books"`
}

// GenerationConfig holds default request options.
type GenerationConfig struct {
	Length        string        `toml:"length" validate:"required,oneof=short medium long"`
	Style         string        `toml:"style" validate:"required"`
	FallbackPause time.Duration `toml:"fallback_pause" validate:"gte=0"`
}

// OutputConfig controls where saved stories are written.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig controls log verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads path when it exists (defaults otherwise), applies .env and STORYX_* overrides, and validates the result.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	_ = godotenv.Load()
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from STORYX_* variables using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
			}
			*dst = d
		}
		return nil
	}

	str("STORYX_BASE_URL", &c.Server.BaseURL)
	str("STORYX_TRANSPORT", &c.Server.Transport)
	str("STORYX_LIBRARY_DIR", &c.Library.Dir)
	str("STORYX_OUTPUT_DIR", &c.Output.Dir)
	str("STORYX_LENGTH", &c.Generation.Length)
	str("STORYX_STYLE", &c.Generation.Style)
	str("STORYX_LOG_LEVEL", &c.Log.Level)
	str("STORYX_LOG_FILE", &c.Log.File)

	if err := dur("STORYX_INACTIVITY_TIMEOUT", &c.Server.InactivityTimeout); err != nil {
		return err
	}
	if err := dur("STORYX_REQUEST_TIMEOUT", &c.Server.RequestTimeout); err != nil {
		return err
	}

	if v, ok := lookup("STORYX_RATE_LIMIT"); ok && v != "" {
		rl, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: STORYX_RATE_LIMIT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.RateLimit = rl
	}
	return nil
}

// Validate checks the struct tags on every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
