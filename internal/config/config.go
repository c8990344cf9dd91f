package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every turing subcommand.
// Precedence, lowest first: defaults, YAML file, TURING_* environment, flags.
type Config struct {
	Interval time.Duration `mapstructure:"interval" env:"TURING_INTERVAL"`
	MaxSteps int           `mapstructure:"max_steps" env:"TURING_MAX_STEPS"`
	LogLevel string        `mapstructure:"log_level" env:"TURING_LOG_LEVEL"`
	LogFile  string        `mapstructure:"log_file" env:"TURING_LOG_FILE"`
	Addr     string        `mapstructure:"addr" env:"TURING_ADDR"`
	NoColor  bool          `mapstructure:"no_color" env:"TURING_NO_COLOR"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Interval: time.Second,
		LogLevel: "info",
		Addr:     ":8080",
	}
}

// Load applies the YAML file at path (skipped when empty) and then the
// environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
