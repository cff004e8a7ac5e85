// Package config holds the settings of the extended converter.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. WEIGHT_FORMAT.
const EnvPrefix = "WEIGHT_"

// Config contains converter settings.
type Config struct {
	// Format selects the output sink: csv, parquet, fit or sqlite.
	Format string `koanf:"format" validate:"oneof=csv parquet fit sqlite"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`

	// MetricsFile receives a Prometheus textfile after the run when set.
	MetricsFile string `koanf:"metrics_file"`

	// Summary prints a per-user table after writing.
	Summary bool `koanf:"summary"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Format:    "csv",
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $WEIGHT_CONFIG when path is empty
//  3. env (prefix WEIGHT_)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// WEIGHT_METRICS_FILE -> metrics_file
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.MetricsFile = strings.TrimSpace(c.MetricsFile)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate lower-cases and trims the settings, then reports every invalid
// field in one error.
func (c *Config) Validate() error {
	c.normalize()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", strings.ToLower(fe.Field()), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
