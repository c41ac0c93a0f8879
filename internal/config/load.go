package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read by Load. Nested keys use a double underscore,
// e.g. TITNYL_CONVERSION__INTEGRATION_STEP.
const EnvPrefix = "TITNYL_"

// Load reads configuration from an optional YAML file, then the environment, then explicit
// overrides keyed by dotted path. Later sources win; unset keys keep their defaults.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "auto" or a positive code, optionally prefixed with "EPSG:"
	_ = v.RegisterValidation("epsg", func(fl validator.FieldLevel) bool {
		_, err := ParseEPSG(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks a configuration against its field constraints
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateConversion checks only the conversion section
func ValidateConversion(c ConversionConfig) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid conversion configuration: %w", err)
	}
	return nil
}
