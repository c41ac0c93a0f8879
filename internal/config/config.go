package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/dpup/titnyl/internal/lib/alignment"
	"github.com/dpup/titnyl/internal/lib/crs"
	"github.com/dpup/titnyl/internal/lib/pipeline"
	"github.com/dpup/titnyl/internal/lib/profile"
)

// AutoEPSG selects reference system detection
const AutoEPSG = "auto"

// Config represents the complete converter configuration
type Config struct {
	Conversion ConversionConfig `yaml:"conversion" koanf:"conversion"`
	Uploads    UploadConfig     `yaml:"uploads" koanf:"uploads"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
}

// ConversionConfig holds the numeric parameters of the geometry pipeline
type ConversionConfig struct {
	IntegrationStep      float64 `yaml:"integration_step" koanf:"integration_step" validate:"gte=0.01"`
	Smooth               bool    `yaml:"smooth" koanf:"smooth"`
	SmoothZ              bool    `yaml:"smooth_z" koanf:"smooth_z"`
	MinCurveLength       float64 `yaml:"min_curve_length" koanf:"min_curve_length" validate:"gt=0"`
	MaxCurveLength       float64 `yaml:"max_curve_length" koanf:"max_curve_length" validate:"gtefield=MinCurveLength"`
	DefaultCurveLength   float64 `yaml:"default_curve_length" koanf:"default_curve_length" validate:"gt=0"`
	SlopeChangeThreshold float64 `yaml:"slope_change_threshold" koanf:"slope_change_threshold" validate:"gte=0"`
	StationTolerance     float64 `yaml:"station_tolerance" koanf:"station_tolerance" validate:"gt=0"`
	Workers              int     `yaml:"workers" koanf:"workers" validate:"gte=0"`
	EPSG                 string  `yaml:"epsg" koanf:"epsg" validate:"epsg"`
}

// UploadConfig holds HTTP upload limits
type UploadConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" koanf:"max_upload_bytes" validate:"gt=0"`
}

// LogConfig controls where the CLI writes logs
type LogConfig struct {
	Level      string `yaml:"level" koanf:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file" koanf:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" koanf:"max_backups" validate:"gte=0"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Conversion: DefaultConversionConfig(),
		Uploads: UploadConfig{
			MaxUploadBytes: 32 << 20,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  32,
			MaxBackups: 1,
		},
	}
}

// DefaultConversionConfig returns the pipeline defaults
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		IntegrationStep:      1,
		Smooth:               true,
		SmoothZ:              false,
		MinCurveLength:       40,
		MaxCurveLength:       900,
		DefaultCurveLength:   100,
		SlopeChangeThreshold: 0.005,
		StationTolerance:     alignment.StationTolerance,
		Workers:              runtime.GOMAXPROCS(0),
		EPSG:                 AutoEPSG,
	}
}

// ParseEPSG returns 0 for "auto" and the numeric code otherwise. An "EPSG:" prefix is accepted.
func ParseEPSG(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, AutoEPSG) {
		return 0, nil
	}
	v = strings.TrimPrefix(strings.ToUpper(v), "EPSG:")
	code, err := strconv.Atoi(v)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("invalid EPSG code %q", value)
	}
	return code, nil
}

// PipelineOptions converts the configuration to pipeline options
func (c ConversionConfig) PipelineOptions() (pipeline.Options, error) {
	code, err := ParseEPSG(c.EPSG)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Alignment: alignment.Options{
			Step:             c.IntegrationStep,
			StationTolerance: c.StationTolerance,
			Workers:          c.Workers,
		},
		Smooth: c.Smooth,
		Profile: profile.Options{
			Smooth:               c.SmoothZ,
			MinCurveLength:       c.MinCurveLength,
			MaxCurveLength:       c.MaxCurveLength,
			DefaultCurveLength:   c.DefaultCurveLength,
			SlopeChangeThreshold: c.SlopeChangeThreshold,
		},
		EPSG:  code,
		Table: crs.DefaultTable(),
	}, nil
}
