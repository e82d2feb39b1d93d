package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys, e.g. GRC_ENGINE_MAX_BATCH_SIZE -> engine.max_batch_size.
const EnvPrefix = "GRC_"

// DefaultPath is read when Load is given an empty path.
const DefaultPath = "configs/config.yaml"

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Telemetry TelemetryConfig `koanf:"telemetry"`
	Engine    EngineConfig    `koanf:"engine"`
}

type TelemetryConfig struct {
	Enabled       bool          `koanf:"enabled"`
	ServiceName   string        `koanf:"service_name"`
	MeterName     string        `koanf:"meter_name"`
	OTLPEndpoint  string        `koanf:"otlp_endpoint"`
	SamplingRate  float64       `koanf:"sampling_rate"`
	ExportTimeout time.Duration `koanf:"export_timeout"`
}

type EngineConfig struct {
	// MaxBatchSize caps the risks or controls accepted per computation; 0 disables the cap.
	MaxBatchSize     int  `koanf:"max_batch_size"`
	ValidateContract bool `koanf:"validate_contract"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Telemetry: TelemetryConfig{
			Enabled:       false,
			ServiceName:   "grc-risk-engine",
			MeterName:     "grc.engine",
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			MaxBatchSize:     10000,
			ValidateContract: false,
		},
	}
}

// Load layers struct defaults, an optional YAML file and GRC_* environment
// variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// the default file is optional, an explicit one is not
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKey(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxBatchSize < 0 {
		return fmt.Errorf("engine.max_batch_size must not be negative, got %d", c.Engine.MaxBatchSize)
	}
	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("telemetry.sampling_rate must be between 0 and 1, got %v", c.Telemetry.SamplingRate)
	}
	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return fmt.Errorf("telemetry.service_name is required when telemetry is enabled")
	}
	return nil
}

// envKey maps GRC_ENGINE_MAX_BATCH_SIZE to engine.max_batch_size. The first
// underscore separates the section; later ones belong to the field name.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"telemetry", "engine"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
