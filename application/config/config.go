// Package config loads and validates the addon's runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/winsoft666/node-addon-sample/application/schema"
	"github.com/winsoft666/node-addon-sample/application/validation"
	domainerrors "github.com/winsoft666/node-addon-sample/domain/errors"
)

// Config holds the knobs of the native side of the boundary.
type Config struct {
	// StepDelayMS is the simulated latency of each multiplication in the
	// pooled power operations.
	StepDelayMS int `json:"step_delay_ms,omitempty" yaml:"step_delay_ms" validate:"gte=0,lte=1000"`

	// MaxWorkers bounds concurrently running pooled computations. 0 is unbounded.
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers" validate:"gte=0,lte=1024"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// FileRoot and FileCount shape the GetFileList result.
	FileRoot  string `json:"file_root,omitempty" yaml:"file_root" validate:"omitempty,startswith=/"`
	FileCount int    `json:"file_count,omitempty" yaml:"file_count" validate:"gte=0,lte=1000"`
}

// Default returns the configuration matching the reference addon.
func Default() Config {
	return Config{
		StepDelayMS: 10,
		LogLevel:    "info",
		FileRoot:    "/root/",
		FileCount:   3,
	}
}

// StepDelay returns StepDelayMS as a duration.
func (c Config) StepDelay() time.Duration {
	return time.Duration(c.StepDelayMS) * time.Millisecond
}

// Validate checks the semantic constraints of c.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		var fe validation.FieldError
		if errors.As(err, &fe) {
			return &domainerrors.ConfigError{Field: fe.Field, Err: err}
		}
		return &domainerrors.ConfigError{Err: err}
	}
	return nil
}

const schemaName = "addon-config.json"

var (
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
	documents  = validation.NewSchemaValidator()
)

// Schema returns the JSON Schema of a config document.
func Schema() ([]byte, error) {
	schemaOnce.Do(func() {
		schemaJSON, schemaErr = schema.GenerateSchema(Config{})
	})
	return schemaJSON, schemaErr
}

// Parse decodes a YAML document over the defaults. The document is checked
// against Schema first, so unknown keys and mistyped values are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, &domainerrors.ConfigError{Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}
	if doc != nil {
		sch, err := Schema()
		if err != nil {
			return cfg, fmt.Errorf("failed to generate config schema: %w", err)
		}
		if err := documents.Validate(schemaName, sch, doc); err != nil {
			return cfg, &domainerrors.ConfigError{Err: err}
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &domainerrors.ConfigError{Err: fmt.Errorf("failed to decode config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}
