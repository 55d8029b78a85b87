// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// Config. A missing path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, Validate(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of Default and validates the
// result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg is coherent. It returns every problem found,
// joined.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.Samples.Dir == "" {
		errs = append(errs, errors.New("samples.dir is required"))
	}
	if cfg.Samples.Reference == "" {
		errs = append(errs, errors.New("samples.reference is required"))
	}

	switch {
	case !cfg.Output.Device.IsValid():
		errs = append(errs, fmt.Errorf("output.device %q is invalid; valid values: oto, wav", cfg.Output.Device))
	case cfg.Output.Device == DeviceWAV:
		if cfg.Output.Path == "" {
			errs = append(errs, errors.New("output.path is required for the wav device"))
		}
		if cfg.Output.Duration <= 0 {
			errs = append(errs, fmt.Errorf("output.duration %s must be positive for the wav device", cfg.Output.Duration))
		}
	}
	if cfg.Output.Buffer < 0 {
		errs = append(errs, fmt.Errorf("output.buffer %s must not be negative", cfg.Output.Buffer))
	}

	switch cfg.Patterns.Source {
	case PatternsAPI:
		if cfg.Patterns.BaseURL == "" {
			errs = append(errs, errors.New("patterns.base_url is required for the api source"))
		}
	case PatternsFile:
		if len(cfg.Patterns.Definitions) == 0 {
			errs = append(errs, errors.New("patterns.definitions must not be empty for the file source"))
		}
		for i, p := range cfg.Patterns.Definitions {
			if err := p.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("patterns.definitions[%d]: %w", i, err))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("patterns.source %q is invalid; valid values: api, file", cfg.Patterns.Source))
	}

	return errors.Join(errs...)
}
