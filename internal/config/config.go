// SPDX-License-Identifier: EPL-2.0

// Package config holds the drumbox configuration schema and its YAML
// loader.
package config

import (
	"log/slog"
	"time"

	"github.com/ik5/drumbox/drumbot"
	"github.com/ik5/drumbox/sequencer"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to a slog level. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DeviceKind selects the output device.
type DeviceKind string

const (
	// DeviceOto plays through the system audio device.
	DeviceOto DeviceKind = "oto"
	// DeviceWAV renders into a WAV file.
	DeviceWAV DeviceKind = "wav"
)

// IsValid reports whether d is a known device.
func (d DeviceKind) IsValid() bool {
	return d == DeviceOto || d == DeviceWAV
}

// PatternSource selects where patterns come from.
type PatternSource string

const (
	// PatternsAPI fetches patterns from a drumbot service.
	PatternsAPI PatternSource = "api"
	// PatternsFile uses the definitions embedded in the config.
	PatternsFile PatternSource = "file"
)

// IsValid reports whether s is a known pattern source.
func (s PatternSource) IsValid() bool {
	return s == PatternsAPI || s == PatternsFile
}

// Config is the root of the configuration file.
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	Samples  SamplesConfig  `yaml:"samples"`
	Output   OutputConfig   `yaml:"output"`
	Patterns PatternsConfig `yaml:"patterns"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// SamplesConfig locates the instrument samples.
type SamplesConfig struct {
	// Dir holds one file per instrument, named after it.
	Dir string `yaml:"dir"`

	// Reference is the instrument whose clip fixes the mixing format.
	Reference string `yaml:"reference"`
}

// OutputConfig selects and tunes the output device.
type OutputConfig struct {
	Device DeviceKind `yaml:"device"`

	// Path is the WAV file written by the wav device.
	Path string `yaml:"path"`

	// Duration is how much audio the wav device renders.
	Duration time.Duration `yaml:"duration"`

	// Buffer is the oto device buffer length. Zero uses the driver default.
	Buffer time.Duration `yaml:"buffer"`
}

// PatternsConfig selects the pattern to play.
type PatternsConfig struct {
	Source PatternSource `yaml:"source"`

	// BaseURL is the drumbot service root for the api source.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request to the drumbot service.
	Timeout time.Duration `yaml:"timeout"`

	// Name picks a pattern; empty means the first one.
	Name string `yaml:"name"`

	// Loop keeps playing the pattern until shutdown.
	Loop bool `yaml:"loop"`

	// Definitions are the patterns of the file source.
	Definitions []sequencer.Pattern `yaml:"definitions"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddr serves /metrics when set, e.g. ":9090".
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Samples: SamplesConfig{
			Dir:       "res/samples",
			Reference: "clap",
		},
		Output: OutputConfig{
			Device:   DeviceOto,
			Duration: 8 * time.Second,
			Buffer:   50 * time.Millisecond,
		},
		Patterns: PatternsConfig{
			Source:  PatternsAPI,
			BaseURL: drumbot.DefaultBaseURL,
			Timeout: 10 * time.Second,
			Loop:    true,
		},
	}
}
