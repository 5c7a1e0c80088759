// Package config holds the settings shared by the typedbuf CLI and library
// callers. A Config is loaded from YAML, validated once, and turned into the
// option structs the codec, columnar and histogram packages take.
//
// Example usage:
//
//	cfg := config.NewDefaultConfig()
//	if err := config.Load("typedbuf.yaml", cfg); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	buf, err := codec.SequenceToBuffer(values, cfg.CodecOptions())
package config

import (
	"github.com/ajitpratap0/typedbuf/pkg/codec"
	"github.com/ajitpratap0/typedbuf/pkg/columnar"
	"github.com/ajitpratap0/typedbuf/pkg/compression"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/histogram"
	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Config is the top-level configuration.
type Config struct {
	// Name identifies the process in logs and traces
	Name string `yaml:"name" json:"name"`

	Codec         CodecConfig         `yaml:"codec" json:"codec"`
	Histogram     HistogramConfig     `yaml:"histogram" json:"histogram"`
	Payload       PayloadConfig       `yaml:"payload" json:"payload"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// CodecConfig controls sequence and buffer conversion.
type CodecConfig struct {
	// Target is the kind generic sequences are written as
	Target string `yaml:"target" json:"target"`
	// Fallback is the kind untyped buffers are read as
	Fallback string `yaml:"fallback" json:"fallback"`
	// Narrowing is "wrap" or "saturate"
	Narrowing string `yaml:"narrowing" json:"narrowing"`
	// AllowLossyFallback permits a fallback narrower than float64
	AllowLossyFallback bool `yaml:"allow_lossy_fallback" json:"allow_lossy_fallback"`
}

// HistogramConfig sets histogram defaults.
type HistogramConfig struct {
	Bins int `yaml:"bins" json:"bins"`
}

// PayloadConfig controls payload and Arrow IPC compression.
type PayloadConfig struct {
	Compression string `yaml:"compression" json:"compression"`
	Level       int    `yaml:"level" json:"level"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel          string  `yaml:"log_level" json:"log_level"`
	LogEncoding       string  `yaml:"log_encoding" json:"log_encoding"`
	Development       bool    `yaml:"development" json:"development"`
	EnableMetrics     bool    `yaml:"enable_metrics" json:"enable_metrics"`
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewDefaultConfig returns a Config with every section filled in.
func NewDefaultConfig() *Config {
	return &Config{
		Name: "typedbuf",
		Codec: CodecConfig{
			Target:    typedarray.Float64.String(),
			Fallback:  typedarray.Float64.String(),
			Narrowing: typedarray.Wrap.String(),
		},
		Histogram: HistogramConfig{
			Bins: histogram.DefaultBins,
		},
		Payload: PayloadConfig{
			Compression: string(compression.Zstd),
			Level:       int(compression.Default),
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			EnableMetrics:     true,
			TracingSampleRate: 1.0,
		},
	}
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrorTypeConfig, format, args...)
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	if c.Name == "" {
		return invalid("name is required")
	}
	if _, err := c.kinds(); err != nil {
		return err
	}
	if _, err := typedarray.ParsePolicy(c.Codec.Narrowing); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "codec.narrowing")
	}
	if c.Histogram.Bins <= 0 {
		return invalid("histogram.bins must be positive")
	}
	if _, err := compression.ParseAlgorithm(c.Payload.Compression); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "payload.compression")
	}
	if c.Payload.Level < 0 || c.Payload.Level > int(compression.Best) {
		return invalid("payload.level must be between 0 and %d", compression.Best)
	}
	switch c.Observability.LogEncoding {
	case "", "json", "console":
	default:
		return invalid("observability.log_encoding must be json or console")
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return invalid("observability.tracing_sample_rate must be within [0, 1]")
	}
	return nil
}

func parseTypedKind(name, value string) (typedarray.Kind, error) {
	if value == "" {
		return typedarray.Float64, nil
	}
	k, err := typedarray.ParseKind(value)
	if err != nil {
		return typedarray.Invalid, errors.Wrap(err, errors.ErrorTypeConfig, name)
	}
	if !k.IsTyped() {
		return typedarray.Invalid, invalid("%s must be a typed kind, got %s", name, k)
	}
	return k, nil
}

func (c *Config) kinds() ([2]typedarray.Kind, error) {
	target, err := parseTypedKind("codec.target", c.Codec.Target)
	if err != nil {
		return [2]typedarray.Kind{}, err
	}
	fallback, err := parseTypedKind("codec.fallback", c.Codec.Fallback)
	if err != nil {
		return [2]typedarray.Kind{}, err
	}
	return [2]typedarray.Kind{target, fallback}, nil
}

// CodecOptions converts the codec section. Call Validate first; invalid
// values fall back to the codec defaults.
func (c *Config) CodecOptions() *codec.Options {
	opts := codec.DefaultOptions()
	if k, err := c.kinds(); err == nil {
		opts.Target, opts.Fallback = k[0], k[1]
	}
	if p, err := typedarray.ParsePolicy(c.Codec.Narrowing); err == nil {
		opts.Policy = p
	}
	opts.AllowLossyFallback = c.Codec.AllowLossyFallback
	return opts
}

// Policy returns the configured narrowing policy.
func (c *Config) Policy() typedarray.Policy {
	return c.CodecOptions().Policy
}

// PayloadConfig converts the payload section.
func (c *Config) PayloadConfig() *columnar.PayloadConfig {
	a, err := compression.ParseAlgorithm(c.Payload.Compression)
	if err != nil {
		return columnar.DefaultPayloadConfig()
	}
	level := compression.Level(c.Payload.Level)
	if level == 0 {
		level = compression.Default
	}
	return &columnar.PayloadConfig{Algorithm: a, Level: level}
}

// HistogramBins returns the configured bin count.
func (c *Config) HistogramBins() int {
	if c.Histogram.Bins <= 0 {
		return histogram.DefaultBins
	}
	return c.Histogram.Bins
}

// LoggerConfig converts the observability section for logger.Init.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Observability.LogLevel,
		Development: c.Observability.Development,
		Encoding:    c.Observability.LogEncoding,
	}
}
