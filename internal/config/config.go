package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Config holds all tread configuration. Validated once at session start,
// then shared read-only by every component.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Engine    EngineConfig    `toml:"engine"`
	Terms     TermsConfig     `toml:"terms"`
	Inference InferenceConfig `toml:"inference"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// EngineConfig carries the routing knobs. Every field participates in
// Version(), so changing any of them invalidates cached routing decisions.
type EngineConfig struct {
	MedicalWeight       float64  `toml:"medical_weight"`         // importance multiplier for medical tokens
	MeasurementWeight   float64  `toml:"measurement_weight"`     // confidence contribution per extracted measurement
	ConfidenceNorm      float64  `toml:"confidence_norm"`        // confidence denominator scale
	RoutingThreshold    float64  `toml:"routing_threshold"`      // importance cutoff for the high path
	MinHighPathFraction float64  `toml:"min_high_path_fraction"` // floor on high-path token share
	CacheSize           int      `toml:"cache_size"`             // routing cache capacity (entries)
	BatchSize           int      `toml:"batch_size"`             // concurrent documents per batch
	Units               []string `toml:"units"`                  // measurement unit vocabulary
}

type TermsConfig struct {
	File string `toml:"file"` // optional TOML term file merged over the builtin set
}

// InferenceConfig points at the downstream model runtime that consumes
// routed spans. Inference itself happens outside this process.
type InferenceConfig struct {
	URL   string `toml:"url"`   // inference endpoint; empty disables hand-off
	Model string `toml:"model"` // model identifier passed through to the runtime
}

// ConfigError reports an invalid configuration value. Construction-time
// only; never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// Default returns a Config with sensible defaults. The engine values
// mirror the original deployment profile.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37740,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Engine: EngineConfig{
			MedicalWeight:       1.5,
			MeasurementWeight:   1.0,
			ConfidenceNorm:      4.0,
			RoutingThreshold:    0.5,
			MinHighPathFraction: 0.3,
			CacheSize:           1000,
			BatchSize:           32,
			Units: []string{
				"mmHg", "mg/dL", "mmol/L", "mEq/L",
				"mg", "g", "mcg", "ml", "bpm", "%",
			},
		},
		Inference: InferenceConfig{
			URL:   "", // hand-off disabled until pointed at a runtime
			Model: "medroute",
		},
	}
}

// Validate checks every bound. Invalid values are rejected, never clamped.
func (c *Config) Validate() error {
	e := c.Engine
	if e.MedicalWeight <= 0 {
		return &ConfigError{"medical_weight", "must be > 0"}
	}
	if e.MeasurementWeight < 0 {
		return &ConfigError{"measurement_weight", "must be >= 0"}
	}
	if e.ConfidenceNorm <= 0 {
		return &ConfigError{"confidence_norm", "must be > 0"}
	}
	if e.RoutingThreshold < 0 || e.RoutingThreshold > 1 {
		return &ConfigError{"routing_threshold", "must be in [0, 1]"}
	}
	if e.MinHighPathFraction < 0 || e.MinHighPathFraction > 1 {
		return &ConfigError{"min_high_path_fraction", "must be in [0, 1]"}
	}
	if e.CacheSize <= 0 {
		return &ConfigError{"cache_size", "must be > 0"}
	}
	if e.BatchSize <= 0 {
		return &ConfigError{"batch_size", "must be > 0"}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{"server.port", "must be a valid port"}
	}
	return nil
}

// Version identifies the routing-relevant configuration for cache
// fingerprints. Two configs that route identically share a version.
func (c *Config) Version() string {
	e := c.Engine
	h := sha256.New()
	fmt.Fprintf(h, "mw=%g;xw=%g;cn=%g;rt=%g;mf=%g;units=%s",
		e.MedicalWeight, e.MeasurementWeight, e.ConfidenceNorm,
		e.RoutingThreshold, e.MinHighPathFraction,
		strings.Join(e.Units, ","))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
