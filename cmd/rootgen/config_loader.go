package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/eth2030/rootgen/domain"
	"github.com/eth2030/rootgen/field"
	"github.com/eth2030/rootgen/log"
	"github.com/eth2030/rootgen/numtheory"
)

// Configuration errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Config aggregates the TOML file and the CLI flags into the settings of
// one derivation run.
type Config struct {
	Domain  DomainConfig  `toml:"domain"`
	Log     LogConfig     `toml:"log"`
	Output  OutputConfig  `toml:"output"`
	Metrics MetricsConfig `toml:"metrics"`

	// ConfigFile is the path of the TOML file that was loaded, if any.
	ConfigFile string `toml:"-"`
}

// DomainConfig selects the field and the order of the root.
type DomainConfig struct {
	// Preset names a built-in modulus. Ignored when Modulus is set.
	Preset string `toml:"preset"`
	// Modulus is a decimal or 0x-prefixed prime.
	Modulus string `toml:"modulus"`
	Order   uint64 `toml:"order"`
	// Factors is the factorization of p-1, as "q" or "q^e" entries.
	Factors []string `toml:"factors"`
}

// LogConfig controls the slog handler. Level, when set, takes precedence
// over Verbosity.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Level     string `toml:"level"`
	Format    string `toml:"format"`
}

// OutputConfig controls result rendering and cross-checks.
type OutputConfig struct {
	Format     string   `toml:"format"`
	Table      bool     `toml:"table"`
	VerifyWith []string `toml:"verify_with"`
	Strict     bool     `toml:"strict"`
}

// MetricsConfig controls the metrics dump at exit.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
	// File receives the Prometheus text dump. Empty means stderr.
	File string `toml:"file"`
}

// DefaultConfig returns the BLS12-381, N = 64 configuration.
func DefaultConfig() *Config {
	return &Config{
		Domain: DomainConfig{
			Preset: domain.DefaultPreset,
			Order:  domain.DefaultOrder,
		},
		Log: LogConfig{
			Verbosity: 3,
			Format:    "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// LoadConfig reads a TOML file over the defaults. Keys absent from the
// file keep their default value; unknown keys are rejected. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	cfg.ConfigFile = path
	return cfg, nil
}

// Validate checks value ranges that the TOML decoder cannot.
func (c *Config) Validate() error {
	var errs []string
	if c.Domain.Modulus == "" && c.Domain.Preset == "" {
		errs = append(errs, "either modulus or preset must be set")
	}
	if c.Domain.Order == 0 {
		errs = append(errs, "order must be positive")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		errs = append(errs, fmt.Sprintf("verbosity must be 0-5, got %d", c.Log.Verbosity))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, err.Error())
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log format must be text or json, got %q", c.Log.Format))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("output format must be text or json, got %q", c.Output.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// LogLevel returns the slog level of the run: the named level if one is
// configured, else the level of the verbosity.
func (c *Config) LogLevel() slog.Level {
	if c.Log.Level != "" {
		if lvl, err := log.ParseLevel(c.Log.Level); err == nil {
			return lvl
		}
	}
	return log.VerbosityToLevel(c.Log.Verbosity)
}

// Params resolves the domain section into derivation parameters. An
// explicit modulus wins over the preset. The preset's factorization is
// reused only when its modulus is the one being derived over, and
// explicit factors win over both.
func (c *Config) Params() (domain.Params, error) {
	var (
		p   *big.Int
		f   numtheory.Factorization
		err error
	)
	var preset *domain.Preset
	if c.Domain.Preset != "" {
		pr, err := domain.LookupPreset(c.Domain.Preset)
		if err != nil {
			return domain.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		preset = &pr
	}

	switch {
	case c.Domain.Modulus != "":
		if p, err = domain.ParseModulus(c.Domain.Modulus); err != nil {
			return domain.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if preset != nil && preset.Modulus.Cmp(p) == 0 {
			f = preset.Factorization
		}
	case preset != nil:
		p, f = preset.Modulus, preset.Factorization
	default:
		return domain.Params{}, fmt.Errorf("%w: no modulus", ErrInvalidConfig)
	}

	if len(c.Domain.Factors) > 0 {
		if f, err = numtheory.ParseFactorization(c.Domain.Factors); err != nil {
			return domain.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return domain.Params{Modulus: p, Order: c.Domain.Order, Factorization: f}, nil
}

// Backends resolves Output.VerifyWith through the field registry.
func (c *Config) Backends() ([]field.Backend, error) {
	out := make([]field.Backend, 0, len(c.Output.VerifyWith))
	for _, name := range c.Output.VerifyWith {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b, err := field.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v (have %s)", ErrInvalidConfig, err, strings.Join(field.Names(), ", "))
		}
		out = append(out, b)
	}
	return out, nil
}
