// Command rootgen derives a root of unity of order N over a prime field,
// verifies that its order is exactly N and prints it with its power table.
//
// Usage:
//
//	rootgen [flags]
//	rootgen presets
//	rootgen backends
//
// Flags:
//
//	--config         TOML configuration file
//	--preset         Built-in modulus (default: bls12-381)
//	--modulus        Prime modulus, decimal or 0x-prefixed hex
//	--order          Order N of the root (default: 64)
//	--factors        Factorization of p-1, skips factoring
//	--format         Output format: text, json (default: text)
//	--table          Print the power table w^0 .. w^N
//	--verify-with    Backends that recompute the table
//	--verify-strict  Fail on backends that do not support the modulus
//	--verbosity      Log level 0-5 (default: 3)
//	--log.level      Log level by name, overrides --verbosity
//	--log.format     Log format: text, json (default: text)
//	--metrics        Dump metrics at exit (default: false)
//	--metrics.file   Write the metrics dump to a file
//	--version        Print version and exit
//
// Flags override the config file, which overrides the preset defaults.
package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/rootgen/domain"
	"github.com/eth2030/rootgen/evaldomain"
	"github.com/eth2030/rootgen/field"
	"github.com/eth2030/rootgen/log"
	"github.com/eth2030/rootgen/metrics"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code out of a cli action.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	return runWith(args, os.Stdout, os.Stderr)
}

func runWith(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(append([]string{app.Name}, args...))
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Anything not raised by an action is a flag parsing failure.
	return exitUsage
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "rootgen",
		Usage:     "derive and verify roots of unity over prime fields",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     appFlags,
		Action:    deriveAction,
		Commands: []*cli.Command{
			{
				Name:   "presets",
				Usage:  "list the built-in moduli",
				Action: presetsAction,
			},
			{
				Name:   "backends",
				Usage:  "list the field backends available to --verify-with",
				Action: backendsAction,
			},
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func resolveConfig(c *cli.Context) (*Config, error) {
	cfg, err := LoadConfig(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func deriveAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	logger, err := log.NewWithFormat(c.App.ErrWriter, cfg.LogLevel(), cfg.Log.Format)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	log.SetDefault(logger)

	params, err := cfg.Params()
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	backends, err := cfg.Backends()
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	if cfg.Metrics.Enabled {
		defer func() {
			if merr := dumpMetrics(c.App.ErrWriter, cfg.Metrics.File); merr != nil {
				logger.Warn("Failed to write metrics", "err", merr)
			}
		}()
	}

	opts := []domain.Option{domain.WithLogger(logger), domain.WithBackends(backends...)}
	if cfg.Output.Strict {
		opts = append(opts, domain.WithStrictBackends())
	}
	logger.Debug("Deriving root of unity",
		"bits", params.Modulus.BitLen(),
		"order", params.Order,
		"config", cfg.ConfigFile,
	)
	res, err := domain.NewDeriver(opts...).Derive(params)
	if err != nil {
		code := exitFailure
		if domain.IsConfigError(err) {
			code = exitUsage
		}
		return &exitError{code: code, err: err}
	}

	ed, err := evaldomain.New(res.Table)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	r := newReport(res, ed, cfg.Output.Table)
	if cfg.Metrics.Enabled && cfg.Output.Format == "json" {
		r.Metrics = metrics.DefaultRegistry.Snapshot()
	}
	if err := writeReport(c.App.Writer, cfg.Output.Format, r); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	return nil
}

func dumpMetrics(stderr io.Writer, path string) error {
	if path == "" {
		return metrics.DefaultRegistry.WriteText(stderr, "rootgen")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := metrics.DefaultRegistry.WriteText(f, "rootgen"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func presetsAction(c *cli.Context) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBITS\tTWO-ADICITY\tDESCRIPTION")
	for _, name := range domain.PresetNames() {
		p := domain.Presets[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", p.Name, p.Modulus.BitLen(), twoAdicity(p), p.Description)
	}
	return tw.Flush()
}

// twoAdicity returns the exponent of 2 in p-1, the largest power-of-two
// domain the field supports.
func twoAdicity(p domain.Preset) uint {
	for _, pp := range p.Factorization {
		if pp.Prime.Cmp(big.NewInt(2)) == 0 {
			return pp.Exp
		}
	}
	return 0
}

func backendsAction(c *cli.Context) error {
	_, err := fmt.Fprintln(c.App.Writer, strings.Join(field.Names(), "\n"))
	return err
}
