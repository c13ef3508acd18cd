package main

import (
	"github.com/urfave/cli/v2"
)

const (
	domainCategory  = "DOMAIN"
	outputCategory  = "OUTPUT"
	loggingCategory = "LOGGING AND METRICS"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	presetFlag = &cli.StringFlag{
		Name:     "preset",
		Usage:    "built-in modulus (bls12-381, bn254, goldilocks, babybear)",
		Category: domainCategory,
	}
	modulusFlag = &cli.StringFlag{
		Name:     "modulus",
		Usage:    "prime modulus p, decimal or 0x-prefixed hex",
		Category: domainCategory,
	}
	orderFlag = &cli.Uint64Flag{
		Name:     "order",
		Usage:    "order N of the root of unity; must divide p-1",
		Category: domainCategory,
	}
	factorsFlag = &cli.StringSliceFlag{
		Name:     "factors",
		Usage:    "prime factorization of p-1 as q or q^e entries, skips factoring",
		Category: domainCategory,
	}
	formatFlag = &cli.StringFlag{
		Name:     "format",
		Usage:    "output format (text, json)",
		Category: outputCategory,
	}
	tableFlag = &cli.BoolFlag{
		Name:     "table",
		Usage:    "print the full power table w^0 .. w^N",
		Category: outputCategory,
	}
	verifyWithFlag = &cli.StringSliceFlag{
		Name:     "verify-with",
		Usage:    "field backends that recompute the table (bigint, uint256, gnark-fr, blst)",
		Category: outputCategory,
	}
	verifyStrictFlag = &cli.BoolFlag{
		Name:     "verify-strict",
		Usage:    "fail when a --verify-with backend does not support the modulus",
		Category: outputCategory,
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "log level 0-5 (0=silent, 5=trace)",
		Category: loggingCategory,
	}
	logLevelFlag = &cli.StringFlag{
		Name:     "log.level",
		Usage:    "log level by name (debug, info, warn, error), overrides --verbosity",
		Category: loggingCategory,
	}
	logFormatFlag = &cli.StringFlag{
		Name:     "log.format",
		Usage:    "log format (text, json)",
		Category: loggingCategory,
	}
	metricsFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "dump metrics in Prometheus text format at exit",
		Category: loggingCategory,
	}
	metricsFileFlag = &cli.StringFlag{
		Name:     "metrics.file",
		Usage:    "write the metrics dump to this file instead of stderr",
		Category: loggingCategory,
	}
)

var appFlags = []cli.Flag{
	configFlag,
	presetFlag,
	modulusFlag,
	orderFlag,
	factorsFlag,
	formatFlag,
	tableFlag,
	verifyWithFlag,
	verifyStrictFlag,
	verbosityFlag,
	logLevelFlag,
	logFormatFlag,
	metricsFlag,
	metricsFileFlag,
}

// applyFlags overrides cfg with every flag set on the command line.
// Choosing a field on the command line also discards field settings of
// the config file that belong to a different modulus.
func applyFlags(c *cli.Context, cfg *Config) {
	if c.IsSet(presetFlag.Name) {
		cfg.Domain.Preset = c.String(presetFlag.Name)
		if !c.IsSet(modulusFlag.Name) {
			cfg.Domain.Modulus = ""
		}
		if !c.IsSet(factorsFlag.Name) {
			cfg.Domain.Factors = nil
		}
	}
	if c.IsSet(modulusFlag.Name) {
		cfg.Domain.Modulus = c.String(modulusFlag.Name)
		if !c.IsSet(factorsFlag.Name) {
			cfg.Domain.Factors = nil
		}
	}
	if c.IsSet(orderFlag.Name) {
		cfg.Domain.Order = c.Uint64(orderFlag.Name)
	}
	if c.IsSet(factorsFlag.Name) {
		cfg.Domain.Factors = c.StringSlice(factorsFlag.Name)
	}
	if c.IsSet(formatFlag.Name) {
		cfg.Output.Format = c.String(formatFlag.Name)
	}
	if c.IsSet(tableFlag.Name) {
		cfg.Output.Table = c.Bool(tableFlag.Name)
	}
	if c.IsSet(verifyWithFlag.Name) {
		cfg.Output.VerifyWith = c.StringSlice(verifyWithFlag.Name)
	}
	if c.IsSet(verifyStrictFlag.Name) {
		cfg.Output.Strict = c.Bool(verifyStrictFlag.Name)
	}
	if c.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = c.Int(verbosityFlag.Name)
	}
	if c.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = c.String(logLevelFlag.Name)
	}
	if c.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = c.String(logFormatFlag.Name)
	}
	if c.IsSet(metricsFlag.Name) {
		cfg.Metrics.Enabled = c.Bool(metricsFlag.Name)
	}
	if c.IsSet(metricsFileFlag.Name) {
		cfg.Metrics.File = c.String(metricsFileFlag.Name)
		cfg.Metrics.Enabled = true
	}
}
