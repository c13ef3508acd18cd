package domain

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/eth2030/rootgen/numtheory"
)

// DefaultOrder is the evaluation-domain size used when none is configured.
const DefaultOrder = 64

// DefaultPreset names the preset used when no modulus is configured.
const DefaultPreset = "bls12-381"

// Params configures a derivation.
type Params struct {
	// Modulus is the prime p.
	Modulus *big.Int

	// Order is the requested order N of the root of unity.
	Order uint64

	// Factorization optionally supplies the prime factorization of p-1.
	// When empty it is computed.
	Factorization numtheory.Factorization
}

// Preset is a well-known prime field together with the factorization of
// its multiplicative group order.
type Preset struct {
	Name          string
	Description   string
	Modulus       *big.Int
	Factorization numtheory.Factorization
}

// Params returns derivation parameters for the preset with the given order.
func (p Preset) Params(order uint64) Params {
	return Params{
		Modulus:       new(big.Int).Set(p.Modulus),
		Order:         order,
		Factorization: p.Factorization,
	}
}

// Presets maps preset names to their fields.
var Presets = map[string]Preset{
	"bls12-381": {
		Name:        "bls12-381",
		Description: "BLS12-381 scalar field (KZG / EIP-4844)",
		Modulus:     mustParseModulus("0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"),
		Factorization: numtheory.MustParseFactorization(
			"2^32", "3", "11", "19", "10177", "125527", "859267", "906349^2",
			"2508409", "2529403", "52437899", "254760293^2",
		),
	},
	"bn254": {
		Name:        "bn254",
		Description: "BN254 scalar field",
		Modulus:     mustParseModulus("0x30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001"),
		Factorization: numtheory.MustParseFactorization(
			"2^28", "3^2", "13", "29", "983", "11003", "237073", "405928799",
			"1670836401704629", "13818364434197438864469338081",
		),
	},
	"goldilocks": {
		Name:          "goldilocks",
		Description:   "Goldilocks field 2^64 - 2^32 + 1",
		Modulus:       mustParseModulus("0xffffffff00000001"),
		Factorization: numtheory.MustParseFactorization("2^32", "3", "5", "17", "257", "65537"),
	},
	"babybear": {
		Name:          "babybear",
		Description:   "BabyBear field 2^31 - 2^27 + 1",
		Modulus:       mustParseModulus("0x78000001"),
		Factorization: numtheory.MustParseFactorization("2^27", "3", "5"),
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset. Matching is case-insensitive.
func LookupPreset(name string) (Preset, error) {
	p, ok := Presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("domain: unknown preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// DefaultParams returns the BLS12-381 scalar field with order 64.
func DefaultParams() Params {
	return Presets[DefaultPreset].Params(DefaultOrder)
}

// ParseModulus parses a decimal or 0x-prefixed hexadecimal integer.
func ParseModulus(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("domain: cannot parse modulus %q", s)
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("domain: modulus must be positive, got %s", v)
	}
	return v, nil
}

func mustParseModulus(s string) *big.Int {
	v, err := ParseModulus(s)
	if err != nil {
		panic(err)
	}
	return v
}
