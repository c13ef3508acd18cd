// Package domain derives and verifies roots of unity over prime fields:
// the generators of FFT evaluation domains used by polynomial commitment
// schemes such as KZG.
//
// The derivation is a fixed pipeline:
//
//	ValidateModulus    p must be an odd prime
//	FindPrimitiveRoot  smallest generator g of (Z/pZ)*
//	DeriveRootOfUnity  w = g^((p-1)/N) mod p
//	VerifyAndExpand    w has order exactly N; table [w^0 .. w^N]
//
// Deriver runs the stages in order and optionally cross-checks the table
// against independent field backends.
package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/eth2030/rootgen/numtheory"
)

var bigOne = big.NewInt(1)

// ValidateModulus fails with ErrNotPrime unless p is an odd prime.
func ValidateModulus(p *big.Int) error {
	if p == nil {
		return &ConfigError{Kind: ErrNotPrime, Detail: "modulus is unset"}
	}
	if p.Cmp(big.NewInt(3)) < 0 || p.Bit(0) == 0 {
		return &ConfigError{Kind: ErrNotPrime, Detail: fmt.Sprintf("%s is not an odd prime", p)}
	}
	if !numtheory.IsPrime(p) {
		return &ConfigError{Kind: ErrNotPrime, Detail: fmt.Sprintf("%#x is composite", p)}
	}
	return nil
}

// FindPrimitiveRoot returns the smallest primitive root modulo the prime
// p. f is the factorization of p-1; when empty it is computed. A supplied
// factorization that does not multiply out to p-1, or a composite p,
// fails with ErrNoGeneratorFound.
func FindPrimitiveRoot(p *big.Int, f numtheory.Factorization) (*big.Int, error) {
	if p == nil || !numtheory.IsPrime(p) {
		return nil, &ComputationError{
			Kind:  ErrNoGeneratorFound,
			Cause: fmt.Errorf("%w: %v is not prime", ErrNotPrime, p),
		}
	}
	if len(f) == 0 {
		var err error
		if f, err = FactorGroupOrder(p); err != nil {
			return nil, &ComputationError{Kind: ErrNoGeneratorFound, Cause: err}
		}
	}
	g, err := numtheory.PrimitiveRoot(p, f)
	if err != nil {
		return nil, &ComputationError{Kind: ErrNoGeneratorFound, Cause: err}
	}
	return g, nil
}

// FactorGroupOrder returns the prime factorization of p-1.
func FactorGroupOrder(p *big.Int) (numtheory.Factorization, error) {
	return numtheory.Factorize(new(big.Int).Sub(p, bigOne))
}

// DeriveRootOfUnity returns g^((p-1)/n) mod p. It fails with
// ErrOrderNotDivisor when n is zero or does not divide p-1 exactly.
func DeriveRootOfUnity(g, p *big.Int, n uint64) (*big.Int, error) {
	exp, err := cofactor(p, n)
	if err != nil {
		return nil, err
	}
	return numtheory.PowMod(g, exp, p), nil
}

// cofactor returns (p-1)/n, failing unless the division is exact.
func cofactor(p *big.Int, n uint64) (*big.Int, error) {
	if n == 0 {
		return nil, &ConfigError{Kind: ErrOrderNotDivisor, Detail: "order must be positive"}
	}
	pMinus1 := new(big.Int).Sub(p, bigOne)
	exp, rem := new(big.Int).QuoRem(pMinus1, new(big.Int).SetUint64(n), new(big.Int))
	if rem.Sign() != 0 {
		return nil, &ConfigError{
			Kind:   ErrOrderNotDivisor,
			Detail: fmt.Sprintf("%d does not divide p-1 (remainder %s)", n, rem),
		}
	}
	return exp, nil
}

// VerifyAndExpand checks that w has multiplicative order exactly n modulo
// p and returns the table [w^0, w^1, ..., w^n] mod p, built by repeated
// multiplication. It fails with ErrOrderMismatch if w^n != 1 or if
// w^(n/q) == 1 for some prime q dividing n.
func VerifyAndExpand(w, p *big.Int, n uint64) (PowerTable, error) {
	if n == 0 {
		return PowerTable{}, &VerificationError{Kind: ErrOrderMismatch, Detail: "order must be positive"}
	}
	bigN := new(big.Int).SetUint64(n)
	if got := numtheory.PowMod(w, bigN, p); got.Cmp(bigOne) != 0 {
		return PowerTable{}, &VerificationError{
			Kind:   ErrOrderMismatch,
			Detail: fmt.Sprintf("w^%d = %#x, want 1", n, got),
		}
	}

	nf, err := numtheory.Factorize(bigN)
	if err != nil {
		return PowerTable{}, &VerificationError{Kind: ErrOrderMismatch, Detail: "cannot factor order", Cause: err}
	}
	if order := numtheory.MultiplicativeOrder(w, p, bigN, nf); order.Cmp(bigN) != 0 {
		return PowerTable{}, &VerificationError{
			Kind:   ErrOrderMismatch,
			Detail: fmt.Sprintf("w has order %s, a proper divisor of %d", order, n),
		}
	}

	entries := make([]*big.Int, n+1)
	cur := big.NewInt(1)
	for i := range entries {
		entries[i] = new(big.Int).Set(cur)
		cur.Mul(cur, w)
		cur.Mod(cur, p)
	}
	if entries[n].Cmp(bigOne) != 0 {
		return PowerTable{}, &VerificationError{
			Kind:   ErrOrderMismatch,
			Detail: fmt.Sprintf("table entry %d = %#x, want 1", n, entries[n]),
		}
	}
	return PowerTable{
		modulus: new(big.Int).Set(p),
		root:    new(big.Int).Set(w),
		entries: entries,
	}, nil
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
