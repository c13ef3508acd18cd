package numtheory

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNoPrimitiveRoot is returned when the candidate range is exhausted
// without finding a generator. This cannot happen for a prime modulus with
// a correct factorization of p-1.
var ErrNoPrimitiveRoot = errors.New("numtheory: no primitive root found")

// CofactorExponents returns (p-1)/q for every distinct prime q in f.
func CofactorExponents(p *big.Int, f Factorization) []*big.Int {
	pMinus1 := new(big.Int).Sub(p, bigOne)
	out := make([]*big.Int, len(f))
	for i, pp := range f {
		out[i] = new(big.Int).Quo(pMinus1, pp.Prime)
	}
	return out
}

// IsPrimitiveRoot reports whether g generates (Z/pZ)*. exps must be the
// output of CofactorExponents for p.
func IsPrimitiveRoot(g, p *big.Int, exps []*big.Int) bool {
	if g.Sign() <= 0 || g.Cmp(p) >= 0 {
		return false
	}
	for _, e := range exps {
		if PowMod(g, e, p).Cmp(bigOne) == 0 {
			return false
		}
	}
	return true
}

// PrimitiveRoot returns the smallest primitive root modulo the prime p.
// f must be the prime factorization of p-1; it is verified before the
// search starts. Candidates are tried in ascending order starting at 2.
func PrimitiveRoot(p *big.Int, f Factorization) (*big.Int, error) {
	if p == nil || p.Cmp(bigTwo) <= 0 {
		// p = 2 has the trivial group {1}; there is nothing to search.
		return nil, fmt.Errorf("%w: modulus must be an odd prime", ErrNoPrimitiveRoot)
	}
	if !IsPrime(p) {
		return nil, fmt.Errorf("%w: %s is not prime", ErrNoPrimitiveRoot, p)
	}
	pMinus1 := new(big.Int).Sub(p, bigOne)
	if err := f.Verify(pMinus1); err != nil {
		return nil, err
	}
	exps := CofactorExponents(p, f)
	for g := big.NewInt(2); g.Cmp(p) < 0; g.Add(g, bigOne) {
		if IsPrimitiveRoot(g, p, exps) {
			return g, nil
		}
	}
	return nil, ErrNoPrimitiveRoot
}

// MultiplicativeOrder returns the order of a modulo p, given a multiple n
// of that order (a^n = 1 mod p) and the factorization f of n. Each prime
// of f is divided out of n for as long as a stays a root of unity.
func MultiplicativeOrder(a, p, n *big.Int, f Factorization) *big.Int {
	order := new(big.Int).Set(n)
	quo := new(big.Int)
	rem := new(big.Int)
	for _, pp := range f {
		for i := uint(0); i < pp.Exp; i++ {
			quo.QuoRem(order, pp.Prime, rem)
			if rem.Sign() != 0 || PowMod(a, quo, p).Cmp(bigOne) != 0 {
				break
			}
			order.Set(quo)
		}
	}
	return order
}
