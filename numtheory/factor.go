package numtheory

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/tuneinsight/lattigo/v6/utils/factorization"
)

// Factorisation errors.
var (
	ErrNonPositive         = errors.New("numtheory: value must be positive")
	ErrFactorizationFailed = errors.New("numtheory: factorization did not converge")
	ErrBadFactorization    = errors.New("numtheory: malformed factorization")
)

// PrimePower is a single prime factor together with its multiplicity.
type PrimePower struct {
	Prime *big.Int
	Exp   uint
}

// Factorization is a list of prime powers sorted by ascending prime.
type Factorization []PrimePower

// Product multiplies the prime powers back together. The empty
// factorization has product 1.
func (f Factorization) Product() *big.Int {
	out := big.NewInt(1)
	pow := new(big.Int)
	for _, pp := range f {
		pow.Exp(pp.Prime, new(big.Int).SetUint64(uint64(pp.Exp)), nil)
		out.Mul(out, pow)
	}
	return out
}

// Primes returns copies of the distinct primes in ascending order.
func (f Factorization) Primes() []*big.Int {
	out := make([]*big.Int, len(f))
	for i, pp := range f {
		out[i] = new(big.Int).Set(pp.Prime)
	}
	return out
}

// Verify checks that f is a complete prime factorization of n: every
// entry is a prime with positive exponent, primes are distinct and
// sorted, and the product equals n.
func (f Factorization) Verify(n *big.Int) error {
	for i, pp := range f {
		if pp.Prime == nil || pp.Exp == 0 {
			return fmt.Errorf("%w: empty entry at index %d", ErrBadFactorization, i)
		}
		if !IsPrime(pp.Prime) {
			return fmt.Errorf("%w: %s is not prime", ErrBadFactorization, pp.Prime)
		}
		if i > 0 && f[i-1].Prime.Cmp(pp.Prime) >= 0 {
			return fmt.Errorf("%w: primes not strictly ascending at index %d", ErrBadFactorization, i)
		}
	}
	if prod := f.Product(); prod.Cmp(n) != 0 {
		return fmt.Errorf("%w: product %s does not equal %s", ErrBadFactorization, prod, n)
	}
	return nil
}

// String renders f as "2^32 * 3 * 11 * ...".
func (f Factorization) String() string {
	if len(f) == 0 {
		return "1"
	}
	parts := make([]string, len(f))
	for i, pp := range f {
		if pp.Exp == 1 {
			parts[i] = pp.Prime.String()
		} else {
			parts[i] = pp.Prime.String() + "^" + strconv.FormatUint(uint64(pp.Exp), 10)
		}
	}
	return strings.Join(parts, " * ")
}

// ParseFactorization builds a Factorization from entries of the form
// "q" or "q^e". Primes may be decimal or 0x-prefixed hex. Repeated
// primes are merged. Primality is not checked here; use Verify.
func ParseFactorization(entries []string) (Factorization, error) {
	acc := newFactorAccumulator()
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		base, expStr, hasExp := strings.Cut(entry, "^")
		q, ok := new(big.Int).SetString(strings.TrimSpace(base), 0)
		if !ok || q.Sign() <= 0 {
			return nil, fmt.Errorf("%w: cannot parse factor %q", ErrBadFactorization, entry)
		}
		exp := uint64(1)
		if hasExp {
			e, err := strconv.ParseUint(strings.TrimSpace(expStr), 10, 32)
			if err != nil || e == 0 {
				return nil, fmt.Errorf("%w: bad exponent in %q", ErrBadFactorization, entry)
			}
			exp = e
		}
		acc.add(q, uint(exp))
	}
	return acc.factorization(), nil
}

// MustParseFactorization is like ParseFactorization but panics on error.
// It is intended for package-level tables of known factorizations.
func MustParseFactorization(entries ...string) Factorization {
	f, err := ParseFactorization(entries)
	if err != nil {
		panic(err)
	}
	return f
}

// Factorize returns the prime factorization of n. Factors below
// smallPrimeBound are removed by trial division; the distinct primes of
// the remaining cofactor come from lattigo's ECM and Pollard rho search,
// and their multiplicities from repeated division.
func Factorize(n *big.Int) (Factorization, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrNonPositive
	}
	acc := newFactorAccumulator()
	m := new(big.Int).Set(n)

	var (
		q   = new(big.Int)
		quo = new(big.Int)
		rem = new(big.Int)
	)
	for _, p := range smallPrimes {
		q.SetUint64(p)
		if m.IsUint64() && p*p > m.Uint64() {
			break
		}
		for {
			quo.QuoRem(m, q, rem)
			if rem.Sign() != 0 {
				break
			}
			acc.add(q, 1)
			m.Set(quo)
		}
	}
	if m.Cmp(bigOne) == 0 {
		return acc.factorization(), nil
	}
	if IsPrime(m) {
		acc.add(m, 1)
		return acc.factorization(), nil
	}

	for _, f := range factorization.GetFactors(new(big.Int).Set(m)) {
		if f.Cmp(bigOne) <= 0 || !IsPrime(f) {
			continue
		}
		for {
			quo.QuoRem(m, f, rem)
			if rem.Sign() != 0 {
				break
			}
			acc.add(f, 1)
			m.Set(quo)
		}
	}
	if m.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: cofactor %s of %s", ErrFactorizationFailed, m, n)
	}
	return acc.factorization(), nil
}

// factorAccumulator collects prime powers keyed by their decimal form.
type factorAccumulator struct {
	exps   map[string]uint
	primes map[string]*big.Int
}

func newFactorAccumulator() *factorAccumulator {
	return &factorAccumulator{
		exps:   make(map[string]uint),
		primes: make(map[string]*big.Int),
	}
}

func (a *factorAccumulator) add(p *big.Int, exp uint) {
	key := p.String()
	if _, ok := a.primes[key]; !ok {
		a.primes[key] = new(big.Int).Set(p)
	}
	a.exps[key] += exp
}

func (a *factorAccumulator) factorization() Factorization {
	out := make(Factorization, 0, len(a.primes))
	for key, p := range a.primes {
		out = append(out, PrimePower{Prime: p, Exp: a.exps[key]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prime.Cmp(out[j].Prime) < 0 })
	return out
}
