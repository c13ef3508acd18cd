// Package evaldomain exposes a verified power table as a multiplicative
// evaluation domain {w^0, ..., w^(N-1)}: the roots, their inverses, the
// bit-reversed ordering used by radix-2 transforms and element lookup.
package evaldomain

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/rootgen/domain"
)

// Errors returned by New and BitReversed.
var (
	ErrEmptyTable    = errors.New("evaldomain: power table is empty")
	ErrNotPowerOfTwo = errors.New("evaldomain: cardinality is not a power of two")
)

// Domain is the cyclic subgroup generated by an N-th root of unity w.
type Domain struct {
	modulus *big.Int
	roots   []*big.Int // w^0 .. w^(N-1)
	index   map[string]int

	cardinalityInv *big.Int
}

// New returns the domain of the table's root. The table must come from
// domain.VerifyAndExpand so that its entries are pairwise distinct.
func New(table domain.PowerTable) (*Domain, error) {
	if table.Len() < 2 {
		return nil, ErrEmptyTable
	}
	p := table.Modulus()
	values := table.Values()
	roots := values[:len(values)-1]

	index := make(map[string]int, len(roots))
	for i, r := range roots {
		index[hexutil.EncodeBig(r)] = i
	}
	n := new(big.Int).SetUint64(table.Order())
	return &Domain{
		modulus:        p,
		roots:          roots,
		index:          index,
		cardinalityInv: new(big.Int).ModInverse(n, p),
	}, nil
}

// Cardinality returns N.
func (d *Domain) Cardinality() uint64 { return uint64(len(d.roots)) }

// Modulus returns a copy of p.
func (d *Domain) Modulus() *big.Int { return new(big.Int).Set(d.modulus) }

// Generator returns w.
func (d *Domain) Generator() *big.Int {
	if len(d.roots) == 1 {
		return big.NewInt(1)
	}
	return new(big.Int).Set(d.roots[1])
}

// GeneratorInv returns w^-1, which is w^(N-1).
func (d *Domain) GeneratorInv() *big.Int {
	return new(big.Int).Set(d.roots[(len(d.roots)-1)%len(d.roots)])
}

// CardinalityInv returns N^-1 mod p.
func (d *Domain) CardinalityInv() *big.Int { return new(big.Int).Set(d.cardinalityInv) }

// Roots returns [w^0, ..., w^(N-1)].
func (d *Domain) Roots() []*big.Int { return copyAll(d.roots) }

// InverseRoots returns [w^0, w^-1, ..., w^-(N-1)]. Since w^-i = w^(N-i),
// this is the root array reversed after index 0.
func (d *Domain) InverseRoots() []*big.Int {
	n := len(d.roots)
	out := make([]*big.Int, n)
	out[0] = new(big.Int).Set(d.roots[0])
	for i := 1; i < n; i++ {
		out[i] = new(big.Int).Set(d.roots[n-i])
	}
	return out
}

// BitReversed returns the roots permuted so that position i holds
// w^rev(i), where rev reverses the low log2(N) bits of i.
func (d *Domain) BitReversed() ([]*big.Int, error) {
	n := len(d.roots)
	if n&(n-1) != 0 {
		return nil, ErrNotPowerOfTwo
	}
	out := make([]*big.Int, n)
	shift := 64 - uint(bits.TrailingZeros(uint(n)))
	for i := range out {
		j := 0
		if n > 1 {
			j = int(bits.Reverse64(uint64(i)) >> shift)
		}
		out[i] = new(big.Int).Set(d.roots[j])
	}
	return out, nil
}

// Index returns i such that x = w^i, or false if x is not in the domain.
func (d *Domain) Index(x *big.Int) (int, bool) {
	if x == nil {
		return 0, false
	}
	r := new(big.Int).Mod(x, d.modulus)
	i, ok := d.index[hexutil.EncodeBig(r)]
	return i, ok
}

func copyAll(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}
