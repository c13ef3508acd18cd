package field

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint256 multiplies incrementally on fixed-width 256-bit integers. It
// handles any modulus below 2^256.
type Uint256 struct{}

// Name implements Backend.
func (Uint256) Name() string { return "uint256" }

// Supports implements Backend.
func (Uint256) Supports(p *big.Int) bool {
	return p != nil && p.Cmp(big.NewInt(1)) > 0 && p.BitLen() <= 256
}

// Powers implements Backend.
func (Uint256) Powers(w, p *big.Int, n uint64) ([]*big.Int, error) {
	if w.Sign() < 0 || w.Cmp(p) >= 0 {
		return nil, ErrInvalidRoot
	}
	mod, overflow := uint256.FromBig(p)
	if overflow {
		return nil, ErrUnsupportedModulus
	}
	root, _ := uint256.FromBig(w)

	out := make([]*big.Int, n+1)
	cur := uint256.NewInt(1)
	for i := uint64(0); i <= n; i++ {
		out[i] = cur.ToBig()
		cur.MulMod(cur, root, mod)
	}
	return out, nil
}
