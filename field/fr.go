package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FrBLS12381 multiplies in Montgomery form using gnark-crypto's BLS12-381
// scalar field. It only supports p equal to the BLS12-381 group order r.
type FrBLS12381 struct{}

// Name implements Backend.
func (FrBLS12381) Name() string { return "gnark-fr" }

// Supports implements Backend.
func (FrBLS12381) Supports(p *big.Int) bool {
	return p != nil && p.Cmp(fr.Modulus()) == 0
}

// Powers implements Backend.
func (b FrBLS12381) Powers(w, p *big.Int, n uint64) ([]*big.Int, error) {
	if !b.Supports(p) {
		return nil, ErrUnsupportedModulus
	}
	if w.Sign() < 0 || w.Cmp(p) >= 0 {
		return nil, ErrInvalidRoot
	}
	var root, cur fr.Element
	root.SetBigInt(w)
	cur.SetOne()

	out := make([]*big.Int, n+1)
	for i := uint64(0); i <= n; i++ {
		out[i] = cur.BigInt(new(big.Int))
		cur.Mul(&cur, &root)
	}
	return out, nil
}
