//go:build blst

// blst-backed power tables over the BLS12-381 scalar field.
//
// Build with: go build -tags blst ./...
// Test with:  go test -tags blst ./field/ -run Blst
package field

import (
	"math/big"

	blst "github.com/supranational/blst/bindings/go"
)

// blstScalarSize is the serialized width of a BLS12-381 scalar.
const blstScalarSize = 32

var blstModulus, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

func init() {
	Register(Blst{})
}

// Blst multiplies scalars through the supranational/blst C library. The
// per-call cgo overhead makes it slow; it exists as an independent
// implementation to check against.
type Blst struct{}

// Name implements Backend.
func (Blst) Name() string { return "blst" }

// Supports implements Backend.
func (Blst) Supports(p *big.Int) bool {
	return p != nil && p.Cmp(blstModulus) == 0
}

// Powers implements Backend.
func (b Blst) Powers(w, p *big.Int, n uint64) ([]*big.Int, error) {
	if !b.Supports(p) {
		return nil, ErrUnsupportedModulus
	}
	if w.Sign() <= 0 || w.Cmp(p) >= 0 {
		return nil, ErrInvalidRoot
	}
	root := new(blst.Scalar).Deserialize(w.FillBytes(make([]byte, blstScalarSize)))
	cur := new(blst.Scalar).Deserialize(big.NewInt(1).FillBytes(make([]byte, blstScalarSize)))
	if root == nil || cur == nil {
		return nil, ErrInvalidRoot
	}

	out := make([]*big.Int, n+1)
	for i := uint64(0); i <= n; i++ {
		out[i] = new(big.Int).SetBytes(cur.Serialize())
		if _, ok := cur.MulAssign(root); !ok {
			return nil, ErrInvalidRoot
		}
	}
	return out, nil
}
