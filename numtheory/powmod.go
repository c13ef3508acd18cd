package numtheory

import (
	"math/big"

	"github.com/holiman/uint256"
)

// PowMod returns base^exp mod m as a new value. When every operand fits in
// 256 bits the computation runs on uint256; otherwise it falls back to
// big.Int.Exp. exp must be non-negative and m positive.
func PowMod(base, exp, m *big.Int) *big.Int {
	if base.Sign() >= 0 && exp.Sign() >= 0 && m.Sign() > 0 {
		b, overB := uint256.FromBig(base)
		e, overE := uint256.FromBig(exp)
		mod, overM := uint256.FromBig(m)
		if !overB && !overE && !overM {
			return PowMod256(b, e, mod).ToBig()
		}
	}
	return new(big.Int).Exp(base, exp, m)
}

// PowMod256 computes base^exp mod m by left-to-right square-and-multiply
// over fixed-width 256-bit words. A zero modulus yields zero, matching
// uint256.MulMod.
func PowMod256(base, exp, m *uint256.Int) *uint256.Int {
	if m.IsZero() || m.IsUint64() && m.Uint64() == 1 {
		return new(uint256.Int)
	}
	b := new(uint256.Int).Mod(base, m)
	result := uint256.NewInt(1)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.MulMod(result, result, m)
		if exp[i/64]>>(uint(i)%64)&1 == 1 {
			result.MulMod(result, b, m)
		}
	}
	return result
}
