package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// PowerTable is the read-only sequence [w^0, w^1, ..., w^N] mod p. Both
// the first and the last entry equal 1. Accessors hand out copies so the
// table cannot be mutated by callers. The zero PowerTable is empty.
type PowerTable struct {
	modulus *big.Int
	root    *big.Int
	entries []*big.Int
}

// Len returns the number of entries, N+1.
func (t PowerTable) Len() int { return len(t.entries) }

// Order returns N, the order of the root.
func (t PowerTable) Order() uint64 {
	if len(t.entries) == 0 {
		return 0
	}
	return uint64(len(t.entries) - 1)
}

// At returns a copy of w^i mod p. It panics if i is out of range.
func (t PowerTable) At(i int) *big.Int {
	return new(big.Int).Set(t.entries[i])
}

// Root returns a copy of w, or nil for an empty table.
func (t PowerTable) Root() *big.Int { return copyInt(t.root) }

// Modulus returns a copy of p, or nil for an empty table.
func (t PowerTable) Modulus() *big.Int { return copyInt(t.modulus) }

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Values returns copies of all entries in order.
func (t PowerTable) Values() []*big.Int {
	out := make([]*big.Int, len(t.entries))
	for i, v := range t.entries {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

// Hex returns every entry as a 0x-prefixed hex string.
func (t PowerTable) Hex() []string {
	out := make([]string, len(t.entries))
	for i, v := range t.entries {
		out[i] = hexutil.EncodeBig(v)
	}
	return out
}

// EntryWidth is the fixed big-endian width, in bytes, used by Digest: the
// byte length of p, but never less than 32.
func (t PowerTable) EntryWidth() int {
	if t.modulus == nil {
		return 32
	}
	w := (t.modulus.BitLen() + 7) / 8
	if w < 32 {
		w = 32
	}
	return w
}

// Digest returns the Keccak-256 hash of all entries, each encoded
// big-endian and left-padded to EntryWidth bytes. It pins a table so a
// consumer can detect any change of generator convention.
func (t PowerTable) Digest() [32]byte {
	h := sha3.NewLegacyKeccak256()
	buf := make([]byte, t.EntryWidth())
	for _, v := range t.entries {
		h.Write(v.FillBytes(buf))
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
