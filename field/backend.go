// Package field provides interchangeable backends that recompute the
// power table [w^0, w^1, ..., w^n] mod p. The domain package uses them to
// cross-check the table produced by its own incremental multiplication.
package field

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
)

// Errors returned by backends and CrossCheck.
var (
	ErrUnsupportedModulus = errors.New("field: modulus not supported by backend")
	ErrTableMismatch      = errors.New("field: power table mismatch")
	ErrUnknownBackend     = errors.New("field: unknown backend")
	ErrInvalidRoot        = errors.New("field: root is not a valid field element")
)

// Backend recomputes power tables over a prime field.
type Backend interface {
	// Name returns the identifier used to select the backend.
	Name() string

	// Supports reports whether the backend can operate modulo p.
	Supports(p *big.Int) bool

	// Powers returns [w^0, ..., w^n] mod p.
	Powers(w, p *big.Int, n uint64) ([]*big.Int, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Backend)
)

// Register makes a backend available to Lookup. Registering a name twice
// replaces the earlier backend.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Name()] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(BigInt{})
	Register(Uint256{})
	Register(FrBLS12381{})
}

// CrossCheck recomputes the powers of w with b and compares them to want,
// which must hold w^0 .. w^n for n = len(want)-1.
func CrossCheck(b Backend, w, p *big.Int, want []*big.Int) error {
	if len(want) == 0 {
		return fmt.Errorf("%w: empty table", ErrTableMismatch)
	}
	if !b.Supports(p) {
		return fmt.Errorf("%w: %s", ErrUnsupportedModulus, b.Name())
	}
	got, err := b.Powers(w, p, uint64(len(want)-1))
	if err != nil {
		return fmt.Errorf("field: %s: %w", b.Name(), err)
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: %s returned %d entries, want %d", ErrTableMismatch, b.Name(), len(got), len(want))
	}
	for i := range want {
		if got[i].Cmp(want[i]) != 0 {
			return fmt.Errorf("%w: %s differs at index %d", ErrTableMismatch, b.Name(), i)
		}
	}
	return nil
}

// BigInt computes every entry independently as w^i mod p with
// big.Int.Exp. It is slower than incremental multiplication, which is
// what makes it a useful cross-check.
type BigInt struct{}

// Name implements Backend.
func (BigInt) Name() string { return "bigint" }

// Supports implements Backend. Any modulus greater than one is accepted.
func (BigInt) Supports(p *big.Int) bool { return p != nil && p.Cmp(big.NewInt(1)) > 0 }

// Powers implements Backend.
func (BigInt) Powers(w, p *big.Int, n uint64) ([]*big.Int, error) {
	out := make([]*big.Int, n+1)
	e := new(big.Int)
	for i := uint64(0); i <= n; i++ {
		e.SetUint64(i)
		out[i] = new(big.Int).Exp(w, e, p)
	}
	return out, nil
}
