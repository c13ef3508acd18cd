package evaldomain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/eth2030/rootgen/domain"
)

var one = big.NewInt(1)

func mustDomain(t *testing.T, w, p *big.Int, n uint64) *Domain {
	t.Helper()
	table, err := domain.VerifyAndExpand(w, p, n)
	if err != nil {
		t.Fatalf("VerifyAndExpand(%s, %s, %d): %v", w, p, n, err)
	}
	d, err := New(table)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func blsDomain(t *testing.T, n uint64) *Domain {
	t.Helper()
	r := domain.Presets["bls12-381"].Modulus
	w, err := domain.DeriveRootOfUnity(big.NewInt(7), r, n)
	if err != nil {
		t.Fatalf("DeriveRootOfUnity: %v", err)
	}
	return mustDomain(t, w, r, n)
}

func mulMod(a, b, p *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Mod(out, p)
}

func TestNewEmptyTable(t *testing.T) {
	if _, err := New(domain.PowerTable{}); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("err = %v, want ErrEmptyTable", err)
	}
}

func TestDomainAccessors(t *testing.T) {
	p := big.NewInt(97)
	d := mustDomain(t, big.NewInt(28), p, 32)

	if d.Cardinality() != 32 {
		t.Fatalf("Cardinality = %d, want 32", d.Cardinality())
	}
	if d.Generator().Int64() != 28 {
		t.Fatalf("Generator = %s, want 28", d.Generator())
	}
	if mulMod(d.Generator(), d.GeneratorInv(), p).Cmp(one) != 0 {
		t.Fatal("Generator * GeneratorInv != 1")
	}
	if mulMod(big.NewInt(32), d.CardinalityInv(), p).Cmp(one) != 0 {
		t.Fatal("N * CardinalityInv != 1")
	}

	roots, inv := d.Roots(), d.InverseRoots()
	if len(roots) != 32 || len(inv) != 32 {
		t.Fatalf("len(Roots) = %d, len(InverseRoots) = %d", len(roots), len(inv))
	}
	for i := range roots {
		if mulMod(roots[i], inv[i], p).Cmp(one) != 0 {
			t.Errorf("roots[%d] * inv[%d] != 1", i, i)
		}
		if j, ok := d.Index(roots[i]); !ok || j != i {
			t.Errorf("Index(roots[%d]) = %d, %v", i, j, ok)
		}
	}
	if j, ok := d.Index(big.NewInt(28 + 97)); !ok || j != 1 {
		t.Errorf("Index(28+p) = %d, %v, want 1, true", j, ok)
	}
	if _, ok := d.Index(big.NewInt(0)); ok {
		t.Error("Index(0) found")
	}
	// 5 is a primitive root mod 97, so it lies outside the order-32 subgroup.
	if _, ok := d.Index(big.NewInt(5)); ok {
		t.Error("Index(5) found")
	}

	roots[0].SetInt64(42)
	if d.Roots()[0].Cmp(one) != 0 {
		t.Fatal("domain mutated through Roots")
	}
}

func TestSingletonDomain(t *testing.T) {
	d := mustDomain(t, big.NewInt(1), big.NewInt(97), 1)
	if d.Cardinality() != 1 || d.Generator().Cmp(one) != 0 || d.GeneratorInv().Cmp(one) != 0 {
		t.Fatalf("singleton domain: N=%d g=%s ginv=%s", d.Cardinality(), d.Generator(), d.GeneratorInv())
	}
	br, err := d.BitReversed()
	if err != nil || len(br) != 1 || br[0].Cmp(one) != 0 {
		t.Fatalf("BitReversed = %v, %v", br, err)
	}
}

func TestBitReversed(t *testing.T) {
	// 28 has order 32 mod 97, so 28^4 = 64 has order 8.
	d := mustDomain(t, big.NewInt(64), big.NewInt(97), 8)
	br, err := d.BitReversed()
	if err != nil {
		t.Fatalf("BitReversed: %v", err)
	}
	roots := d.Roots()
	for i, j := range []int{0, 4, 2, 6, 1, 5, 3, 7} {
		if br[i].Cmp(roots[j]) != 0 {
			t.Errorf("br[%d] = %s, want roots[%d] = %s", i, br[i], j, roots[j])
		}
	}
}

func TestNotPowerOfTwo(t *testing.T) {
	p := big.NewInt(97)
	w, err := domain.DeriveRootOfUnity(big.NewInt(5), p, 12)
	if err != nil {
		t.Fatalf("DeriveRootOfUnity: %v", err)
	}
	d := mustDomain(t, w, p, 12)
	if d.Cardinality() != 12 {
		t.Fatalf("Cardinality = %d, want 12", d.Cardinality())
	}
	if _, err := d.BitReversed(); !errors.Is(err, ErrNotPowerOfTwo) {
		t.Errorf("BitReversed err = %v, want ErrNotPowerOfTwo", err)
	}
}

func TestMatchesGnarkDomain(t *testing.T) {
	d := blsDomain(t, 64)
	ref := fft.NewDomain(64)

	gen := ref.Generator.BigInt(new(big.Int))
	i, ok := d.Index(gen)
	if !ok {
		t.Fatalf("gnark generator %#x is not in the domain", gen)
	}
	// Any generator of the order-64 subgroup is w^i with i odd.
	if i%2 == 0 {
		t.Fatalf("gnark generator is w^%d, want an odd power", i)
	}

	if got, want := d.CardinalityInv(), ref.CardinalityInv.BigInt(new(big.Int)); got.Cmp(want) != 0 {
		t.Fatalf("CardinalityInv = %#x, want %#x", got, want)
	}
	if ref.Cardinality != d.Cardinality() {
		t.Fatalf("Cardinality = %d, gnark %d", d.Cardinality(), ref.Cardinality)
	}
}
