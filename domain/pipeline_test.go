package domain

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/eth2030/rootgen/numtheory"
)

var (
	blsR = Presets["bls12-381"].Modulus

	// w = 7^((r-1)/64) mod r, the first of the 64 roots the KZG challenge
	// setup cycles through.
	blsW64, _ = new(big.Int).SetString("45af6345ec055e4d14a1e27164d8fdbd2d967f4be2f951558140d032f0a9ee53", 16)
)

func TestValidateModulus(t *testing.T) {
	primes := []*big.Int{big.NewInt(3), big.NewInt(97), big.NewInt(65537), blsR}
	for _, p := range primes {
		if err := ValidateModulus(p); err != nil {
			t.Errorf("ValidateModulus(%s): %v", p, err)
		}
	}

	bad := []*big.Int{
		nil,
		big.NewInt(-7),
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(91),
		big.NewInt(65536),
		new(big.Int).Add(blsR, big.NewInt(2)),
	}
	for _, p := range bad {
		err := ValidateModulus(p)
		if !errors.Is(err, ErrNotPrime) {
			t.Errorf("ValidateModulus(%v) = %v, want ErrNotPrime", p, err)
		}
		if !IsConfigError(err) {
			t.Errorf("ValidateModulus(%v) error is not a *ConfigError", p)
		}
	}
}

func TestFindPrimitiveRootIsGenerator(t *testing.T) {
	for _, p := range []int64{5, 7, 97, 257, 7681, 12289, 65537, 998244353} {
		pb := big.NewInt(p)
		g, err := FindPrimitiveRoot(pb, nil)
		if err != nil {
			t.Fatalf("FindPrimitiveRoot(%d): %v", p, err)
		}
		f, err := FactorGroupOrder(pb)
		if err != nil {
			t.Fatalf("FactorGroupOrder(%d): %v", p, err)
		}
		for _, e := range numtheory.CofactorExponents(pb, f) {
			if new(big.Int).Exp(g, e, pb).Cmp(bigOne) == 0 {
				t.Errorf("p=%d: g=%s has g^%s == 1", p, g, e)
			}
		}
	}
}

func TestFindPrimitiveRootBLS(t *testing.T) {
	g, err := FindPrimitiveRoot(blsR, Presets["bls12-381"].Factorization)
	if err != nil {
		t.Fatalf("FindPrimitiveRoot: %v", err)
	}
	if g.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("g = %s, want 7", g)
	}
}

func TestFindPrimitiveRootMalformedFactorization(t *testing.T) {
	// Missing the factor 3 of 96.
	_, err := FindPrimitiveRoot(big.NewInt(97), numtheory.MustParseFactorization("2^5"))
	if !errors.Is(err, ErrNoGeneratorFound) {
		t.Fatalf("err = %v, want ErrNoGeneratorFound", err)
	}
	if !errors.Is(err, numtheory.ErrBadFactorization) {
		t.Fatalf("err = %v, want cause ErrBadFactorization", err)
	}
	var ce *ComputationError
	if !errors.As(err, &ce) {
		t.Fatalf("err is %T, want *ComputationError", err)
	}
}

func TestFindPrimitiveRootCompositeModulus(t *testing.T) {
	// 91 = 7 * 13 has no primitive root; the factorization of 90 must not
	// let the search return one anyway.
	for _, f := range []numtheory.Factorization{nil, numtheory.MustParseFactorization("2", "3^2", "5")} {
		_, err := FindPrimitiveRoot(big.NewInt(91), f)
		if !errors.Is(err, ErrNoGeneratorFound) {
			t.Fatalf("factors %v: err = %v, want ErrNoGeneratorFound", f, err)
		}
		if !errors.Is(err, ErrNotPrime) {
			t.Fatalf("factors %v: err = %v, want cause ErrNotPrime", f, err)
		}
	}
}

func TestDeriveRootOfUnityDivisorPrecondition(t *testing.T) {
	p := big.NewInt(97) // p-1 = 96
	g := big.NewInt(5)
	for n := uint64(0); n <= 100; n++ {
		_, err := DeriveRootOfUnity(g, p, n)
		divides := n != 0 && 96%n == 0
		if divides && err != nil {
			t.Errorf("n=%d: unexpected error %v", n, err)
		}
		if !divides && !errors.Is(err, ErrOrderNotDivisor) {
			t.Errorf("n=%d: err = %v, want ErrOrderNotDivisor", n, err)
		}
	}
}

func TestDeriveRootOfUnityBLS(t *testing.T) {
	w, err := DeriveRootOfUnity(big.NewInt(7), blsR, 64)
	if err != nil {
		t.Fatalf("DeriveRootOfUnity: %v", err)
	}
	if w.Cmp(blsW64) != 0 {
		t.Fatalf("w = %#x, want %#x", w, blsW64)
	}
}

func TestDeriveRootOfUnityBLSOrderFive(t *testing.T) {
	// r-1 = 2^32 * 3 * 11 * 19 * ... has no factor 5.
	_, err := DeriveRootOfUnity(big.NewInt(7), blsR, 5)
	if !errors.Is(err, ErrOrderNotDivisor) {
		t.Fatalf("err = %v, want ErrOrderNotDivisor", err)
	}
}

// exactOrderHolds checks w^n == 1 and w^d != 1 for every proper divisor d.
func exactOrderHolds(w, p *big.Int, n uint64) bool {
	if new(big.Int).Exp(w, new(big.Int).SetUint64(n), p).Cmp(bigOne) != 0 {
		return false
	}
	for d := uint64(1); d < n; d++ {
		if n%d == 0 && new(big.Int).Exp(w, new(big.Int).SetUint64(d), p).Cmp(bigOne) == 0 {
			return false
		}
	}
	return true
}

func TestRoundTripExactOrder(t *testing.T) {
	cases := []struct {
		p int64
		n []uint64
	}{
		{97, []uint64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32, 48, 96}},
		{257, []uint64{2, 4, 8, 16, 32, 64, 128, 256}},
		{7681, []uint64{2, 3, 5, 10, 256, 512, 768}},
		{12289, []uint64{3, 1024, 4096, 12288}},
	}
	for _, c := range cases {
		p := big.NewInt(c.p)
		g, err := FindPrimitiveRoot(p, nil)
		if err != nil {
			t.Fatalf("FindPrimitiveRoot(%d): %v", c.p, err)
		}
		for _, n := range c.n {
			w, err := DeriveRootOfUnity(g, p, n)
			if err != nil {
				t.Fatalf("p=%d n=%d: %v", c.p, n, err)
			}
			if !exactOrderHolds(w, p, n) {
				t.Errorf("p=%d n=%d: w=%s does not have exact order", c.p, n, w)
			}
			if _, err := VerifyAndExpand(w, p, n); err != nil {
				t.Errorf("p=%d n=%d: VerifyAndExpand: %v", c.p, n, err)
			}
		}
	}
}

func TestVerifyAndExpandTable(t *testing.T) {
	table, err := VerifyAndExpand(blsW64, blsR, 64)
	if err != nil {
		t.Fatalf("VerifyAndExpand: %v", err)
	}
	if table.Len() != 65 || table.Order() != 64 {
		t.Fatalf("Len = %d, Order = %d, want 65, 64", table.Len(), table.Order())
	}
	if table.At(0).Cmp(bigOne) != 0 || table.At(64).Cmp(bigOne) != 0 {
		t.Fatalf("table[0] = %s, table[64] = %s, want 1, 1", table.At(0), table.At(64))
	}
	if table.At(32).Cmp(bigOne) == 0 {
		t.Fatal("w^32 == 1, order is not 64")
	}
	// w^32 is -1.
	if minusOne := new(big.Int).Sub(blsR, bigOne); table.At(32).Cmp(minusOne) != 0 {
		t.Fatalf("w^32 = %#x, want r-1", table.At(32))
	}
	for i := 0; i < table.Len(); i++ {
		want := new(big.Int).Exp(blsW64, big.NewInt(int64(i)), blsR)
		if table.At(i).Cmp(want) != 0 {
			t.Fatalf("table[%d] = %#x, want %#x", i, table.At(i), want)
		}
	}
}

func TestVerifyAndExpandRejectsWrongOrder(t *testing.T) {
	p := big.NewInt(97)
	tests := []struct {
		name string
		w    int64
		n    uint64
	}{
		{"w^n != 1", 5, 32},
		{"order 16 claimed as 32", 8, 32},
		{"order 2 claimed as 4", 96, 4},
		{"identity claimed as 3", 1, 3},
		{"zero order", 28, 0},
	}
	for _, tt := range tests {
		_, err := VerifyAndExpand(big.NewInt(tt.w), p, tt.n)
		if !errors.Is(err, ErrOrderMismatch) {
			t.Errorf("%s: err = %v, want ErrOrderMismatch", tt.name, err)
		}
		var ve *VerificationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: err is %T, want *VerificationError", tt.name, err)
		}
	}

	_, err := VerifyAndExpand(big.NewInt(8), p, 32)
	if err == nil || !strings.Contains(err.Error(), "order 16") {
		t.Errorf("err = %v, want the actual order 16 reported", err)
	}
}

func TestPowerTableCopies(t *testing.T) {
	table, err := VerifyAndExpand(big.NewInt(28), big.NewInt(97), 32)
	if err != nil {
		t.Fatalf("VerifyAndExpand: %v", err)
	}
	table.At(1).SetInt64(0)
	table.Values()[2].SetInt64(0)
	table.Root().SetInt64(0)
	table.Modulus().SetInt64(0)
	if table.At(1).Int64() != 28 || table.At(2).Int64() != 28*28%97 {
		t.Fatal("table mutated through accessor")
	}
	if table.Root().Int64() != 28 || table.Modulus().Int64() != 97 {
		t.Fatal("root or modulus mutated through accessor")
	}
}

func TestPowerTableHexAndDigest(t *testing.T) {
	table, err := VerifyAndExpand(big.NewInt(28), big.NewInt(97), 32)
	if err != nil {
		t.Fatalf("VerifyAndExpand: %v", err)
	}
	hex := table.Hex()
	if hex[0] != "0x1" || hex[1] != "0x1c" || hex[32] != "0x1" {
		t.Fatalf("Hex() = %v", hex[:3])
	}
	if table.EntryWidth() != 32 {
		t.Fatalf("EntryWidth = %d, want 32", table.EntryWidth())
	}

	other, err := VerifyAndExpand(big.NewInt(69), big.NewInt(97), 32)
	if err != nil {
		t.Fatalf("VerifyAndExpand: %v", err)
	}
	if table.Digest() == other.Digest() {
		t.Fatal("different roots produced the same digest")
	}
	if table.Digest() != table.Digest() {
		t.Fatal("digest is not deterministic")
	}
}

func TestEmptyPowerTable(t *testing.T) {
	var table PowerTable
	if table.Len() != 0 || table.Order() != 0 {
		t.Fatalf("Len = %d, Order = %d", table.Len(), table.Order())
	}
	if table.EntryWidth() != 32 {
		t.Fatalf("EntryWidth = %d, want 32", table.EntryWidth())
	}
	if table.Root() != nil || table.Modulus() != nil {
		t.Fatal("empty table has a root or modulus")
	}
	// Keccak-256 of the empty input.
	want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	digest := table.Digest()
	if got := hexutil.Encode(digest[:]); got != want {
		t.Fatalf("Digest = %s, want %s", got, want)
	}
}
