// Package numtheory provides the number-theoretic primitives needed to
// build evaluation domains over prime fields: primality testing,
// factorisation of p-1, primitive-root search and modular exponentiation.
//
// Arbitrary-precision values use math/big throughout. Primality and the
// splitting of large cofactors come from lattigo's factorization package;
// moduli below 2^256 get a fixed-width fast path backed by holiman/uint256.
package numtheory

import (
	"math/big"
	"sort"

	"github.com/tuneinsight/lattigo/v6/utils/factorization"
)

const (
	// smallPrimeBound is the exclusive upper bound of the trial-division
	// table. Every composite below smallPrimeBound^2 is fully factored by
	// trial division alone.
	smallPrimeBound = 1 << 16
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)

	// smallPrimes lists every prime below smallPrimeBound in ascending order.
	smallPrimes = sieve(smallPrimeBound)
)

// sieve returns all primes strictly below limit using the sieve of
// Eratosthenes.
func sieve(limit int) []uint64 {
	composite := make([]bool, limit)
	primes := make([]uint64, 0, limit/10)
	for i := 2; i < limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, uint64(i))
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// IsPrime reports whether n is prime. Values below smallPrimeBound are
// answered from the sieve; larger values use lattigo's Baillie-PSW test.
// Nil, zero and negative inputs are not prime.
func IsPrime(n *big.Int) bool {
	if n == nil || n.Sign() <= 0 {
		return false
	}
	if n.IsUint64() && n.Uint64() < smallPrimeBound {
		v := n.Uint64()
		i := sort.Search(len(smallPrimes), func(i int) bool { return smallPrimes[i] >= v })
		return i < len(smallPrimes) && smallPrimes[i] == v
	}
	return factorization.IsPrime(n)
}
