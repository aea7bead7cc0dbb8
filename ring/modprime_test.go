/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ring_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/rlwe-ipfe/ring"
)

func TestModPrime_Predicate(t *testing.T) {
	// 257 = 2*128 + 1 and 9 = 3^2 has order 128 modulo 257, so 9^64 = -1.
	p, err := ring.NewModPrime(6, 257, 9)
	assert.NoError(t, err)
	assert.Equal(t, uint32(257), p.Q)

	// 2 has order 16 modulo 257, so 2^64 = 1 != -1.
	_, err = ring.NewModPrime(6, 257, 2)
	assert.Error(t, err)

	// composite modulus
	_, err = ring.NewModPrime(6, 256, 9)
	assert.Error(t, err)

	// 131071 is prime but not 1 mod 128
	_, err = ring.NewModPrime(6, 131071, 3)
	assert.Error(t, err)
}

func TestPrimes_Chain(t *testing.T) {
	for _, exp := range []int{6, 10, 13} {
		qMin := new(big.Int).Lsh(big.NewInt(1), 75)
		primes, product, err := ring.Primes(exp, qMin)
		assert.NoError(t, err)
		assert.True(t, product.Cmp(qMin) > 0)

		twoN := uint64(1) << uint(exp+1)
		seen := map[uint32]bool{}
		expected := big.NewInt(1)
		for _, p := range primes {
			assert.Equal(t, exp, p.Exp)
			assert.Equal(t, uint64(1), uint64(p.Q)%twoN, "prime %d != 1 mod 2n", p.Q)
			assert.False(t, seen[p.Q], "prime %d repeats in the chain", p.Q)
			seen[p.Q] = true
			// re-run the constructor predicate on the found pair
			_, err := ring.NewModPrime(exp, p.Q, p.Phi)
			assert.NoError(t, err)
			expected.Mul(expected, p.QBig())
		}
		assert.Equal(t, 0, product.Cmp(expected))
	}
}

func TestNextModPrimeBig(t *testing.T) {
	qMin := new(big.Int).Lsh(big.NewInt(1), 80)
	p := ring.NextModPrimeBig(9, qMin)
	assert.True(t, p.Q.Cmp(qMin) > 0)
	assert.True(t, p.Q.ProbablyPrime(64))

	twoN := new(big.Int).Lsh(big.NewInt(1), 10)
	rem := new(big.Int).Mod(p.Q, twoN)
	assert.Equal(t, int64(1), rem.Int64(), "q != 1 mod 2n")

	_, err := ring.NewModPrimeBig(9, p.Q, p.Phi)
	assert.NoError(t, err)
}

func TestModulusTables(t *testing.T) {
	primes, _, err := ring.Primes(6, new(big.Int).Lsh(big.NewInt(1), 40))
	assert.NoError(t, err)
	mod, err := ring.NewModulus(6, primes, big.NewInt(101))
	assert.NoError(t, err)

	for i, prime := range mod.Primes {
		q := uint64(prime.Q)
		// phi stored at bit-reversed index 0 is phi^0 = 1
		assert.Equal(t, uint32(1), mod.Phis[i][0])
		assert.Equal(t, uint32(1), mod.PhiInvs[i][0])
		// n * nInv = 1 mod q
		assert.Equal(t, uint64(1), uint64(mod.NInvs[i])*uint64(mod.N)%q)
		// floor(Q/K) mod q matches the big value
		want := new(big.Int).Mod(mod.QDivK, prime.QBig()).Uint64()
		assert.Equal(t, want, uint64(mod.QDivKs[i]))
	}

	// mismatched exponent is rejected
	_, err = ring.NewModulus(7, primes, big.NewInt(101))
	assert.Error(t, err)
}
