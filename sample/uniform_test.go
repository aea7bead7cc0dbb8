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

package sample_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/rlwe-ipfe/ring"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

func testChain(t *testing.T) *ring.Modulus {
	primes, _, err := ring.Primes(6, new(big.Int).Lsh(big.NewInt(1), 45))
	assert.NoError(t, err)
	mod, err := ring.NewModulus(6, primes, big.NewInt(11))
	assert.NoError(t, err)
	return mod
}

func TestUniform_Range(t *testing.T) {
	mod := testChain(t)
	prng, err := sample.NewKeyedPRNG([]byte("uniform-range"))
	assert.NoError(t, err)
	sampler := sample.NewUniform(mod, prng)

	for round := 0; round < 100; round++ {
		arr, err := sampler.Sample()
		assert.NoError(t, err)
		for i, prime := range mod.Primes {
			for _, v := range arr[i] {
				// 0 is excluded from the range
				assert.True(t, v >= 1 && v < prime.Q, "sample %d outside [1, q)", v)
			}
		}
	}
}

func TestRandInt64(t *testing.T) {
	prng, err := sample.NewKeyedPRNG([]byte("randint"))
	assert.NoError(t, err)
	seen := map[int64]bool{}
	for i := 0; i < 10000; i++ {
		v, err := sample.RandInt64(prng, -3, 4)
		assert.NoError(t, err)
		assert.True(t, v >= -3 && v <= 3)
		seen[v] = true
	}
	assert.Len(t, seen, 7, "some values of the range never appear")

	_, err = sample.RandInt64(prng, 3, 3)
	assert.Error(t, err)
}

func TestRandBigIntRange(t *testing.T) {
	prng, err := sample.NewKeyedPRNG([]byte("randbig"))
	assert.NoError(t, err)
	origin := big.NewInt(1)
	bound := new(big.Int).Lsh(big.NewInt(1), 70)
	for i := 0; i < 1000; i++ {
		v, err := sample.RandBigIntRange(prng, origin, bound)
		assert.NoError(t, err)
		assert.True(t, v.Cmp(origin) >= 0 && v.Cmp(bound) < 0)
	}
}

func TestKeyedPRNG_Deterministic(t *testing.T) {
	a, err := sample.NewKeyedPRNG([]byte("seed"))
	assert.NoError(t, err)
	b, err := sample.NewKeyedPRNG([]byte("seed"))
	assert.NoError(t, err)

	bufA := make([]byte, 1024)
	bufB := make([]byte, 1024)
	_, err = a.Read(bufA)
	assert.NoError(t, err)
	_, err = b.Read(bufB)
	assert.NoError(t, err)
	assert.Equal(t, bufA, bufB, "same key must give the same stream")

	a.Reset()
	bufC := make([]byte, 1024)
	_, err = a.Read(bufC)
	assert.NoError(t, err)
	assert.Equal(t, bufA, bufC, "reset must rewind the stream")
}
