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

package ipfe

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateParams(t *testing.T) {
	p, err := GenerateParams(128, 4, 1, 10, 10)
	assert.NoError(t, err)

	assert.Equal(t, 4, p.L)
	assert.Equal(t, 1<<uint(p.Exp), p.N)
	assert.GreaterOrEqual(t, p.Exp, 6)
	// K = 2*l*bx*by + 1
	assert.Equal(t, int64(2*4*10*10+1), p.K.Int64())
	// sigma ordering: s1 < s2 < s3
	assert.Equal(t, 2*2.0*10, p.S1)
	assert.Less(t, p.S1, p.S2)
	assert.Less(t, p.S2, p.S3)

	mod := p.Q()
	twoN := uint64(1) << uint(p.Exp+1)
	for _, prime := range mod.Primes {
		assert.Equal(t, p.Exp, prime.Exp)
		assert.Equal(t, uint64(1), uint64(prime.Q)%twoN)
	}
	// the scale factor embeds the plaintext below Q
	assert.True(t, mod.QDivK.Cmp(big.NewInt(1)) > 0)
	assert.Equal(t, 0, new(big.Int).Div(mod.Value, p.K).Cmp(mod.QDivK))
}

func TestGenerateParamsBig(t *testing.T) {
	p, err := GenerateParamsBig(128, 2, 1, 5, 5)
	assert.NoError(t, err)

	mod := p.Q()
	assert.True(t, mod.Q.ProbablyPrime(64))
	twoN := new(big.Int).Lsh(big.NewInt(1), uint(p.Exp+1))
	assert.Equal(t, int64(1), new(big.Int).Mod(mod.Q, twoN).Int64())
	// phi^n = -1 mod q
	pow := new(big.Int).Exp(p.QN.Phi, big.NewInt(int64(p.N)), mod.Q)
	assert.Equal(t, 0, pow.Cmp(new(big.Int).Sub(mod.Q, big.NewInt(1))))
}

func TestPrimalSafe(t *testing.T) {
	// tiny ring with a huge modulus is exactly what the primal attack breaks
	assert.False(t, primalSafe(128, 64, 1e27))
	// degenerate block range is vacuously safe
	assert.True(t, primalSafe(13, 64, 1e27))
}

func TestRoundedQuotient(t *testing.T) {
	var tests = []struct {
		x, d, want int64
	}{
		{10, 5, 2},
		{11, 5, 2},
		{13, 5, 3},
		{3, 2, 2},   // 1.5 rounds to even 2
		{5, 2, 2},   // 2.5 rounds to even 2
		{7, 2, 4},   // 3.5 rounds to even 4
		{-3, 2, -2}, // -1.5 rounds to even -2
		{-5, 2, -2}, // -2.5 rounds to even -2
		{-7, 2, -4}, // -3.5 rounds to even -4
		{-11, 5, -2},
		{-13, 5, -3},
		{0, 7, 0},
	}
	for _, test := range tests {
		got := roundedQuotient(big.NewInt(test.x), big.NewInt(test.d))
		assert.Equal(t, test.want, got.Int64(), "%d / %d", test.x, test.d)
	}
}
