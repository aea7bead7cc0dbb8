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

package ipfe_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/rlwe-ipfe/data"
	"github.com/fentec-project/rlwe-ipfe/ipfe"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

const testSec = 128

// Parameter search is by far the slowest step, so schemes are shared between
// tests with the same meta-parameters.
var schemeCache = map[string]*ipfe.RLWE{}

func testScheme(t *testing.T, l, n int, bx, by int64) *ipfe.RLWE {
	key := fmt.Sprintf("%d-%d-%d-%d", l, n, bx, by)
	if s, ok := schemeCache[key]; ok {
		return s
	}
	s, err := ipfe.Generate(testSec, l, n, bx, by)
	assert.NoError(t, err)
	schemeCache[key] = s
	return s
}

func testPRNG(t *testing.T, seed string) *sample.KeyedPRNG {
	prng, err := sample.NewKeyedPRNG([]byte(seed))
	assert.NoError(t, err)
	return prng
}

// testKeys generates msk and mpk from the given stream.
func testKeys(t *testing.T, s *ipfe.RLWE, prng sample.PRNG) (*ipfe.SecretKey, *ipfe.PublicKey) {
	msk, err := s.GenerateSecretKey(prng)
	assert.NoError(t, err)
	mpk, err := s.GeneratePublicKey(msk, prng)
	assert.NoError(t, err)
	return msk, mpk
}

func TestRLWE_Single(t *testing.T) {
	s := testScheme(t, 4, 1, 10, 10)
	prng := testPRNG(t, "single")
	msk, mpk := testKeys(t, s, prng)

	x := data.Vector{1, 2, 3, 4}
	y := data.Vector{5, 6, 7, 8}

	skY, err := s.DeriveFunctionKey(y, msk)
	assert.NoError(t, err)
	ct, err := s.EncryptSingle(x, mpk, prng)
	assert.NoError(t, err)

	xy, err := s.Decrypt(ct, skY)
	assert.NoError(t, err)
	assert.Len(t, xy, 1)
	assert.Equal(t, int64(70), xy[0].Int64(), "obtained incorrect inner product")
}

func TestRLWE_Multi(t *testing.T) {
	s := testScheme(t, 2, 1, 10, 10)
	prng := testPRNG(t, "multi")
	msk, mpk := testKeys(t, s, prng)

	x := data.Matrix{{1, 2}, {3, 4}, {5, 6}}
	y := data.Vector{1, 1}

	skY, err := s.DeriveFunctionKey(y, msk)
	assert.NoError(t, err)
	ct, err := s.EncryptMulti(x, mpk, prng)
	assert.NoError(t, err)

	xy, err := s.Decrypt(ct, skY)
	assert.NoError(t, err)
	assert.Len(t, xy, 3)
	for i, want := range []int64{3, 7, 11} {
		assert.Equal(t, want, xy[i].Int64(), "obtained incorrect inner product in row %d", i)
	}
}

func TestRLWE_Selector(t *testing.T) {
	s := testScheme(t, 5, 1, 3, 3)
	prng := testPRNG(t, "selector")
	msk, mpk := testKeys(t, s, prng)

	x, err := data.NewRandomVector(5, 3, prng)
	assert.NoError(t, err)
	y := data.Vector{0, 0, 1, 0, 0}

	skY, err := s.DeriveFunctionKey(y, msk)
	assert.NoError(t, err)
	ct, err := s.EncryptSingle(x, mpk, prng)
	assert.NoError(t, err)

	xy, err := s.Decrypt(ct, skY)
	assert.NoError(t, err)
	assert.Equal(t, x[2], xy[0].Int64(), "function key for a unit vector must select the coordinate")
}

func TestRLWE_Negative(t *testing.T) {
	s := testScheme(t, 3, 1, 2, 2)
	prng := testPRNG(t, "negative")
	msk, mpk := testKeys(t, s, prng)

	x := data.Vector{-2, -2, -2}
	y := data.Vector{-1, -1, -1}

	skY, err := s.DeriveFunctionKey(y, msk)
	assert.NoError(t, err)
	ct, err := s.EncryptSingle(x, mpk, prng)
	assert.NoError(t, err)

	xy, err := s.Decrypt(ct, skY)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), xy[0].Int64())
}

func TestRLWE_NoiseBudgetBoundary(t *testing.T) {
	s := testScheme(t, 4, 1, 10, 10)
	prng := testPRNG(t, "boundary")
	msk, mpk := testKeys(t, s, prng)

	l, bx, by := 4, int64(10), int64(10)
	x := data.Matrix{
		data.NewConstantVector(l, bx),
		data.NewConstantVector(l, -bx),
	}
	y := data.NewConstantVector(l, by)

	skY, err := s.DeriveFunctionKey(y, msk)
	assert.NoError(t, err)
	ct, err := s.EncryptMulti(x, mpk, prng)
	assert.NoError(t, err)

	want := int64(l) * bx * by
	xy, err := s.Decrypt(ct, skY)
	assert.NoError(t, err)
	assert.Equal(t, want, xy[0].Int64())
	assert.Equal(t, -want, xy[1].Int64())
}

func TestRLWE_DecryptAll(t *testing.T) {
	s := testScheme(t, 6, 1, 5, 5)
	prng := testPRNG(t, "decrypt-all")
	msk, mpk := testKeys(t, s, prng)

	x, err := data.NewRandomMatrix(8, 6, 5, prng)
	assert.NoError(t, err)
	ct, err := s.EncryptMulti(x, mpk, prng)
	assert.NoError(t, err)

	got, err := s.DecryptAll(ct, msk)
	assert.NoError(t, err)
	assert.Equal(t, x, got, "full decryption must recover the plaintext")

	// single-row full recovery
	ctS, err := s.EncryptSingle(x[0], mpk, prng)
	assert.NoError(t, err)
	gotS, err := s.DecryptAll(ctS, msk)
	assert.NoError(t, err)
	assert.Equal(t, data.Matrix{x[0]}, gotS)
}

func TestRLWE_Deterministic(t *testing.T) {
	s := testScheme(t, 4, 1, 10, 10)
	x := data.Vector{1, 2, 3, 4}

	run := func() (*ipfe.SecretKey, *ipfe.PublicKey, *ipfe.Ciphertext) {
		prng := testPRNG(t, "fixed-coins")
		msk, mpk := testKeys(t, s, prng)
		ct, err := s.EncryptSingle(x, mpk, prng)
		assert.NoError(t, err)
		return msk, mpk, ct
	}

	msk1, mpk1, ct1 := run()
	msk2, mpk2, ct2 := run()
	assert.Equal(t, msk1, msk2, "secret keys differ for the same stream")
	assert.Equal(t, mpk1, mpk2, "public keys differ for the same stream")
	assert.Equal(t, ct1, ct2, "ciphertexts differ for the same stream")
}

func TestRLWE_MalformedInputs(t *testing.T) {
	s := testScheme(t, 4, 1, 10, 10)
	prng := testPRNG(t, "malformed")
	msk, mpk := testKeys(t, s, prng)

	// wrong dimensions
	_, err := s.DeriveFunctionKey(data.Vector{1, 2}, msk)
	assert.Error(t, err)
	_, err = s.EncryptSingle(data.Vector{1}, mpk, prng)
	assert.Error(t, err)
	_, err = s.GeneratePublicKey(&ipfe.SecretKey{}, prng)
	assert.Error(t, err)

	// bound violations
	_, err = s.DeriveFunctionKey(data.Vector{11, 0, 0, 0}, msk)
	assert.Error(t, err)
	_, err = s.EncryptSingle(data.Vector{-11, 0, 0, 0}, mpk, prng)
	assert.Error(t, err)

	// too many rows
	rows := make(data.Matrix, s.Params.N+1)
	for i := range rows {
		rows[i] = data.NewConstantVector(4, 1)
	}
	_, err = s.EncryptMulti(rows, mpk, prng)
	assert.Error(t, err)

	// malformed ciphertext
	skY, err := s.DeriveFunctionKey(data.Vector{1, 1, 1, 1}, msk)
	assert.NoError(t, err)
	_, err = s.Decrypt(&ipfe.Ciphertext{M: 1}, skY)
	assert.Error(t, err)
}
