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

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/data"
	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

// RLWEBig is an instance of the scheme over a single prime of arbitrary bit
// length. It computes the same objects as RLWE with plain residues in place
// of CRT tables.
type RLWEBig struct {
	Params *ParamsBig
}

// NewRLWEBig configures an instance of the scheme with the given parameters.
func NewRLWEBig(params *ParamsBig) *RLWEBig {
	return &RLWEBig{Params: params}
}

// GenerateBig configures an instance of the scheme with a fresh parameter
// set satisfying the constraints, see GenerateParamsBig.
func GenerateBig(sec, l, n int, bx, by int64) (*RLWEBig, error) {
	params, err := GenerateParamsBig(sec, l, n, bx, by)
	if err != nil {
		return nil, err
	}
	return NewRLWEBig(params), nil
}

// GenerateSecretKey samples the master secret key.
func (s *RLWEBig) GenerateSecretKey(prng sample.PRNG) (*SecretKeyBig, error) {
	sampler := sample.NewNormalBig(s.Params.Q(), s.Params.S1, prng)
	sk := make([][]*big.Int, s.Params.L)
	for i := range sk {
		skI, err := sampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "secret key generation failed")
		}
		sk[i] = skI
	}
	return &SecretKeyBig{SK: sk}, nil
}

// GeneratePublicKey derives the master public key from msk.
func (s *RLWEBig) GeneratePublicKey(msk *SecretKeyBig, prng sample.PRNG) (*PublicKeyBig, error) {
	if err := msk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master secret key")
	}
	mod := s.Params.Q()
	a, err := sample.NewUniformBig(mod, prng).Sample()
	if err != nil {
		return nil, errors.Wrap(err, "public key generation failed")
	}
	sampler := sample.NewNormalBig(mod, s.Params.S1, prng)
	pk := make([][]*big.Int, s.Params.L)
	for i := range pk {
		e, err := sampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "public key generation failed")
		}
		mskNTT := ring.ForwardNTTBigCopy(msk.SK[i], mod)
		ring.ForwardNTTBig(e, mod)
		pk[i] = ring.VecPointMulBig(a, mskNTT, mod)
		ring.VecAddBigAssign(pk[i], e, mod)
	}
	return &PublicKeyBig{A: a, PK: pk}, nil
}

// DeriveFunctionKey derives the secret function key for the vector y.
func (s *RLWEBig) DeriveFunctionKey(y data.Vector, msk *SecretKeyBig) (*FunctionKeyBig, error) {
	if !y.CheckDims(s.Params.L) {
		return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid y")
	}
	if err := y.CheckBound(s.Params.By); err != nil {
		return nil, errors.Wrap(err, "invalid y")
	}
	if err := msk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master secret key")
	}
	mod := s.Params.Q()
	yB := make([]*big.Int, s.Params.L)
	for i, v := range y {
		yB[i] = new(big.Int).Mod(big.NewInt(v), mod.Q)
	}
	skY := make([]*big.Int, s.Params.N)
	for j := range skY {
		skY[j] = new(big.Int)
	}
	for i := 0; i < s.Params.L; i++ {
		for j := 0; j < s.Params.N; j++ {
			mac := ring.MulBig(yB[i], msk.SK[i][j], mod.Q)
			skY[j] = ring.AddBig(skY[j], mac, mod.Q)
		}
	}
	return &FunctionKeyBig{Y: yB, SKY: skY}, nil
}

// EncryptSingle encrypts the vector x as a one-row ciphertext.
func (s *RLWEBig) EncryptSingle(x data.Vector, mpk *PublicKeyBig, prng sample.PRNG) (*CiphertextBig, error) {
	if !x.CheckDims(s.Params.L) {
		return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid x")
	}
	return s.EncryptMulti(data.Matrix{x}, mpk, prng)
}

// EncryptMulti encrypts up to n rows of length l simultaneously under shared
// encryption randomness r.
func (s *RLWEBig) EncryptMulti(x data.Matrix, mpk *PublicKeyBig, prng sample.PRNG) (*CiphertextBig, error) {
	if x.Rows() > s.Params.N {
		return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid x")
	}
	if err := x.CheckBound(s.Params.Bx); err != nil {
		return nil, errors.Wrap(err, "invalid x")
	}
	if err := mpk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master public key")
	}
	mod := s.Params.Q()

	// xB[i][k] = x[k][i] * floor(Q/K) mod q; rows beyond x stay zero.
	xB := make([][]*big.Int, s.Params.L)
	for i := range xB {
		xB[i] = make([]*big.Int, s.Params.N)
		for k := range xB[i] {
			xB[i][k] = new(big.Int)
		}
	}
	for k, row := range x {
		if !row.CheckDims(s.Params.L) {
			return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid x")
		}
		for i := 0; i < s.Params.L; i++ {
			v := new(big.Int).Mod(big.NewInt(row[i]), mod.Q)
			xB[i][k] = ring.MulBig(v, mod.QDivK, mod.Q)
		}
	}

	coinSampler := sample.NewNormalBig(mod, s.Params.S2, prng)
	r, err := coinSampler.Sample()
	if err != nil {
		return nil, errors.Wrap(err, "encryption failed")
	}
	f, err := coinSampler.Sample()
	if err != nil {
		return nil, errors.Wrap(err, "encryption failed")
	}
	ring.ForwardNTTBig(r, mod)
	ct0 := ring.VecPointMulBig(mpk.A, r, mod)
	ring.InverseNTTBig(ct0, mod)
	ring.VecAddBigAssign(ct0, f, mod)

	noiseSampler := sample.NewNormalBig(mod, s.Params.S3, prng)
	ct := make([][]*big.Int, s.Params.L)
	for i := range ct {
		f, err = noiseSampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "encryption failed")
		}
		ct[i] = ring.VecPointMulBig(mpk.PK[i], r, mod)
		ring.InverseNTTBig(ct[i], mod)
		ring.VecAddBigAssign(ct[i], f, mod)
		ring.VecAddBigAssign(ct[i], xB[i], mod)
	}
	return &CiphertextBig{M: x.Rows(), CT0: ct0, CT: ct}, nil
}

// Decrypt recovers the inner products <x_k, y> for every encrypted row k.
func (s *RLWEBig) Decrypt(ct *CiphertextBig, skY *FunctionKeyBig) ([]*big.Int, error) {
	if err := ct.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext")
	}
	if err := skY.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid function key")
	}
	mod := s.Params.Q()
	dY := make([]*big.Int, s.Params.N)
	for j := range dY {
		dY[j] = new(big.Int)
	}
	for i := 0; i < s.Params.L; i++ {
		for j := 0; j < ct.M; j++ {
			mac := ring.MulBig(ct.CT[i][j], skY.Y[i], mod.Q)
			dY[j] = ring.AddBig(dY[j], mac, mod.Q)
		}
	}
	c0sy := ring.PolyNTTMulBig(ct.CT0, skY.SKY, mod)
	ring.VecSubBigAssign(dY, c0sy, mod)

	halfQ := new(big.Int).Rsh(mod.Q, 1)
	xyR := make([]*big.Int, ct.M)
	for i := 0; i < ct.M; i++ {
		if dY[i].Cmp(halfQ) >= 0 {
			dY[i].Sub(dY[i], mod.Q)
		}
		xyR[i] = roundedQuotient(dY[i], mod.QDivK)
	}
	return xyR, nil
}

// DecryptAll recovers the whole plaintext matrix x from ct using the master
// secret key.
func (s *RLWEBig) DecryptAll(ct *CiphertextBig, msk *SecretKeyBig) (data.Matrix, error) {
	if err := ct.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext")
	}
	if err := msk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master secret key")
	}
	mod := s.Params.Q()
	d := make([][]*big.Int, s.Params.L)
	for i := 0; i < s.Params.L; i++ {
		c0s := ring.PolyNTTMulBig(ct.CT0, msk.SK[i], mod)
		d[i] = ring.VecSubBig(ct.CT[i], c0s, mod)
	}
	halfQ := new(big.Int).Rsh(mod.Q, 1)
	xR := make(data.Matrix, ct.M)
	for i := 0; i < ct.M; i++ {
		xR[i] = make(data.Vector, s.Params.L)
		for j := 0; j < s.Params.L; j++ {
			if d[j][i].Cmp(halfQ) >= 0 {
				d[j][i].Sub(d[j][i], mod.Q)
			}
			v := roundedQuotient(d[j][i], mod.QDivK)
			if !v.IsInt64() {
				return nil, errors.Wrap(internal.ErrDecryptOutOfRange, "full decryption failed")
			}
			xR[i][j] = v.Int64()
		}
	}
	return xR, nil
}
