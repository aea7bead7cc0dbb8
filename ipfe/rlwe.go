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

// Package ipfe implements a selectively secure inner product functional
// encryption scheme based on the ring learning with errors assumption. The
// scheme encrypts a vector or matrix x and derives function keys for vectors
// y so that a decryptor learns x^T * y and nothing else about x.
//
// Based on "Efficient Lattice-Based Inner-Product Functional Encryption"
// by Jose Maria Bermudo Mera, Angshuman Karmakar, Tilen Marc, and
// Azam Soleimanian, see https://eprint.iacr.org/2021/046.
//
// Two variants compute the same objects: RLWE over a chain of word-sized NTT
// primes (the performance path) and RLWEBig over a single prime of arbitrary
// bit length.
package ipfe

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/data"
	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

// RLWE is an instance of the scheme over a word-sized prime chain.
type RLWE struct {
	Params *Params
}

// NewRLWE configures an instance of the scheme with the given parameters.
func NewRLWE(params *Params) *RLWE {
	return &RLWE{Params: params}
}

// Generate configures an instance of the scheme with a fresh parameter set
// satisfying the constraints, see GenerateParams.
func Generate(sec, l, n int, bx, by int64) (*RLWE, error) {
	params, err := GenerateParams(sec, l, n, bx, by)
	if err != nil {
		return nil, err
	}
	return NewRLWE(params), nil
}

// GenerateSecretKey samples the master secret key: for each of the l slots a
// polynomial drawn from the discrete Gaussian with deviation sigma1.
func (s *RLWE) GenerateSecretKey(prng sample.PRNG) (*SecretKey, error) {
	sampler := sample.NewNormal(s.Params.Q(), s.Params.S1, prng)
	sk := make([][][]uint32, s.Params.L)
	for i := range sk {
		skI, err := sampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "secret key generation failed")
		}
		sk[i] = skI
	}
	return &SecretKey{SK: sk}, nil
}

// GeneratePublicKey derives the master public key from msk: a uniform a in
// NTT representation and pk_i = a .* NTT(sk_i) + NTT(e_i) per slot.
func (s *RLWE) GeneratePublicKey(msk *SecretKey, prng sample.PRNG) (*PublicKey, error) {
	if err := msk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master secret key")
	}
	mod := s.Params.Q()
	a, err := sample.NewUniform(mod, prng).Sample()
	if err != nil {
		return nil, errors.Wrap(err, "public key generation failed")
	}
	sampler := sample.NewNormal(mod, s.Params.S1, prng)
	pk := make([][][]uint32, s.Params.L)
	for i := range pk {
		e, err := sampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "public key generation failed")
		}
		pk[i] = make([][]uint32, len(mod.Primes))
		for j := range mod.Primes {
			mskNTT := ring.ForwardNTTCopy(msk.SK[i][j], mod, j)
			ring.ForwardNTT(e[j], mod, j)
			pk[i][j] = ring.VecPointMul(a[j], mskNTT, mod, j)
			ring.VecAddAssign(pk[i][j], e[j], mod, j)
		}
	}
	return &PublicKey{A: a, PK: pk}, nil
}

// DeriveFunctionKey derives the secret function key for the vector y: the CRT
// encoding of y together with skY = sum_i y_i * sk_i per prime, in coefficient
// representation.
func (s *RLWE) DeriveFunctionKey(y data.Vector, msk *SecretKey) (*FunctionKey, error) {
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
	yCRT := ring.VecForwardCRT(y, mod)
	skY := make([][]uint32, len(mod.Primes))
	for j, prime := range mod.Primes {
		q := prime.Q
		skY[j] = make([]uint32, s.Params.N)
		for i := 0; i < s.Params.L; i++ {
			for k := 0; k < s.Params.N; k++ {
				mac := ring.Mul(yCRT[j][i], msk.SK[i][j][k], q)
				skY[j][k] = ring.Add(skY[j][k], mac, q)
			}
		}
	}
	return &FunctionKey{Y: yCRT, SKY: skY}, nil
}

// EncryptSingle encrypts the vector x as a one-row ciphertext.
func (s *RLWE) EncryptSingle(x data.Vector, mpk *PublicKey, prng sample.PRNG) (*Ciphertext, error) {
	if !x.CheckDims(s.Params.L) {
		return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid x")
	}
	return s.EncryptMulti(data.Matrix{x}, mpk, prng)
}

// EncryptMulti encrypts up to n rows of length l simultaneously. All rows
// share the same encryption randomness r, which is what ties row k of the
// ciphertext to the k-th recovered inner product.
func (s *RLWE) EncryptMulti(x data.Matrix, mpk *PublicKey, prng sample.PRNG) (*Ciphertext, error) {
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

	// xCRT[i][j][k] = x[k][i] * floor(Q/K) mod q_j; rows beyond x stay zero.
	xCRT := make([][][]uint32, s.Params.L)
	for i := range xCRT {
		xCRT[i] = make([][]uint32, len(mod.Primes))
		for j := range xCRT[i] {
			xCRT[i][j] = make([]uint32, s.Params.N)
		}
	}
	for k, row := range x {
		if !row.CheckDims(s.Params.L) {
			return nil, errors.Wrap(internal.ErrInvalidDimensions, "invalid x")
		}
		rowCRT := ring.VecForwardCRT(row, mod)
		for j, prime := range mod.Primes {
			for i := 0; i < s.Params.L; i++ {
				xCRT[i][j][k] = ring.Mul(rowCRT[j][i], mod.QDivKs[j], prime.Q)
			}
		}
	}

	coinSampler := sample.NewNormal(mod, s.Params.S2, prng)
	r, err := coinSampler.Sample()
	if err != nil {
		return nil, errors.Wrap(err, "encryption failed")
	}
	f, err := coinSampler.Sample()
	if err != nil {
		return nil, errors.Wrap(err, "encryption failed")
	}
	ct0 := make([][]uint32, len(mod.Primes))
	for i := range mod.Primes {
		ring.ForwardNTT(r[i], mod, i)
		ct0[i] = ring.VecPointMul(mpk.A[i], r[i], mod, i)
		ring.InverseNTT(ct0[i], mod, i)
		ring.VecAddAssign(ct0[i], f[i], mod, i)
	}

	noiseSampler := sample.NewNormal(mod, s.Params.S3, prng)
	ct := make([][][]uint32, s.Params.L)
	for i := range ct {
		f, err = noiseSampler.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "encryption failed")
		}
		ct[i] = make([][]uint32, len(mod.Primes))
		for j := range mod.Primes {
			ct[i][j] = ring.VecPointMul(mpk.PK[i][j], r[j], mod, j)
			ring.InverseNTT(ct[i][j], mod, j)
			ring.VecAddAssign(ct[i][j], f[j], mod, j)
			ring.VecAddAssign(ct[i][j], xCRT[i][j], mod, j)
		}
	}
	return &Ciphertext{M: x.Rows(), CT0: ct0, CT: ct}, nil
}

// Decrypt recovers the inner products <x_k, y> for every encrypted row k
// using the function key skY.
func (s *RLWE) Decrypt(ct *Ciphertext, skY *FunctionKey) ([]*big.Int, error) {
	if err := ct.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext")
	}
	if err := skY.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid function key")
	}
	mod := s.Params.Q()
	dY := make([][]uint32, len(mod.Primes))
	for j, prime := range mod.Primes {
		q := prime.Q
		dY[j] = make([]uint32, s.Params.N)
		for i := 0; i < s.Params.L; i++ {
			for k := 0; k < ct.M; k++ {
				mac := ring.Mul(ct.CT[i][j][k], skY.Y[j][i], q)
				dY[j][k] = ring.Add(dY[j][k], mac, q)
			}
		}
	}
	for i := range mod.Primes {
		c0sy := ring.PolyNTTMul(ct.CT0[i], skY.SKY[i], mod, i)
		ring.VecSubAssign(dY[i], c0sy, mod, i)
	}
	xy := ring.VecInverseCRT(dY, mod)
	xyR := make([]*big.Int, ct.M)
	for i := 0; i < ct.M; i++ {
		xyR[i] = roundedQuotient(xy[i], mod.QDivK)
	}
	return xyR, nil
}

// DecryptAll recovers the whole plaintext matrix x from ct using the master
// secret key.
func (s *RLWE) DecryptAll(ct *Ciphertext, msk *SecretKey) (data.Matrix, error) {
	if err := ct.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid ciphertext")
	}
	if err := msk.Validate(s.Params); err != nil {
		return nil, errors.Wrap(err, "invalid master secret key")
	}
	mod := s.Params.Q()
	d := make([][][]uint32, s.Params.L)
	for i := range d {
		d[i] = make([][]uint32, len(mod.Primes))
	}
	for j := range mod.Primes {
		for i := 0; i < s.Params.L; i++ {
			c0s := ring.PolyNTTMul(ct.CT0[j], msk.SK[i][j], mod, j)
			d[i][j] = ring.VecSub(ct.CT[i][j], c0s, mod, j)
		}
	}
	x := make([][]*big.Int, s.Params.L)
	for i := range x {
		x[i] = ring.VecInverseCRT(d[i], mod)
	}
	xR := make(data.Matrix, ct.M)
	for i := 0; i < ct.M; i++ {
		xR[i] = make(data.Vector, s.Params.L)
		for j := 0; j < s.Params.L; j++ {
			v := roundedQuotient(x[j][i], mod.QDivK)
			if !v.IsInt64() {
				return nil, errors.Wrap(internal.ErrDecryptOutOfRange, "full decryption failed")
			}
			xR[i][j] = v.Int64()
		}
	}
	return xR, nil
}

// roundedQuotient returns x/d rounded half to even, for d > 0. A naive
// half-up differs at exact halves.
func roundedQuotient(x, d *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(x, d, new(big.Int))
	r.Abs(r).Lsh(r, 1)
	cmp := r.Cmp(d)
	if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
		if x.Sign() >= 0 {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	return q
}
