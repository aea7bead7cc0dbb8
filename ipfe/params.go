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
	"math"
	"math/big"
	"math/bits"

	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
)

const sqrt2 = math.Sqrt2

// Params holds the public parameters of the word-sized prime chain variant.
// The heavy Modulus tables are rebuilt on demand, so Params serializes as a
// plain record.
type Params struct {
	// L is the length of the data vectors, i.e. the number of columns of the
	// encrypted matrix.
	L int
	// Exp is log2(N); N is the degree of the ring polynomials and bounds the
	// number of encrypted rows.
	Exp int
	N   int
	// Bx and By bound the maximum norm of the matrix x and the vector y.
	Bx int64
	By int64
	// K bounds the resulting inner products, K = 2*L*Bx*By + 1.
	K *big.Int
	// QN is the modulus chain.
	QN []ring.ModPrime
	// S1, S2 and S3 are the Gaussian standard deviations for master key
	// generation, encryption randomness and per-slot encryption noise.
	S1 float64
	S2 float64
	S3 float64

	q *ring.Modulus
}

// Q returns the precomputed Modulus for the chain, building it on first use.
func (p *Params) Q() *ring.Modulus {
	if p.q == nil {
		mod, err := ring.NewModulus(p.Exp, p.QN, p.K)
		if err != nil {
			panic(err)
		}
		p.q = mod
	}
	return p.q
}

// ParamsBig holds the public parameters of the single big prime variant.
type ParamsBig struct {
	L   int
	Exp int
	N   int
	Bx  int64
	By  int64
	K   *big.Int
	QN  ring.ModPrimeBig
	S1  float64
	S2  float64
	S3  float64

	q *ring.ModulusBig
}

// Q returns the precomputed ModulusBig, building it on first use.
func (p *ParamsBig) Q() *ring.ModulusBig {
	if p.q == nil {
		mod, err := ring.NewModulusBig(p.Exp, p.QN, p.K)
		if err != nil {
			panic(err)
		}
		p.q = mod
	}
	return p.q
}

// GenerateParams searches for a parameter set for sec bits of security,
// vectors of length l, up to n encrypted rows and coordinate bounds bx, by.
// Starting from exp = max(ceil(log2 n), 6) it grows the ring degree until the
// correctness bound and the primal-attack predicate are both satisfied, and
// fails with ErrParamSearchExhausted once exp reaches 20.
func GenerateParams(sec, l, n int, bx, by int64) (*Params, error) {
	k, secSqrt, sigma1 := baseParams(sec, l, bx, by)

	for exp := startExp(n); exp < 20; exp++ {
		n = 1 << uint(exp)
		sigma2 := sqrt2 * math.Sqrt(float64(l+2)) * float64(n) * sigma1 * secSqrt
		sigma3 := sigma2 * sqrt2

		qMin := noiseBound(n, sec, sigma1, sigma2, sigma3, secSqrt)
		qMin.Mul(qMin, k)
		primes, q, err := ring.Primes(exp, qMin)
		if err != nil {
			return nil, err
		}

		qF, _ := new(big.Float).SetInt(q).Float64()
		if primalSafe(sec, n, qF) {
			return &Params{
				L: l, Exp: exp, N: n, Bx: bx, By: by, K: k, QN: primes,
				S1: sigma1, S2: sigma2, S3: sigma3,
			}, nil
		}
	}

	return nil, internal.ErrParamSearchExhausted
}

// GenerateParamsBig is the parameter search for the single big prime variant.
// Its correctness bound carries an extra l*by factor, since the function key
// accumulates y against full-width residues.
func GenerateParamsBig(sec, l, n int, bx, by int64) (*ParamsBig, error) {
	k, secSqrt, sigma1 := baseParams(sec, l, bx, by)

	for exp := startExp(n); exp < 20; exp++ {
		n = 1 << uint(exp)
		sigma2 := sqrt2 * math.Sqrt(float64(l+2)) * float64(n) * sigma1 * secSqrt
		sigma3 := sigma2 * sqrt2

		qMin := noiseBound(n, sec, sigma1, sigma2, sigma3, secSqrt)
		qMin.Mul(qMin, big.NewInt(int64(l)))
		qMin.Mul(qMin, big.NewInt(by))
		qMin.Mul(qMin, k)
		prime := ring.NextModPrimeBig(exp, qMin)

		qF, _ := new(big.Float).SetInt(prime.Q).Float64()
		if primalSafe(sec, n, qF) {
			return &ParamsBig{
				L: l, Exp: exp, N: n, Bx: bx, By: by, K: k, QN: prime,
				S1: sigma1, S2: sigma2, S3: sigma3,
			}, nil
		}
	}

	return nil, internal.ErrParamSearchExhausted
}

// baseParams derives the plaintext modulus K = 2*l*bx*by + 1, sqrt(sec) and
// the master key deviation sigma1 = 2*sqrt(l)*bx.
func baseParams(sec, l int, bx, by int64) (*big.Int, float64, float64) {
	k := big.NewInt(2)
	k.Mul(k, big.NewInt(int64(l)))
	k.Mul(k, big.NewInt(bx))
	k.Mul(k, big.NewInt(by))
	k.Add(k, big.NewInt(1))
	return k, math.Sqrt(float64(sec)), 2 * math.Sqrt(float64(l)) * float64(bx)
}

func startExp(n int) int {
	exp := bits.Len(uint(n - 1))
	if exp < 6 {
		exp = 6
	}
	return exp
}

// noiseBound returns floor(2*n*sec*s1*s2 + sqrt(sec)*s3) * 2 as a big integer.
func noiseBound(n, sec int, s1, s2, s3, secSqrt float64) *big.Int {
	f := new(big.Float).SetPrec(128)
	f.SetFloat64(2 * float64(n) * float64(sec))
	f.Mul(f, big.NewFloat(s1))
	f.Mul(f, big.NewFloat(s2))
	f.Add(f, new(big.Float).Mul(big.NewFloat(secSqrt), big.NewFloat(s3)))
	qMin, _ := f.Int(nil)
	return qMin.Lsh(qMin, 1)
}

// primalSafe checks the parameters against the primal lattice attack: for
// every BKZ block size b up to sec/0.265 and every sample count m the
// attacker's estimate delta^(2b-d-1) * q^(m/d) must stay below sigma*sqrt(b).
func primalSafe(sec, n int, q float64) bool {
	const sigma = 1.0
	bBound := int(float64(sec) / 0.265)
	for b := 50; b <= bBound; b++ {
		bF := float64(b)
		delta := math.Pow(math.Pow(math.Pi*bF, 1/bF)*bF/(2*math.Pi*math.E), 1/(2*bF-2))
		left := sigma * math.Sqrt(bF)
		mStart := 1
		if b-n > 1 {
			mStart = b - n
		}
		for m := mStart; m < 3*n; m++ {
			d := n + m
			right := math.Pow(delta, float64(2*b-d-1)) * math.Pow(q, float64(m)/float64(d))
			if left <= right {
				return false
			}
		}
	}
	return true
}
