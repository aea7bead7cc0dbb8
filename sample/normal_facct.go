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

package sample

import (
	"math"
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/ring"
)

// InvSigmaCDT is sqrt(2*ln(2)), the inverse of the base sampler's sigma.
const InvSigmaCDT = 1.1774100225154747

// expCoef holds the coefficients, highest degree first, of the polynomial
// approximating 2^x on [0, 1).
var expCoef = [10]float64{
	1.432910037894391e-7,
	1.2303944375555413e-6,
	1.5359914219462012e-5,
	1.5396043210538638e-4,
	0.0013333877552501097,
	0.009618120933175645,
	0.05550410984131825,
	0.24022650687652775,
	0.6931471805619338,
	1.0,
}

const mantissaPrecision = 52
const mantissaMask = uint64(1)<<mantissaPrecision - 1
const bitLenForSample = 72 - mantissaPrecision - 1
const maxExp = 1023

// NormalFACCT samples the centered discrete Gaussian with parameter sigma by
// the FACCT construction: a half-Gaussian from the CDT base sampler is
// stretched by k = round(sigma * sqrt(2*ln(2))), shifted by a uniform value
// in [0, k), given a fair sign, and accepted with a Bernoulli(exp) trial.
type NormalFACCT struct {
	mod        *ring.Modulus
	cdt        *NormalCDT
	k          int64
	kSquareInv float64
	prng       PRNG
}

// NewNormalFACCT returns a FACCT sampler with standard deviation sigma. A nil
// mod is allowed when only SampleInt64 is used.
func NewNormalFACCT(mod *ring.Modulus, sigma float64, prng PRNG) *NormalFACCT {
	k := int64(math.Round(sigma * InvSigmaCDT))
	return &NormalFACCT{
		mod:        mod,
		cdt:        NewNormalCDT(prng),
		k:          k,
		kSquareInv: 1 / float64(k) / float64(k),
		prng:       prng,
	}
}

// SampleInt64 draws a single discrete Gaussian integer. The pair
// (result 0, sign +1) is rejected while (0, -1) is accepted, so zero is not
// counted twice; the output distribution stays symmetric.
func (s *NormalFACCT) SampleInt64() (int64, error) {
	for {
		x, err := s.cdt.Sample()
		if err != nil {
			return 0, err
		}
		y, err := randInt64n(s.prng, s.k)
		if err != nil {
			return 0, err
		}
		positive, err := randBool(s.prng)
		if err != nil {
			return 0, err
		}
		sign := int64(-1)
		if positive {
			sign = 1
		}
		res := x * s.k
		checkVal := (res*2 + y) * y
		res += y
		check, err := bernoulli(checkVal, s.kSquareInv, s.prng)
		if err != nil {
			return 0, err
		}
		if check && (res > 0 || sign == -1) {
			return res * sign, nil
		}
	}
}

// Sample draws one Gaussian integer per coefficient and replicates it as a
// residue modulo every prime of the chain.
func (s *NormalFACCT) Sample() ([][]uint32, error) {
	arr := make([][]uint32, len(s.mod.Primes))
	for i := range arr {
		arr[i] = make([]uint32, s.mod.N)
	}
	for j := 0; j < s.mod.N; j++ {
		val, err := s.SampleInt64()
		if err != nil {
			return nil, err
		}
		for i, prime := range s.mod.Primes {
			arr[i][j] = floorMod64(val, prime.Q)
		}
	}
	return arr, nil
}

// SampleBig draws one polynomial of n coefficients modulo the big prime.
func (s *NormalFACCT) SampleBig(mod *ring.ModulusBig) ([]*big.Int, error) {
	arr := make([]*big.Int, mod.N)
	for j := range arr {
		val, err := s.SampleInt64()
		if err != nil {
			return nil, err
		}
		v := big.NewInt(val)
		arr[j] = v.Mod(v, mod.Q)
	}
	return arr, nil
}

// bernoulli accepts with probability 2^(-t/k^2) = exp(-t*ln(2)/k^2) for
// t >= 0. The fractional part is evaluated as 2^z by Horner on expCoef, then split into IEEE mantissa and
// exponent and compared against fresh 53- and 19-bit uniform draws.
func bernoulli(t int64, kSquareInv float64, prng PRNG) (bool, error) {
	a := -float64(t) * kSquareInv
	negFloorA := -math.Floor(a)
	z := a + negFloorA

	powOfZ := expCoef[0]
	for i := 1; i < 10; i++ {
		powOfZ = powOfZ*z + expCoef[i]
	}

	bits := math.Float64bits(powOfZ)
	powOfAMantissa := bits & mantissaMask
	powOfAExponent := (bits >> mantissaPrecision) - uint64(negFloorA)

	r1, err := randUint64(prng)
	if err != nil {
		return false, err
	}
	r2, err := randUint64(prng)
	if err != nil {
		return false, err
	}
	r1 >>= 64 - (mantissaPrecision + 1)
	r2 >>= 64 - bitLenForSample

	check1 := powOfAMantissa | uint64(1)<<mantissaPrecision
	check2 := uint64(1) << (bitLenForSample + powOfAExponent + 1 - maxExp)

	return (r1 < check1 && r2 < check2) || powOfZ == 1, nil
}
