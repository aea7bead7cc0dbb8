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

// Normal samples discrete Gaussian polynomials by rounding a continuous
// Gaussian half to even, the fast path. It performs as well as the FACCT
// sampler in practice and is faster, but makes no constant-time claims.
type Normal struct {
	mod   *ring.Modulus
	sigma float64
	prng  PRNG
}

// NewNormal returns a fast Gaussian sampler with standard deviation sigma
// centered on 0.
func NewNormal(mod *ring.Modulus, sigma float64, prng PRNG) *Normal {
	return &Normal{mod: mod, sigma: sigma, prng: prng}
}

// SampleInt64 draws a single rounded Gaussian integer.
func (s *Normal) SampleInt64() (int64, error) {
	g, err := normFloat64(s.prng)
	if err != nil {
		return 0, err
	}
	return int64(math.RoundToEven(g * s.sigma)), nil
}

// Sample draws one Gaussian integer per coefficient and replicates it as a
// residue modulo every prime of the chain.
func (s *Normal) Sample() ([][]uint32, error) {
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

// NormalBig is the fast Gaussian sampler for the single big prime.
type NormalBig struct {
	mod   *ring.ModulusBig
	sigma float64
	prng  PRNG
}

// NewNormalBig returns a fast Gaussian sampler reducing modulo mod.Q.
func NewNormalBig(mod *ring.ModulusBig, sigma float64, prng PRNG) *NormalBig {
	return &NormalBig{mod: mod, sigma: sigma, prng: prng}
}

// Sample draws one polynomial of n rounded Gaussian coefficients.
func (s *NormalBig) Sample() ([]*big.Int, error) {
	arr := make([]*big.Int, s.mod.N)
	for j := range arr {
		g, err := normFloat64(s.prng)
		if err != nil {
			return nil, err
		}
		v := big.NewInt(int64(math.RoundToEven(g * s.sigma)))
		arr[j] = v.Mod(v, s.mod.Q)
	}
	return arr, nil
}

// normFloat64 draws a standard Gaussian with the Marsaglia polar method over
// the PRNG stream.
func normFloat64(prng PRNG) (float64, error) {
	for {
		u1, err := randFloat64(prng)
		if err != nil {
			return 0, err
		}
		u2, err := randFloat64(prng)
		if err != nil {
			return 0, err
		}
		u := 2*u1 - 1
		v := 2*u2 - 1
		s := u*u + v*v
		if s >= 1 || s == 0 {
			continue
		}
		return u * math.Sqrt(-2*math.Log(s)/s), nil
	}
}

// randFloat64 draws uniformly from [0, 1) with 53 bits of precision.
func randFloat64(prng PRNG) (float64, error) {
	r, err := randUint64(prng)
	if err != nil {
		return 0, err
	}
	return float64(r>>11) / (1 << 53), nil
}

func floorMod64(val int64, q uint32) uint32 {
	r := val % int64(q)
	if r < 0 {
		r += int64(q)
	}
	return uint32(r)
}
