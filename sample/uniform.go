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
	"encoding/binary"
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
)

// Uniform samples CRT polynomials whose coefficients are independently
// uniform in [1, q_i). Note that 0 is excluded.
type Uniform struct {
	mod  *ring.Modulus
	prng PRNG
}

// NewUniform returns a uniform sampler over the chain mod drawing from prng.
func NewUniform(mod *ring.Modulus, prng PRNG) *Uniform {
	return &Uniform{mod: mod, prng: prng}
}

// Sample draws one polynomial per prime of the chain.
func (u *Uniform) Sample() ([][]uint32, error) {
	arr := make([][]uint32, len(u.mod.Primes))
	for i, prime := range u.mod.Primes {
		row := make([]uint32, u.mod.N)
		for j := 0; j < u.mod.N; j++ {
			v, err := randUint32Range(u.prng, 1, prime.Q)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		arr[i] = row
	}
	return arr, nil
}

// UniformBig samples a polynomial with coefficients uniform in [1, q).
type UniformBig struct {
	mod  *ring.ModulusBig
	prng PRNG
}

// NewUniformBig returns a uniform sampler over the single big prime.
func NewUniformBig(mod *ring.ModulusBig, prng PRNG) *UniformBig {
	return &UniformBig{mod: mod, prng: prng}
}

// Sample draws one polynomial of n coefficients.
func (u *UniformBig) Sample() ([]*big.Int, error) {
	arr := make([]*big.Int, u.mod.N)
	one := big.NewInt(1)
	for i := range arr {
		v, err := RandBigIntRange(u.prng, one, u.mod.Q)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}

// RandInt64 returns a uniform integer in [min, max).
func RandInt64(prng PRNG, min, max int64) (int64, error) {
	if min >= max {
		return 0, internal.ErrInvalidBound
	}
	v, err := randInt64n(prng, max-min)
	if err != nil {
		return 0, err
	}
	return min + v, nil
}

// RandBigIntRange returns a uniform big integer in [origin, bound).
func RandBigIntRange(prng PRNG, origin, bound *big.Int) (*big.Int, error) {
	if origin.Cmp(bound) >= 0 {
		return nil, internal.ErrInvalidBound
	}
	n := new(big.Int).Sub(bound, origin)
	bitLen := n.BitLen()
	byteLen := (bitLen + 7) / 8
	buf := make([]byte, byteLen)
	r := new(big.Int)
	for {
		if _, err := prng.Read(buf); err != nil {
			return nil, err
		}
		// mask excess high bits so the rejection rate stays below 1/2
		buf[0] &= byte(0xff >> uint(8*byteLen-bitLen))
		r.SetBytes(buf)
		if r.Cmp(n) < 0 {
			return r.Add(r, origin), nil
		}
	}
}

func randUint64(prng PRNG) (uint64, error) {
	var buf [8]byte
	if _, err := prng.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// randUint32Range draws uniformly from [origin, bound) by rejection on the
// 32-bit stream.
func randUint32Range(prng PRNG, origin, bound uint32) (uint32, error) {
	n := uint64(bound - origin)
	limit := (uint64(1) << 32) / n * n
	var buf [4]byte
	for {
		if _, err := prng.Read(buf[:]); err != nil {
			return 0, err
		}
		r := uint64(binary.LittleEndian.Uint32(buf[:]))
		if r < limit {
			return origin + uint32(r%n), nil
		}
	}
}

// randInt64n draws uniformly from [0, n) by rejection on the 63-bit stream.
func randInt64n(prng PRNG, n int64) (int64, error) {
	limit := (uint64(1) << 63) / uint64(n) * uint64(n)
	for {
		r, err := randUint64(prng)
		if err != nil {
			return 0, err
		}
		r >>= 1
		if r < limit {
			return int64(r % uint64(n)), nil
		}
	}
}

func randBool(prng PRNG) (bool, error) {
	var buf [1]byte
	if _, err := prng.Read(buf[:]); err != nil {
		return false, err
	}
	return buf[0]&1 == 1, nil
}
