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

// Package data holds the plaintext-side vector and matrix types, their bound
// and dimension checks, and the textual file format they are exchanged in.
package data

import (
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/sample"
	"golang.org/x/exp/constraints"
)

// Vector wraps a slice of int64 coordinates.
type Vector []int64

// NewRandomVector returns a Vector with coordinates uniform in [-bound, bound].
func NewRandomVector(len int, bound int64, prng sample.PRNG) (Vector, error) {
	vec := make(Vector, len)
	for i := range vec {
		v, err := sample.RandInt64(prng, -bound, bound+1)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

// NewConstantVector returns a Vector with all coordinates set to c.
func NewConstantVector(len int, c int64) Vector {
	vec := make(Vector, len)
	for i := range vec {
		vec[i] = c
	}
	return vec
}

// CheckBound returns an error if any |coordinate| exceeds bound.
func (v Vector) CheckBound(bound int64) error {
	for _, c := range v {
		if Abs(c) > bound {
			return internal.ErrInvalidBound
		}
	}
	return nil
}

// CheckDims returns true if the vector has exactly dim coordinates.
func (v Vector) CheckDims(dim int) bool {
	return len(v) == dim
}

// Dot returns the exact inner product of v and other.
func (v Vector) Dot(other Vector) (*big.Int, error) {
	if len(v) != len(other) {
		return nil, internal.ErrInvalidDimensions
	}
	c := new(big.Int)
	tmp := new(big.Int)
	for i := range v {
		tmp.SetInt64(v[i])
		tmp.Mul(tmp, big.NewInt(other[i]))
		c.Add(c, tmp)
	}
	return c, nil
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
