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

package data

import (
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

// Matrix wraps a slice of Vector rows.
type Matrix []Vector

// NewRandomMatrix returns a rows x cols Matrix with entries uniform in
// [-bound, bound].
func NewRandomMatrix(rows, cols int, bound int64, prng sample.PRNG) (Matrix, error) {
	mat := make(Matrix, rows)
	for i := range mat {
		row, err := NewRandomVector(cols, bound, prng)
		if err != nil {
			return nil, err
		}
		mat[i] = row
	}
	return mat, nil
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// CheckDims returns true if the matrix is exactly rows x cols.
func (m Matrix) CheckDims(rows, cols int) bool {
	if len(m) != rows {
		return false
	}
	for _, row := range m {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// CheckBound returns an error if any |entry| exceeds bound.
func (m Matrix) CheckBound(bound int64) error {
	for _, row := range m {
		if err := row.CheckBound(bound); err != nil {
			return err
		}
	}
	return nil
}

// MulVec returns the vector of exact per-row inner products of m with v.
func (m Matrix) MulVec(v Vector) ([]*big.Int, error) {
	res := make([]*big.Int, len(m))
	for i, row := range m {
		d, err := row.Dot(v)
		if err != nil {
			return nil, internal.ErrInvalidDimensions
		}
		res[i] = d
	}
	return res, nil
}
