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

	"github.com/fentec-project/rlwe-ipfe/internal"
)

// SecretKey is the master secret key: one small polynomial per slot, stored
// as residues per prime in coefficient representation.
type SecretKey struct {
	SK [][][]uint32 // l x primes x n
}

// Validate checks the key shape against the parameters.
func (k *SecretKey) Validate(p *Params) error {
	if !checkDims3(k.SK, p.L, len(p.QN), p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// PublicKey holds the public parameter a and the master public key pk, both
// in NTT representation.
type PublicKey struct {
	A  [][]uint32   // primes x n
	PK [][][]uint32 // l x primes x n
}

// Validate checks the key shape against the parameters.
func (k *PublicKey) Validate(p *Params) error {
	if !checkDims2(k.A, len(p.QN), p.N) || !checkDims3(k.PK, p.L, len(p.QN), p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// FunctionKey holds the CRT-encoded function vector y and the derived secret
// polynomial skY in coefficient representation.
type FunctionKey struct {
	Y   [][]uint32 // primes x l
	SKY [][]uint32 // primes x n
}

// Validate checks the key shape against the parameters.
func (k *FunctionKey) Validate(p *Params) error {
	if !checkDims2(k.Y, len(p.QN), p.L) || !checkDims2(k.SKY, len(p.QN), p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// Ciphertext holds the encryption of M rows: ct0 and one polynomial per slot,
// all in coefficient representation.
type Ciphertext struct {
	M   int
	CT0 [][]uint32   // primes x n
	CT  [][][]uint32 // l x primes x n
}

// Validate checks the ciphertext shape against the parameters.
func (c *Ciphertext) Validate(p *Params) error {
	if c.M > p.N || !checkDims2(c.CT0, len(p.QN), p.N) || !checkDims3(c.CT, p.L, len(p.QN), p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// SecretKeyBig is the master secret key of the big prime variant.
type SecretKeyBig struct {
	SK [][]*big.Int // l x n
}

// Validate checks the key shape against the parameters.
func (k *SecretKeyBig) Validate(p *ParamsBig) error {
	if !checkDims2Big(k.SK, p.L, p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// PublicKeyBig holds a and pk of the big prime variant, in NTT representation.
type PublicKeyBig struct {
	A  []*big.Int   // n
	PK [][]*big.Int // l x n
}

// Validate checks the key shape against the parameters.
func (k *PublicKeyBig) Validate(p *ParamsBig) error {
	if len(k.A) != p.N || !checkDims2Big(k.PK, p.L, p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// FunctionKeyBig holds the reduced function vector y and the derived secret
// polynomial skY of the big prime variant.
type FunctionKeyBig struct {
	Y   []*big.Int // l
	SKY []*big.Int // n
}

// Validate checks the key shape against the parameters.
func (k *FunctionKeyBig) Validate(p *ParamsBig) error {
	if len(k.Y) != p.L || len(k.SKY) != p.N {
		return internal.ErrInvalidDimensions
	}
	return nil
}

// CiphertextBig holds the encryption of M rows in the big prime variant.
type CiphertextBig struct {
	M   int
	CT0 []*big.Int   // n
	CT  [][]*big.Int // l x n
}

// Validate checks the ciphertext shape against the parameters.
func (c *CiphertextBig) Validate(p *ParamsBig) error {
	if c.M > p.N || len(c.CT0) != p.N || !checkDims2Big(c.CT, p.L, p.N) {
		return internal.ErrInvalidDimensions
	}
	return nil
}

func checkDims2(arr [][]uint32, dim0, dim1 int) bool {
	if len(arr) != dim0 {
		return false
	}
	for _, row := range arr {
		if len(row) != dim1 {
			return false
		}
	}
	return true
}

func checkDims3(arr [][][]uint32, dim0, dim1, dim2 int) bool {
	if len(arr) != dim0 {
		return false
	}
	for _, inner := range arr {
		if !checkDims2(inner, dim1, dim2) {
			return false
		}
	}
	return true
}

func checkDims2Big(arr [][]*big.Int, dim0, dim1 int) bool {
	if len(arr) != dim0 {
		return false
	}
	for _, row := range arr {
		if len(row) != dim1 {
			return false
		}
	}
	return true
}
