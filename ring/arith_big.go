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

package ring

import (
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/internal"
)

// The big-integer arithmetic mirrors the word-sized path one to one; only the
// residue representation differs.

// AddBig returns a+b mod q.
func AddBig(a, b, q *big.Int) *big.Int {
	c := new(big.Int).Add(a, b)
	return c.Mod(c, q)
}

// SubBig returns a-b mod q.
func SubBig(a, b, q *big.Int) *big.Int {
	c := new(big.Int).Sub(a, b)
	return c.Mod(c, q)
}

// MulBig returns a*b mod q.
func MulBig(a, b, q *big.Int) *big.Int {
	c := new(big.Int).Mul(a, b)
	return c.Mod(c, q)
}

// ForwardNTTBig transforms a in place to the NTT domain modulo mod.Q.
func ForwardNTTBig(a []*big.Int, mod *ModulusBig) []*big.Int {
	if len(a) != mod.N {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Q
	t := mod.N
	for m := 1; m < mod.N; m *= 2 {
		t /= 2
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t
			s := mod.Phis[m+i]
			for j := j1; j < j2; j++ {
				u := a[j]
				v := MulBig(a[j+t], s, q)
				a[j] = AddBig(u, v, q)
				a[j+t] = SubBig(u, v, q)
			}
		}
	}
	return a
}

// ForwardNTTBigCopy is ForwardNTTBig on a copy of a.
func ForwardNTTBigCopy(a []*big.Int, mod *ModulusBig) []*big.Int {
	return ForwardNTTBig(copyBigVec(a), mod)
}

// InverseNTTBig transforms a in place back to the coefficient domain and
// multiplies by n^-1 after the final layer.
func InverseNTTBig(a []*big.Int, mod *ModulusBig) []*big.Int {
	if len(a) != mod.N {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Q
	t := 1
	for m := mod.N; m > 1; m /= 2 {
		j1 := 0
		h := m / 2
		for i := 0; i < h; i++ {
			j2 := j1 + t
			s := mod.PhiInvs[h+i]
			for j := j1; j < j2; j++ {
				u := a[j]
				v := a[j+t]
				a[j] = AddBig(u, v, q)
				a[j+t] = MulBig(SubBig(u, v, q), s, q)
			}
			j1 = j1 + 2*t
		}
		t *= 2
	}
	for i := 0; i < mod.N; i++ {
		a[i] = MulBig(a[i], mod.NInv, q)
	}
	return a
}

// InverseNTTBigCopy is InverseNTTBig on a copy of a.
func InverseNTTBigCopy(a []*big.Int, mod *ModulusBig) []*big.Int {
	return InverseNTTBig(copyBigVec(a), mod)
}

// PolyNTTMulBigAssign sets a to the negacyclic convolution of a and b modulo
// mod.Q. b is left untouched.
func PolyNTTMulBigAssign(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	ForwardNTTBig(a, mod)
	b = ForwardNTTBigCopy(b, mod)
	VecPointMulBigAssign(a, b, mod)
	return InverseNTTBig(a, mod)
}

// PolyNTTMulBig returns the negacyclic convolution of a and b modulo mod.Q.
func PolyNTTMulBig(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	return PolyNTTMulBigAssign(copyBigVec(a), b, mod)
}

// VecAddBigAssign sets a = a + b componentwise modulo mod.Q.
func VecAddBigAssign(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	for i := range b {
		a[i] = AddBig(a[i], b[i], mod.Q)
	}
	return a
}

// VecSubBigAssign sets a = a - b componentwise modulo mod.Q.
func VecSubBigAssign(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	for i := range b {
		a[i] = SubBig(a[i], b[i], mod.Q)
	}
	return a
}

// VecSubBig returns a - b componentwise modulo mod.Q.
func VecSubBig(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	return VecSubBigAssign(copyBigVec(a), b, mod)
}

// VecPointMulBigAssign sets a = a .* b componentwise modulo mod.Q.
func VecPointMulBigAssign(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	for i := range b {
		a[i] = MulBig(a[i], b[i], mod.Q)
	}
	return a
}

// VecPointMulBig returns a .* b componentwise modulo mod.Q.
func VecPointMulBig(a, b []*big.Int, mod *ModulusBig) []*big.Int {
	return VecPointMulBigAssign(copyBigVec(a), b, mod)
}

func copyBigVec(a []*big.Int) []*big.Int {
	b := make([]*big.Int, len(a))
	for i, v := range a {
		b[i] = new(big.Int).Set(v)
	}
	return b
}
