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

// Package ring implements arithmetic in Z_q[X]/(X^n + 1) over a chain of
// word-sized primes or a single arbitrary-precision prime: modular vector
// operations, forward and inverse NTT, and CRT lifting.
//
// The NTT is based on "Speeding up the Number Theoretic Transform for Faster
// Ideal Lattice-Based Cryptography" by Patrick Longa and Michael Naehrig,
// see https://eprint.iacr.org/2016/504.
package ring

import (
	"math/big"

	"github.com/fentec-project/rlwe-ipfe/internal"
)

// Add returns a+b mod q for residues a, b in [0, q).
func Add(a, b, q uint32) uint32 {
	return uint32((uint64(a) + uint64(b)) % uint64(q))
}

// Sub returns a-b mod q for residues a, b in [0, q).
func Sub(a, b, q uint32) uint32 {
	return uint32((uint64(a) + uint64(q) - uint64(b)) % uint64(q))
}

// Mul returns a*b mod q for residues a, b in [0, q). The product is taken in
// 64 bits, so it cannot overflow for any q < 2^32.
func Mul(a, b, q uint32) uint32 {
	return uint32(uint64(a) * uint64(b) % uint64(q))
}

// ForwardNTT transforms a in place to the NTT domain modulo the sel-th prime
// of the chain, Cooley-Tukey decimation in time. Input is in natural order,
// output in bit-reversed order; the phi powers baked into the twiddle table
// absorb the negacyclic twist.
func ForwardNTT(a []uint32, mod *Modulus, sel int) []uint32 {
	if len(a) != mod.N {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Primes[sel].Q
	phi := mod.Phis[sel]
	t := mod.N
	for m := 1; m < mod.N; m *= 2 {
		t /= 2
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t
			s := phi[m+i]
			for j := j1; j < j2; j++ {
				u := a[j]
				v := Mul(a[j+t], s, q)
				a[j] = Add(u, v, q)
				a[j+t] = Sub(u, v, q)
			}
		}
	}
	return a
}

// ForwardNTTCopy is ForwardNTT on a copy of a.
func ForwardNTTCopy(a []uint32, mod *Modulus, sel int) []uint32 {
	return ForwardNTT(append([]uint32(nil), a...), mod, sel)
}

// InverseNTT transforms a in place back to the coefficient domain modulo the
// sel-th prime, Gentleman-Sande decimation in frequency, and multiplies by
// n^-1 after the final layer.
func InverseNTT(a []uint32, mod *Modulus, sel int) []uint32 {
	if len(a) != mod.N {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Primes[sel].Q
	phiInv := mod.PhiInvs[sel]
	t := 1
	for m := mod.N; m > 1; m /= 2 {
		j1 := 0
		h := m / 2
		for i := 0; i < h; i++ {
			j2 := j1 + t
			s := phiInv[h+i]
			for j := j1; j < j2; j++ {
				u := a[j]
				v := a[j+t]
				a[j] = Add(u, v, q)
				a[j+t] = Mul(Sub(u, v, q), s, q)
			}
			j1 = j1 + 2*t
		}
		t *= 2
	}
	nInv := mod.NInvs[sel]
	for i := 0; i < mod.N; i++ {
		a[i] = Mul(a[i], nInv, q)
	}
	return a
}

// InverseNTTCopy is InverseNTT on a copy of a.
func InverseNTTCopy(a []uint32, mod *Modulus, sel int) []uint32 {
	return InverseNTT(append([]uint32(nil), a...), mod, sel)
}

// PolyNTTMulAssign sets a to the negacyclic convolution of a and b modulo the
// sel-th prime, computed as INTT(NTT(a) .* NTT(b)). b is left untouched.
func PolyNTTMulAssign(a, b []uint32, mod *Modulus, sel int) []uint32 {
	ForwardNTT(a, mod, sel)
	b = ForwardNTTCopy(b, mod, sel)
	VecPointMulAssign(a, b, mod, sel)
	return InverseNTT(a, mod, sel)
}

// PolyNTTMul returns the negacyclic convolution of a and b modulo the sel-th
// prime.
func PolyNTTMul(a, b []uint32, mod *Modulus, sel int) []uint32 {
	return PolyNTTMulAssign(append([]uint32(nil), a...), b, mod, sel)
}

// VecAddAssign sets a = a + b componentwise modulo the sel-th prime.
func VecAddAssign(a, b []uint32, mod *Modulus, sel int) []uint32 {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Primes[sel].Q
	for i := range b {
		a[i] = Add(a[i], b[i], q)
	}
	return a
}

// VecSubAssign sets a = a - b componentwise modulo the sel-th prime.
func VecSubAssign(a, b []uint32, mod *Modulus, sel int) []uint32 {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Primes[sel].Q
	for i := range b {
		a[i] = Sub(a[i], b[i], q)
	}
	return a
}

// VecSub returns a - b componentwise modulo the sel-th prime.
func VecSub(a, b []uint32, mod *Modulus, sel int) []uint32 {
	return VecSubAssign(append([]uint32(nil), a...), b, mod, sel)
}

// VecPointMulAssign sets a = a .* b componentwise modulo the sel-th prime.
func VecPointMulAssign(a, b []uint32, mod *Modulus, sel int) []uint32 {
	if len(a) < len(b) {
		panic(internal.ErrInvalidDimensions)
	}
	q := mod.Primes[sel].Q
	for i := range b {
		a[i] = Mul(a[i], b[i], q)
	}
	return a
}

// VecPointMul returns a .* b componentwise modulo the sel-th prime.
func VecPointMul(a, b []uint32, mod *Modulus, sel int) []uint32 {
	return VecPointMulAssign(append([]uint32(nil), a...), b, mod, sel)
}

// VecForwardCRT projects a signed integer vector into each prime of the chain
// by floor reduction.
func VecForwardCRT(x []int64, mod *Modulus) [][]uint32 {
	xCRT := make([][]uint32, len(mod.Primes))
	for i, prime := range mod.Primes {
		q := int64(prime.Q)
		row := make([]uint32, len(x))
		for j, v := range x {
			row[j] = uint32(((v % q) + q) % q)
		}
		xCRT[i] = row
	}
	return xCRT
}

// VecInverseCRT lifts a residue table back to signed big integers in
// (-Q/2, Q/2], one per slot, by iterated Garner mixing followed by a centered
// reduction.
func VecInverseCRT(xCRT [][]uint32, mod *Modulus) []*big.Int {
	if len(xCRT) != len(mod.Primes) {
		panic(internal.ErrInvalidDimensions)
	}
	x := make([]*big.Int, len(xCRT[0]))
	tmp := new(big.Int)
	for i := range x {
		xI := big.NewInt(int64(xCRT[0][i]))
		c := mod.Primes[0].QBig()
		for j := 1; j < len(mod.Primes); j++ {
			if len(xCRT[j]) != len(xCRT[0]) {
				panic(internal.ErrInvalidDimensions)
			}
			qJ := mod.Primes[j].QBig()
			tmp.SetInt64(int64(xCRT[j][i]))
			tmp.Sub(tmp, xI)
			tmp.Mul(tmp, big.NewInt(int64(mod.Cs[j])))
			tmp.Mod(tmp, qJ)
			xI.Add(xI, tmp.Mul(tmp, c))
			c = new(big.Int).Mul(c, qJ)
		}
		if new(big.Int).Lsh(xI, 1).Cmp(c) > 0 {
			xI.Sub(xI, c)
		}
		x[i] = xI
	}
	return x
}

// Dot returns the exact inner product of two integer vectors.
func Dot(a, b []int64) (*big.Int, error) {
	if len(a) != len(b) {
		return nil, internal.ErrInvalidDimensions
	}
	c := new(big.Int)
	tmp := new(big.Int)
	for i := range a {
		tmp.SetInt64(a[i])
		tmp.Mul(tmp, big.NewInt(b[i]))
		c.Add(c, tmp)
	}
	return c, nil
}
