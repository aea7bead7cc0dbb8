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
	"math/bits"
	"sort"

	"github.com/fentec-project/rlwe-ipfe/internal"
)

// Modulus pre-computes and holds the per-prime tables needed for NTT and CRT
// arithmetic over a chain of word-sized primes. The tables are written once
// here and read-only afterwards, so a Modulus may be shared across goroutines.
type Modulus struct {
	N      int
	Primes []ModPrime
	// Value is Q, the product of the chain.
	Value *big.Int
	// QDivK is floor(Q / K), the plaintext scale factor.
	QDivK *big.Int
	// Phis[i][r] = phi_i^bitrev(r, exp) mod q_i; PhiInvs is the analogue for
	// phi_i^-1. Bit-reversed storage matches the butterfly schedules below.
	Phis    [][]uint32
	PhiInvs [][]uint32
	NInvs   []uint32
	// Cs[i] = prod_{j<i} q_j^-1 mod q_i, the CRT mix constants. Cs[0] is unused.
	Cs []uint32
	// QDivKs[i] = floor(Q/K) mod q_i.
	QDivKs []uint32
}

// NewModulus builds the tables for a chain of primes sharing exp and the
// plaintext modulus k. The chain is sorted before the mix constants are
// derived; every prime must carry the given exp.
func NewModulus(exp int, primes []ModPrime, k *big.Int) (*Modulus, error) {
	n := 1 << uint(exp)
	primes = append([]ModPrime(nil), primes...)
	sort.Slice(primes, func(i, j int) bool {
		if primes[i].Exp != primes[j].Exp {
			return primes[i].Exp < primes[j].Exp
		}
		return primes[i].Q < primes[j].Q
	})

	mod := &Modulus{
		N:       n,
		Primes:  primes,
		Value:   big.NewInt(1),
		Phis:    make([][]uint32, len(primes)),
		PhiInvs: make([][]uint32, len(primes)),
		NInvs:   make([]uint32, len(primes)),
		Cs:      make([]uint32, len(primes)),
		QDivKs:  make([]uint32, len(primes)),
	}
	for i, prime := range primes {
		if prime.Exp != exp {
			return nil, internal.ErrInvalidModulusPrime
		}
		qI := prime.QBig()
		mod.Value.Mul(mod.Value, qI)
		phiI := make([]uint32, n)
		phiInvI := make([]uint32, n)
		phi := big.NewInt(int64(prime.Phi))
		phiInv := new(big.Int).ModInverse(phi, qI)
		phiX := big.NewInt(1)
		phiInvX := big.NewInt(1)
		for x := 0; x < n; x++ {
			revX := int(bits.Reverse32(uint32(x)) >> uint(32-exp))
			phiI[revX] = uint32(phiX.Uint64())
			phiInvI[revX] = uint32(phiInvX.Uint64())
			phiX.Mul(phiX, phi).Mod(phiX, qI)
			phiInvX.Mul(phiInvX, phiInv).Mod(phiInvX, qI)
		}
		mod.Phis[i] = phiI
		mod.PhiInvs[i] = phiInvI
		mod.NInvs[i] = uint32(new(big.Int).ModInverse(big.NewInt(int64(n)), qI).Uint64())
		if i > 0 {
			c := big.NewInt(1)
			for j := 0; j < i; j++ {
				c.Mul(c, new(big.Int).ModInverse(primes[j].QBig(), qI)).Mod(c, qI)
			}
			mod.Cs[i] = uint32(c.Uint64())
		}
	}
	mod.QDivK = new(big.Int).Div(mod.Value, k)
	for i, prime := range primes {
		mod.QDivKs[i] = uint32(new(big.Int).Mod(mod.QDivK, prime.QBig()).Uint64())
	}

	return mod, nil
}
