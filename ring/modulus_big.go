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

	"github.com/fentec-project/rlwe-ipfe/internal"
)

// ModPrimeBig is a prime q of arbitrary bit length with q = 1 (mod 2n) and a
// primitive 2n-th root of unity phi, phi^n = -1 (mod q).
type ModPrimeBig struct {
	Exp int
	Q   *big.Int
	Phi *big.Int
}

// NewModPrimeBig checks that phi is a valid root of X^n + 1 modulo q.
func NewModPrimeBig(exp int, q, phi *big.Int) (ModPrimeBig, error) {
	if !q.ProbablyPrime(100) {
		return ModPrimeBig{}, internal.ErrInvalidModulusPrime
	}
	pow := new(big.Int).Exp(phi, big.NewInt(int64(uint64(1)<<uint(exp))), q)
	if pow.Cmp(new(big.Int).Sub(q, big.NewInt(1))) != 0 {
		return ModPrimeBig{}, internal.ErrInvalidModulusPrime
	}

	return ModPrimeBig{Exp: exp, Q: q, Phi: phi}, nil
}

// NextModPrimeBig walks q = ceil(qMin / 2^(exp+1)) * 2^(exp+1) + 1 upwards in
// steps of 2^(exp+1) until q is probably prime and a 2n-th root phi can be
// derived as exp successive square roots of q-1; a candidate whose root chain
// breaks is rejected and the walk continues.
func NextModPrimeBig(exp int, qMin *big.Int) ModPrimeBig {
	inc := new(big.Int).Lsh(big.NewInt(1), uint(exp+1))
	q := new(big.Int).Add(qMin, inc)
	q.Sub(q, big.NewInt(1)).Rsh(q, uint(exp+1))
	q.Lsh(q, uint(exp+1)).Add(q, big.NewInt(1))
	for {
		if q.ProbablyPrime(100) {
			phi := new(big.Int).Sub(q, big.NewInt(1))
			for i := 0; i < exp; i++ {
				if phi = new(big.Int).ModSqrt(phi, q); phi == nil {
					break
				}
			}
			if phi != nil {
				return ModPrimeBig{Exp: exp, Q: new(big.Int).Set(q), Phi: phi}
			}
		}
		q.Add(q, inc)
	}
}

// ModulusBig pre-computes the NTT tables for a single arbitrary-precision
// prime. Like Modulus, it is written once and read-only afterwards.
type ModulusBig struct {
	N     int
	Prime ModPrimeBig
	Q     *big.Int
	QDivK *big.Int
	// Phis[r] = phi^bitrev(r, exp) mod q; PhiInvs is the analogue for phi^-1.
	Phis    []*big.Int
	PhiInvs []*big.Int
	NInv    *big.Int
}

// NewModulusBig builds the tables for a single prime and plaintext modulus k.
func NewModulusBig(exp int, prime ModPrimeBig, k *big.Int) (*ModulusBig, error) {
	if prime.Exp != exp {
		return nil, internal.ErrInvalidModulusPrime
	}
	n := 1 << uint(exp)
	q := prime.Q
	mod := &ModulusBig{
		N:       n,
		Prime:   prime,
		Q:       q,
		QDivK:   new(big.Int).Div(q, k),
		Phis:    make([]*big.Int, n),
		PhiInvs: make([]*big.Int, n),
		NInv:    new(big.Int).ModInverse(big.NewInt(int64(n)), q),
	}
	phi := prime.Phi
	phiInv := new(big.Int).ModInverse(phi, q)
	phiX := big.NewInt(1)
	phiInvX := big.NewInt(1)
	for x := 0; x < n; x++ {
		revX := int(bits.Reverse32(uint32(x)) >> uint(32-exp))
		mod.Phis[revX] = new(big.Int).Set(phiX)
		mod.PhiInvs[revX] = new(big.Int).Set(phiInvX)
		phiX.Mul(phiX, phi).Mod(phiX, q)
		phiInvX.Mul(phiInvX, phiInv).Mod(phiInvX, q)
	}

	return mod, nil
}
