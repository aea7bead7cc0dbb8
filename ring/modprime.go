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

// chainBase is the lower end of the word-sized prime search. Primes found
// above it stay below 2^32, so residues fit uint32 and products fit uint64.
const chainBase = uint64(1) << 30

// ModPrime is a word-sized prime q with q = 1 (mod 2n) for n = 2^exp,
// together with a primitive 2n-th root of unity phi, phi^n = -1 (mod q).
type ModPrime struct {
	Exp int
	Q   uint32
	Phi uint32
}

// NewModPrime checks that phi is a valid root of X^n + 1 modulo q and
// returns the prime. It fails with ErrInvalidModulusPrime if q is not prime,
// q != 1 (mod 2n), or phi^n != -1 (mod q).
func NewModPrime(exp int, q, phi uint32) (ModPrime, error) {
	qBig := big.NewInt(int64(q))
	if !qBig.ProbablyPrime(100) {
		return ModPrime{}, internal.ErrInvalidModulusPrime
	}
	twoN := uint64(1) << uint(exp+1)
	if uint64(q)%twoN != 1 {
		return ModPrime{}, internal.ErrInvalidModulusPrime
	}
	pow := new(big.Int).Exp(big.NewInt(int64(phi)), big.NewInt(int64(uint64(1)<<uint(exp))), qBig)
	if pow.Cmp(new(big.Int).Sub(qBig, big.NewInt(1))) != 0 {
		return ModPrime{}, internal.ErrInvalidModulusPrime
	}

	return ModPrime{Exp: exp, Q: q, Phi: phi}, nil
}

// QBig returns q as a big integer.
func (p ModPrime) QBig() *big.Int {
	return big.NewInt(int64(p.Q))
}

// nextModPrime walks the recurrence q = ceil(qMin / 2^(exp+1)) * 2^(exp+1) + 1,
// incrementing by 2^(exp+1), until q is prime and a primitive 2n-th root can
// be derived by exp successive modular square roots of q-1.
func nextModPrime(exp int, qMin uint64) (ModPrime, error) {
	inc := uint64(1) << uint(exp+1)
	q := (qMin+inc-1)>>uint(exp+1)<<uint(exp+1) + 1
	for ; q < uint64(1)<<32; q += inc {
		qBig := new(big.Int).SetUint64(q)
		if !qBig.ProbablyPrime(100) {
			continue
		}
		phi := new(big.Int).Sub(qBig, big.NewInt(1))
		ok := true
		for i := 0; i < exp; i++ {
			if phi = new(big.Int).ModSqrt(phi, qBig); phi == nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		return NewModPrime(exp, uint32(q), uint32(phi.Uint64()))
	}

	return ModPrime{}, internal.ErrInvalidModulusPrime
}

// Primes builds a chain of pairwise distinct word-sized NTT primes whose
// product exceeds qMin. Each search position restarts the recurrence just
// above the previously found prime, so the chain comes out sorted.
func Primes(exp int, qMin *big.Int) ([]ModPrime, *big.Int, error) {
	primes := make([]ModPrime, 0, qMin.BitLen()/30+1)
	product := big.NewInt(1)
	after := chainBase
	for product.Cmp(qMin) <= 0 {
		p, err := nextModPrime(exp, after)
		if err != nil {
			return nil, nil, err
		}
		primes = append(primes, p)
		product.Mul(product, p.QBig())
		after = uint64(p.Q)
	}

	return primes, product, nil
}
