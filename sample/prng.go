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
	"crypto/rand"

	"golang.org/x/crypto/blake2b"
)

// PRNG is a source of random bytes. Key generation and encryption consume it
// through the samplers in this package; it must be cryptographically secure
// whenever the resulting keys or ciphertexts are meant to protect anything.
type PRNG interface {
	Read(p []byte) (n int, err error)
}

// SecurePRNG reads from the operating system entropy source.
type SecurePRNG struct{}

// NewPRNG returns a PRNG backed by crypto/rand.
func NewPRNG() *SecurePRNG {
	return &SecurePRNG{}
}

func (prng *SecurePRNG) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

// KeyedPRNG produces a deterministic stream of bytes expanded from a key with
// the blake2b XOF. Two instances with the same key yield identical streams,
// which makes keys and ciphertexts reproducible for a fixed key. It must not
// be shared between goroutines.
type KeyedPRNG struct {
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a KeyedPRNG seeded with key.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}
	return &KeyedPRNG{key: append([]byte(nil), key...), xof: xof}, nil
}

// Key returns a copy of the seed key.
func (prng *KeyedPRNG) Key() []byte {
	return append([]byte(nil), prng.key...)
}

// Reset rewinds the stream to its beginning.
func (prng *KeyedPRNG) Reset() {
	prng.xof.Reset()
}

func (prng *KeyedPRNG) Read(p []byte) (n int, err error) {
	return prng.xof.Read(p)
}
