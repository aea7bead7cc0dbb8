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

// cdtTable is a precomputed cumulative distribution table with which one can
// sample a constant-time half-Gaussian with sigma = sqrt(1/(2*ln(2))). Each
// entry is a 128-bit threshold stored as two 64-bit halves whose top bit is
// masked off before comparison.
var cdtTable = [][2]uint64{
	{2200310400551559144, 3327841033070651387},
	{7912151619254726620, 380075531178589176},
	{5167367257772081627, 11604843442081400},
	{5081592746475748971, 90134450315532},
	{6522074513864805092, 175786317361},
	{2579734681240182346, 85801740},
	{8175784047440310133, 10472},
	{2947787991558061753, 0},
	{22489665999543, 0},
}

var cdtLen = 9 // upper bound on sample values

var cdtLowMask = uint64(0x7fffffffffffffff)

// NormalCDT samples non-negative values x with probability proportional to
// exp(-x^2/(2*sigma^2)) for the fixed sigma = sqrt(1/(2*ln(2))), by a
// branch-free scan of the cumulative table against double 63-bit randomness.
// The implementation is based on the paper:
// "FACCT: FAst, Compact, and Constant-Time Discrete Gaussian
// Sampler over Integers" by R. K. Zhao, R. Steinfeld, and A. Sakzad
// (https://eprint.iacr.org/2018/1234.pdf).
type NormalCDT struct {
	prng PRNG
}

// NewNormalCDT returns the half-Gaussian base sampler drawing from prng.
func NewNormalCDT(prng PRNG) *NormalCDT {
	return &NormalCDT{prng: prng}
}

// Sample draws a value from {0, ..., 9}.
func (c *NormalCDT) Sample() (int64, error) {
	r1, err := randUint64(c.prng)
	if err != nil {
		return 0, err
	}
	r2, err := randUint64(c.prng)
	if err != nil {
		return 0, err
	}
	r1 &= cdtLowMask
	r2 &= cdtLowMask

	x := uint64(0)
	for i := 0; i < cdtLen; i++ {
		x += (((r1 - cdtTable[i][0]) & ((uint64(1) << 63) ^ ((r2 - cdtTable[i][1]) | (cdtTable[i][1] - r2)))) | (r2 - cdtTable[i][1])) >> 63
	}

	return int64(x), nil
}
