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

package sample_test

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"

	"github.com/fentec-project/rlwe-ipfe/sample"
)

const nSamples = 100000

// drawFACCT collects samples from a deterministic stream so the statistical
// checks cannot flake.
func drawFACCT(t *testing.T, sigma float64, seed string) []float64 {
	prng, err := sample.NewKeyedPRNG([]byte(seed))
	assert.NoError(t, err)
	sampler := sample.NewNormalFACCT(nil, sigma, prng)

	vals := make([]float64, nSamples)
	for i := range vals {
		v, err := sampler.SampleInt64()
		assert.NoError(t, err)
		vals[i] = float64(v)
	}
	return vals
}

func TestNormalFACCT_Statistics(t *testing.T) {
	var tests = []struct {
		name  string
		sigma float64
	}{
		{name: "sigma=1", sigma: 1},
		{name: "sigma=8", sigma: 8},
		{name: "sigma=1024", sigma: 1024},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// the sampler realizes sigma = k / sqrt(2*ln(2)) for the rounded k
			k := math.Round(test.sigma * sample.InvSigmaCDT)
			expSigma := k / sample.InvSigmaCDT

			vals := drawFACCT(t, test.sigma, "facct-stats-"+test.name)
			mean, _ := stats.Mean(vals)
			std, _ := stats.StandardDeviationSample(vals)

			assert.InDelta(t, 0, mean, 0.05*expSigma+0.05, "mean too far from 0")
			assert.InDelta(t, expSigma, std, 0.03*expSigma, "standard deviation off target")
		})
	}
}

func TestNormalFACCT_ZeroFrequency(t *testing.T) {
	// For sigma = 1, k = 1 and the output deviation is sqrt(1/(2*ln(2))), for
	// which P(0) = 1/(1 + 2*sum_{x>0} 2^(-x^2)) = 0.46972 if zero is not
	// double counted.
	vals := drawFACCT(t, 1, "facct-zero")
	zeros := 0
	for _, v := range vals {
		if v == 0 {
			zeros++
		}
	}
	got := float64(zeros) / float64(len(vals))
	assert.InDelta(t, 0.46972, got, 0.01, "zero frequency off the discrete Gaussian prediction")
}

func TestNormalFACCT_Symmetry(t *testing.T) {
	vals := drawFACCT(t, 8, "facct-symmetry")
	pos, neg := 0, 0
	for _, v := range vals {
		if v > 0 {
			pos++
		} else if v < 0 {
			neg++
		}
	}
	diff := math.Abs(float64(pos-neg)) / float64(len(vals))
	assert.Less(t, diff, 0.01, "support is not symmetric")
}

func TestNormalCDT_Range(t *testing.T) {
	prng, err := sample.NewKeyedPRNG([]byte("cdt-range"))
	assert.NoError(t, err)
	sampler := sample.NewNormalCDT(prng)
	for i := 0; i < 10000; i++ {
		v, err := sampler.Sample()
		assert.NoError(t, err)
		assert.True(t, v >= 0 && v <= 9, "CDT sample %d out of table range", v)
	}
}

func TestNormal_Statistics(t *testing.T) {
	prng, err := sample.NewKeyedPRNG([]byte("fast-stats"))
	assert.NoError(t, err)
	sampler := sample.NewNormal(nil, 10, prng)

	vals := make([]float64, nSamples)
	for i := range vals {
		v, err := sampler.SampleInt64()
		assert.NoError(t, err)
		vals[i] = float64(v)
	}
	mean, _ := stats.Mean(vals)
	std, _ := stats.StandardDeviationSample(vals)
	assert.InDelta(t, 0, mean, 0.5, "mean too far from 0")
	assert.InDelta(t, 10, std, 0.3, "standard deviation off target")
}
