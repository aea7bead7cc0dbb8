//go:build analysis

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

// Command analysis draws from the discrete Gaussian samplers, prints summary
// statistics and renders a histogram with the expected density overlaid, so
// sampler regressions show up as a visible skew.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ALTree/bigfloat"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	"github.com/fentec-project/rlwe-ipfe/sample"
)

func main() {
	log.SetFlags(0)
	sigma := flag.Float64("sigma", 8, "standard deviation of the sampled Gaussian")
	samples := flag.Int("samples", 200000, "number of samples per sampler")
	out := flag.String("o", "sampler_analysis.html", "output HTML file")
	flag.Parse()

	prng := sample.NewPRNG()
	facct := sample.NewNormalFACCT(nil, *sigma, prng)
	fast := sample.NewNormal(nil, *sigma, prng)

	page := components.NewPage()
	for _, src := range []struct {
		name   string
		sample func() (int64, error)
	}{
		{"FACCT", facct.SampleInt64},
		{"fast", fast.SampleInt64},
	} {
		vals := make([]float64, *samples)
		for i := range vals {
			v, err := src.sample()
			if err != nil {
				log.Fatalf("%s sampler: %v", src.name, err)
			}
			vals[i] = float64(v)
		}
		mean, _ := stats.Mean(vals)
		std, _ := stats.StandardDeviationSample(vals)
		log.Printf("%s: n=%d mean=%f std=%f (target sigma %f)", src.name, len(vals), mean, std, *sigma)
		page.AddCharts(histogram(src.name, vals, *sigma, *samples))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s", *out)
}

// histogram buckets the integer samples over [-4*sigma, 4*sigma] and overlays
// the expected counts of the discrete Gaussian.
func histogram(name string, vals []float64, sigma float64, samples int) *charts.Bar {
	span := int64(4 * sigma)
	if span < 4 {
		span = 4
	}
	counts := make([]int, 2*span+1)
	for _, v := range vals {
		idx := int64(v) + span
		if idx >= 0 && idx < int64(len(counts)) {
			counts[idx]++
		}
	}

	expected := expectedCounts(span, sigma, samples)
	labels := make([]string, len(counts))
	barItems := make([]opts.BarData, len(counts))
	lineItems := make([]opts.LineData, len(counts))
	for i := range counts {
		labels[i] = fmt.Sprintf("%d", int64(i)-span)
		barItems[i] = opts.BarData{Value: counts[i]}
		lineItems[i] = opts.LineData{Value: expected[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: name + " sampler", Subtitle: fmt.Sprintf("sigma=%g, n=%d", sigma, samples)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("observed", barItems).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries("expected", lineItems)
	bar.Overlap(line)
	return bar
}

// expectedCounts evaluates the discrete Gaussian weights exp(-x^2/(2*sigma^2))
// on [-span, span] with big floats, normalizes them over that window and
// scales to the sample count.
func expectedCounts(span int64, sigma float64, samples int) []float64 {
	const prec = 128
	weights := make([]*big.Float, 2*span+1)
	total := new(big.Float).SetPrec(prec)
	twoSigmaSquare := new(big.Float).SetPrec(prec).SetFloat64(2 * sigma * sigma)
	for x := -span; x <= span; x++ {
		e := new(big.Float).SetPrec(prec).SetInt64(-x * x)
		e.Quo(e, twoSigmaSquare)
		w := bigfloat.Exp(e)
		weights[x+span] = w
		total.Add(total, w)
	}
	out := make([]float64, len(weights))
	scale := new(big.Float).SetPrec(prec).SetInt64(int64(samples))
	for i, w := range weights {
		w.Quo(w, total).Mul(w, scale)
		out[i], _ = w.Float64()
	}
	return out
}
