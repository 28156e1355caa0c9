// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pass

import "math"

// MaxBlurRadius is the largest supported blur radius.
const MaxBlurRadius = 20

// BleedRadius is the half width of the fixed bleed kernel.
const BleedRadius = 10

// WeightTable holds one half Gaussian kernel per blur radius. Row r has r
// entries: the center weight followed by r-1 side taps applied on both
// sides of the center.
type WeightTable [MaxBlurRadius + 1][]float32

// Weights is the table shared by all blur passes.
var Weights = NewWeightTable()

// publishedWeights are the half kernels of the published algorithm for
// radii 1 through 10.
var publishedWeights = [...][]float32{
	{1},
	{0.44198, 0.27901},
	{0.250301, 0.221461, 0.153388},
	{0.214607, 0.189879, 0.131514, 0.071303},
	{0.20236, 0.179044, 0.124009, 0.067234, 0.028532},
	{0.141836, 0.13424, 0.113806, 0.086425, 0.05879, 0.035822},
	{0.136498, 0.129188, 0.109523, 0.083173, 0.056577, 0.034474, 0.018816},
	{0.105915, 0.102673, 0.093531, 0.080066, 0.064408, 0.048689, 0.034587, 0.023089},
	{0.102934, 0.099783, 0.090898, 0.077812, 0.062595, 0.047318, 0.033613, 0.022439, 0.014076},
	{0.101253, 0.098154, 0.089414, 0.076542, 0.061573, 0.046546, 0.033065, 0.022072, 0.013846, 0.008162},
}

// NewWeightTable builds the table. Radii up to 10 use the published
// kernels. Larger radii are Gaussians with sigma = r/2.5, normalized so the
// full symmetric kernel sums to 1; at radius 10 that formula stays within
// 3e-4 of the published row.
func NewWeightTable() *WeightTable {
	var t WeightTable
	for r, row := range publishedWeights {
		t[r+1] = append([]float32(nil), row...)
	}
	for r := len(publishedWeights) + 1; r <= MaxBlurRadius; r++ {
		t[r] = gaussianRow(r)
	}
	return &t
}

func gaussianRow(r int) []float32 {
	sigma := float64(r) / 2.5
	raw := make([]float64, r)
	sum := 0.0
	for i := range raw {
		x := float64(i)
		raw[i] = math.Exp(-x * x / (2 * sigma * sigma))
		if i == 0 {
			sum += raw[i]
		} else {
			sum += 2 * raw[i]
		}
	}
	row := make([]float32, r)
	for i := range raw {
		row[i] = float32(raw[i] / sum)
	}
	return row
}

// Row returns the half kernel for radius, clamped to 1..MaxBlurRadius.
func (t *WeightTable) Row(radius int) []float32 {
	return t[ClampRadius(radius)]
}

// ClampRadius clamps a blur radius to 1..MaxBlurRadius.
func ClampRadius(radius int) int {
	return min(max(radius, 1), MaxBlurRadius)
}

// bleedKernel is the fixed 21-tap bleed kernel, indexed by offset+10.
// The published constants are rounded to six digits and are renormalized
// so a pixel that bleeds from every tap keeps its brightness.
var bleedKernel = normalize21([2*BleedRadius + 1]float32{
	0.043959, 0.045015, 0.045982, 0.046852, 0.047619, 0.048278, 0.048825,
	0.049254, 0.049562, 0.049748, 0.049811, 0.049748, 0.049562, 0.049254,
	0.048825, 0.048278, 0.047619, 0.046852, 0.045982, 0.045015, 0.043959,
})

func normalize21(k [2*BleedRadius + 1]float32) [2*BleedRadius + 1]float32 {
	var sum float64
	for _, w := range k {
		sum += float64(w)
	}
	for i := range k {
		k[i] = float32(float64(k[i]) / sum)
	}
	return k
}

// BleedKernel returns a copy of the normalized bleed kernel.
func BleedKernel() [2*BleedRadius + 1]float32 { return bleedKernel }
