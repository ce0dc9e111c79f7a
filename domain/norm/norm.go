// Package norm provides the normative statistical primitives: normal
// distribution helpers and raw-to-STEN conversions. All functions are pure
// and deterministic.
//
// STEN (Standard Ten) scores are integers in [1,10] with population mean 5.5
// and standard deviation 2.
package norm

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// STEN scale bounds
const (
	StenMin = 1
	StenMax = 10

	stenMean = 5.5
	stenSD   = 2.0
)

var unitNormal = distuv.UnitNormal

// CDF returns the standard normal cumulative distribution function at x.
func CDF(x float64) float64 {
	return unitNormal.CDF(x)
}

// Inverse returns the standard normal quantile for probability p.
// p must lie strictly inside (0, 1); out-of-range inputs are clamped to the
// nearest representable tail so the function never panics.
func Inverse(p float64) float64 {
	const tail = 1e-12
	if p <= 0 {
		p = tail
	}
	if p >= 1 {
		p = 1 - tail
	}
	return unitNormal.Quantile(p)
}

// ClampSten clamps an integer score to the STEN range [1,10].
func ClampSten(sten int) int {
	if sten < StenMin {
		return StenMin
	}
	if sten > StenMax {
		return StenMax
	}
	return sten
}

// RawToSten converts a raw score with known bounds to a STEN score.
// The raw value is clamped to [rawMin, rawMax], converted to a proportion,
// mapped through the inverse normal, and rescaled to mean 5.5 / SD 2.
// The endpoints map exactly to 1 and 10.
func RawToSten(raw, rawMin, rawMax float64) int {
	if rawMax <= rawMin {
		return StenMin
	}
	if raw < rawMin {
		raw = rawMin
	}
	if raw > rawMax {
		raw = rawMax
	}

	proportion := (raw - rawMin) / (rawMax - rawMin)
	if proportion == 0 {
		return StenMin
	}
	if proportion == 1 {
		return StenMax
	}

	z := Inverse(proportion)
	return ClampSten(int(math.Round(stenMean + stenSD*z)))
}

// LikertSumToSten converts a set of 1-5 Likert responses to a STEN score
// by summing and normalizing against the theoretical bounds n*1 and n*5.
func LikertSumToSten(responses []int) int {
	n := len(responses)
	if n == 0 {
		return StenMin
	}

	sum := 0
	for _, r := range responses {
		sum += r
	}
	return RawToSten(float64(sum), float64(n), float64(n*5))
}

// StenToPercentile approximates the percentile rank of a STEN score using a
// logistic approximation to the normal ogive (scaling constant 1.7).
func StenToPercentile(sten int) int {
	z := float64(sten)
	p := 100.0 / (1.0 + math.Exp(-1.7*(z-stenMean)/stenSD))
	return int(math.Round(p))
}

// ThetaToSten converts an IRT ability estimate (mean 0, SD 1) to a STEN score.
func ThetaToSten(theta float64) int {
	return ClampSten(int(math.Round(stenMean + stenSD*theta)))
}

// RankToPercentile converts a 1-indexed rank among n competitors to a
// mid-rank percentile: (n - rank + 0.5) / n * 100. Rank 1 is the winner.
func RankToPercentile(rank, n int) float64 {
	if n <= 0 {
		return 0
	}
	return (float64(n-rank) + 0.5) / float64(n) * 100.0
}

// PercentileToSten converts a percentile (0-100) to a STEN score through the
// inverse normal.
func PercentileToSten(percentile float64) int {
	return RawToSten(percentile, 0, 100)
}
