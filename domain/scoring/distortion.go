package scoring

import (
	"math"

	"github.com/montanaflynn/stats"

	"psymatch/domain/core"
	"psymatch/domain/norm"
)

// ValidityCategory classifies the distortion scale score. High endorsement
// of the "too good to be true" items is the distorted direction.
type ValidityCategory string

const (
	ValidityValid   ValidityCategory = "valid"
	ValidityWarning ValidityCategory = "warning"
	ValidityInvalid ValidityCategory = "invalid"
)

// ResponsePattern flags suspicious shapes in the behavioral response stream.
type ResponsePattern string

const (
	PatternStraightLine ResponsePattern = "straight_line"
	PatternAlternating  ResponsePattern = "alternating"
	PatternRandom       ResponsePattern = "random"
)

// Recommendation is the combined validity verdict.
type Recommendation string

const (
	RecommendUse       Recommendation = "use"
	RecommendInterview Recommendation = "interview"
	RecommendDiscard   Recommendation = "discard"
)

// DistortionResult extends the scale result with the validity diagnostics.
type DistortionResult struct {
	Result
	Category       ValidityCategory  `json:"category"`
	Consistency    float64           `json:"consistency"`
	Patterns       []ResponsePattern `json:"patterns,omitempty"`
	Recommendation Recommendation    `json:"recommendation"`
}

// minimum stream length before the straight-line check is meaningful
const patternMinLength = 5

// ScoreDistortion scores the distortion scale from its Likert responses and
// runs pattern checks over the full behavioral stream (distortion items
// included, in administration order).
func ScoreDistortion(scaleID core.ScaleID, distortion []int, behavioralStream []int) (DistortionResult, error) {
	if len(distortion) == 0 {
		return DistortionResult{}, core.ErrEmptyResponses
	}

	sum := 0
	for _, v := range distortion {
		sum += v
	}
	sten := norm.LikertSumToSten(distortion)

	result := DistortionResult{
		Result: Result{
			ScaleID:    scaleID,
			Raw:        float64(sum),
			Sten:       sten,
			Percentile: norm.StenToPercentile(sten),
			ItemCount:  len(distortion),
		},
		Category:    categorize(sten),
		Consistency: consistencyScore(distortion),
		Patterns:    detectPatterns(behavioralStream),
	}
	result.Recommendation = recommend(result.Category, result.Patterns)
	return result, nil
}

// categorize maps the distortion STEN to a validity category. High scores
// mean over-endorsement of socially desirable statements (faking good).
func categorize(sten int) ValidityCategory {
	switch {
	case sten >= 7:
		return ValidityInvalid
	case sten >= 4:
		return ValidityWarning
	default:
		return ValidityValid
	}
}

// consistencyScore maps the response standard deviation onto a 0-100 score.
// A flat response set scores 0; spread at or above 1.5 SD saturates at 100.
func consistencyScore(responses []int) float64 {
	values := make([]float64, len(responses))
	for i, v := range responses {
		values[i] = float64(v)
	}

	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return math.Min(100.0, sd/1.5*100.0)
}

// detectPatterns runs the three stream checks from the validity layer.
func detectPatterns(stream []int) []ResponsePattern {
	var patterns []ResponsePattern
	if isStraightLine(stream) {
		patterns = append(patterns, PatternStraightLine)
	}
	if isAlternating(stream) {
		patterns = append(patterns, PatternAlternating)
	}
	if isRandomRuns(stream) {
		patterns = append(patterns, PatternRandom)
	}
	return patterns
}

// isStraightLine reports whether every response is identical (n>=5).
func isStraightLine(stream []int) bool {
	if len(stream) < patternMinLength {
		return false
	}
	for _, v := range stream[1:] {
		if v != stream[0] {
			return false
		}
	}
	return true
}

// isAlternating reports whether at least 80% of stride-2 pairs repeat,
// the signature of an A-B-A-B answering rhythm.
func isAlternating(stream []int) bool {
	n := len(stream)
	if n < patternMinLength {
		return false
	}

	matches := 0
	comparisons := n - 2
	for i := 0; i < comparisons; i++ {
		if stream[i] == stream[i+2] {
			matches++
		}
	}
	if comparisons == 0 {
		return false
	}
	// A straight line also repeats at stride 2; that case is reported by its
	// own check, not here.
	if isStraightLine(stream) {
		return false
	}
	return float64(matches) >= 0.8*float64(comparisons)
}

// isRandomRuns applies a coarse runs test: the number of runs in a random
// sequence concentrates near (2n-1)/3; being within 30% of that expectation
// marks the stream as random-looking.
func isRandomRuns(stream []int) bool {
	n := len(stream)
	if n < patternMinLength {
		return false
	}

	runs := 1
	for i := 1; i < n; i++ {
		if stream[i] != stream[i-1] {
			runs++
		}
	}

	expected := float64(2*n-1) / 3.0
	return math.Abs(float64(runs)-expected) < 0.3*expected
}

// recommend combines the category and pattern flags into the final verdict.
func recommend(category ValidityCategory, patterns []ResponsePattern) Recommendation {
	has := func(p ResponsePattern) bool {
		for _, candidate := range patterns {
			if candidate == p {
				return true
			}
		}
		return false
	}

	if category == ValidityInvalid || has(PatternRandom) {
		return RecommendDiscard
	}
	if category == ValidityWarning || has(PatternStraightLine) || has(PatternAlternating) {
		return RecommendInterview
	}
	return RecommendUse
}
