package matching

import (
	"math"
	"sort"

	"psymatch/domain/core"
)

// Domain weighting of the overall fit: cognitive and behavioral carry 40%
// each, interests 20%.
const (
	cognitiveWeight  = 0.4
	behavioralWeight = 0.4
	interestWeight   = 0.2
)

// Distance returns how many STEN points the candidate sits outside the band;
// zero inside it.
func Distance(sten, min, max int) int {
	d := 0
	if sten < min {
		d += min - sten
	}
	if sten > max {
		d += sten - max
	}
	return d
}

// Penalty applies the distance-decay curve 1 - (0.15d + 0.05d^2), floored at
// zero. One point off costs 20%, three points 90%, five or more everything.
func Penalty(distance int) float64 {
	d := float64(distance)
	p := 1.0 - (0.15*d + 0.05*d*d)
	if p < 0 {
		return 0
	}
	return p
}

// DomainFit aggregates the weighted penalties of every range the candidate
// has a score for, scaled to 0-100. Unscored ranges contribute nothing;
// an entirely unscored domain fits 0.
func DomainFit(ranges []ScaleRange, stens map[core.ScaleID]int) float64 {
	weightedSum := 0.0
	weightTotal := 0.0
	for _, r := range ranges {
		sten, ok := stens[r.ScaleID]
		if !ok {
			continue
		}
		weightedSum += Penalty(Distance(sten, r.Min, r.Max)) * r.Weight
		weightTotal += r.Weight
	}
	if weightTotal == 0 {
		return 0
	}
	return weightedSum / weightTotal * 100.0
}

// ModelTopInterests ranks the model's interest ranges by band midpoint,
// highest first, ties broken by ascending scale ID. At most the leading
// three are returned.
func ModelTopInterests(ranges []ScaleRange) []core.ScaleID {
	sorted := make([]ScaleRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		mi, mj := sorted[i].Midpoint(), sorted[j].Midpoint()
		if mi != mj {
			return mi > mj
		}
		return sorted[i].ScaleID < sorted[j].ScaleID
	})

	k := 3
	if len(sorted) < k {
		k = len(sorted)
	}
	top := make([]core.ScaleID, k)
	for i := 0; i < k; i++ {
		top[i] = sorted[i].ScaleID
	}
	return top
}

// InterestFit scores positional agreement between the candidate's and the
// model's top-3 interests: a 33% base plus ~22% per matching position,
// landing on {33, 56, 78, 100}.
func InterestFit(candidateTop, modelTop []core.ScaleID) int {
	matches := 0
	for i := 0; i < 3; i++ {
		if i < len(candidateTop) && i < len(modelTop) && candidateTop[i] == modelTop[i] {
			matches++
		}
	}
	return int(math.Round(33.33 + float64(matches)*22.22))
}

// Overall blends the three domain fits 0.4/0.4/0.2, rounded and clamped to
// [0,100].
func Overall(cognitive, behavioral float64, interests int) int {
	fit := int(math.Round(cognitiveWeight*cognitive + behavioralWeight*behavioral + interestWeight*float64(interests)))
	if fit < 0 {
		return 0
	}
	if fit > 100 {
		return 100
	}
	return fit
}

// Deviations builds the per-scale diagnostic records for every range the
// candidate has a score for, in ascending scale ID order.
func Deviations(ranges []ScaleRange, stens map[core.ScaleID]int) []Deviation {
	deviations := make([]Deviation, 0, len(ranges))
	for _, r := range ranges {
		sten, ok := stens[r.ScaleID]
		if !ok {
			continue
		}
		d := Distance(sten, r.Min, r.Max)
		direction := DirectionIn
		switch {
		case sten > r.Max:
			direction = DirectionHigh
		case sten < r.Min:
			direction = DirectionLow
		}
		deviations = append(deviations, Deviation{
			ScaleID:   r.ScaleID,
			Sten:      sten,
			TargetMin: r.Min,
			TargetMax: r.Max,
			Distance:  d,
			Direction: direction,
		})
	}
	sort.Slice(deviations, func(i, j int) bool { return deviations[i].ScaleID < deviations[j].ScaleID })
	return deviations
}

// Compute runs the full match over a pre-partitioned input.
func Compute(input Input) JobMatch {
	allRanges := make([]ScaleRange, 0, len(input.CognitiveRanges)+len(input.BehavioralRanges)+len(input.InterestRanges))
	allRanges = append(allRanges, input.CognitiveRanges...)
	allRanges = append(allRanges, input.BehavioralRanges...)
	allRanges = append(allRanges, input.InterestRanges...)

	var missing []core.ScaleID
	for _, r := range allRanges {
		if _, ok := input.Stens[r.ScaleID]; !ok {
			missing = append(missing, r.ScaleID)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	cognitive := DomainFit(input.CognitiveRanges, input.Stens)
	behavioral := DomainFit(input.BehavioralRanges, input.Stens)
	interests := InterestFit(input.TopInterests, ModelTopInterests(input.InterestRanges))

	return JobMatch{
		Overall:       Overall(cognitive, behavioral, interests),
		CognitiveFit:  cognitive,
		BehavioralFit: behavioral,
		InterestFit:   interests,
		Deviations:    Deviations(allRanges, input.Stens),
		MissingScales: missing,
	}
}
