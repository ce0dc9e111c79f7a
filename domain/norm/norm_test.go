package norm

import (
	"math"
	"testing"
)

// TestRawToStenBounds verifies STEN output stays in [1,10] and the endpoints
// map exactly to the scale extremes.
func TestRawToStenBounds(t *testing.T) {
	if got := RawToSten(80, 80, 400); got != 1 {
		t.Errorf("RawToSten(min) = %d, want 1", got)
	}
	if got := RawToSten(400, 80, 400); got != 10 {
		t.Errorf("RawToSten(max) = %d, want 10", got)
	}
	// Clamping outside the declared bounds
	if got := RawToSten(-50, 80, 400); got != 1 {
		t.Errorf("RawToSten(below min) = %d, want 1", got)
	}
	if got := RawToSten(1e6, 80, 400); got != 10 {
		t.Errorf("RawToSten(above max) = %d, want 10", got)
	}

	for raw := 80.0; raw <= 400.0; raw += 1.0 {
		sten := RawToSten(raw, 80, 400)
		if sten < StenMin || sten > StenMax {
			t.Fatalf("RawToSten(%f) = %d outside [1,10]", raw, sten)
		}
	}
}

// TestRawToStenMonotonic verifies STEN is non-decreasing in the raw score.
func TestRawToStenMonotonic(t *testing.T) {
	prev := 0
	for raw := 0.0; raw <= 100.0; raw += 0.25 {
		sten := RawToSten(raw, 0, 100)
		if sten < prev {
			t.Fatalf("RawToSten not monotonic: raw=%f sten=%d prev=%d", raw, sten, prev)
		}
		prev = sten
	}
}

// TestRawToStenMidpoint covers the documented conversion scenario:
// raw 240 on [80,400] is the exact midpoint, z=0, STEN=round(5.5)=6.
func TestRawToStenMidpoint(t *testing.T) {
	if got := RawToSten(240, 80, 400); got != 6 {
		t.Errorf("RawToSten(240, 80, 400) = %d, want 6", got)
	}
}

// TestInverseRoundTrip verifies CDF(Inverse(p)) recovers p.
func TestInverseRoundTrip(t *testing.T) {
	for _, p := range []float64{0.01, 0.25, 0.5, 0.75, 0.99} {
		got := CDF(Inverse(p))
		if math.Abs(got-p) > 1e-6 {
			t.Errorf("CDF(Inverse(%f)) = %f, error %g > 1e-6", p, got, math.Abs(got-p))
		}
	}
}

// TestInverseClampsTails verifies out-of-contract probabilities do not panic.
func TestInverseClampsTails(t *testing.T) {
	if z := Inverse(0); !(z < -6) {
		t.Errorf("Inverse(0) = %f, want deep negative tail", z)
	}
	if z := Inverse(1); !(z > 6) {
		t.Errorf("Inverse(1) = %f, want deep positive tail", z)
	}
}

// TestLikertSumToSten verifies the Likert bounds n*1 and n*5.
func TestLikertSumToSten(t *testing.T) {
	allOnes := []int{1, 1, 1, 1, 1}
	if got := LikertSumToSten(allOnes); got != 1 {
		t.Errorf("LikertSumToSten(all 1s) = %d, want 1", got)
	}

	allFives := make([]int, 15)
	for i := range allFives {
		allFives[i] = 5
	}
	if got := LikertSumToSten(allFives); got != 10 {
		t.Errorf("LikertSumToSten(all 5s) = %d, want 10", got)
	}

	neutral := []int{3, 3, 3, 3, 3}
	if got := LikertSumToSten(neutral); got != 6 {
		t.Errorf("LikertSumToSten(all 3s) = %d, want 6 (midpoint)", got)
	}

	if got := LikertSumToSten(nil); got != 1 {
		t.Errorf("LikertSumToSten(empty) = %d, want 1", got)
	}
}

// TestStenToPercentile verifies the logistic ogive approximation at the
// extremes and around the scale mean.
func TestStenToPercentile(t *testing.T) {
	if got := StenToPercentile(1); got > 5 {
		t.Errorf("StenToPercentile(1) = %d, want low tail", got)
	}
	if got := StenToPercentile(10); got < 95 {
		t.Errorf("StenToPercentile(10) = %d, want high tail", got)
	}

	// 5 and 6 straddle the population mean of 5.5
	low, high := StenToPercentile(5), StenToPercentile(6)
	if low >= 50 || high <= 50 {
		t.Errorf("StenToPercentile(5)=%d, StenToPercentile(6)=%d, want straddle of 50", low, high)
	}
	if low+high != 100 {
		t.Errorf("percentiles of 5 and 6 should be symmetric about 50, got %d+%d", low, high)
	}
}

// TestThetaToSten verifies the linear theta mapping with clamping.
func TestThetaToSten(t *testing.T) {
	cases := []struct {
		theta float64
		want  int
	}{
		{0, 6},
		{-0.25, 5},
		{1, 8},
		{-1, 4},
		{4, 10},
		{-4, 1},
		{10, 10},
		{-10, 1},
	}
	for _, c := range cases {
		if got := ThetaToSten(c.theta); got != c.want {
			t.Errorf("ThetaToSten(%f) = %d, want %d", c.theta, got, c.want)
		}
	}
}

// TestRankToPercentile verifies the mid-rank formula for six competing scales.
func TestRankToPercentile(t *testing.T) {
	// (6 - 1 + 0.5) / 6 * 100
	if got := RankToPercentile(1, 6); math.Abs(got-91.666666) > 1e-4 {
		t.Errorf("RankToPercentile(1, 6) = %f, want ~91.67", got)
	}
	if got := RankToPercentile(6, 6); math.Abs(got-8.333333) > 1e-4 {
		t.Errorf("RankToPercentile(6, 6) = %f, want ~8.33", got)
	}

	// Percentiles across all ranks sum to 300 (mid-rank symmetry)
	sum := 0.0
	for r := 1; r <= 6; r++ {
		sum += RankToPercentile(r, 6)
	}
	if math.Abs(sum-300.0) > 1e-9 {
		t.Errorf("sum of mid-rank percentiles = %f, want 300", sum)
	}
}
