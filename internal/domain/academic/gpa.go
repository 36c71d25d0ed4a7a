package academic

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// GRADING RULES
// Pure computation, no I/O. The step function and rounding behavior are
// fixed policy: changing either changes every transcript in the system.
// ══════════════════════════════════════════════════════════════════════════════

// GradePoint maps a percentage to a grade point on the 4.0 scale.
// The mapping is a step function, not linear interpolation: 79.9 and 70.0
// land in the same bucket.
func GradePoint(percentage float64) float64 {
	switch {
	case percentage >= 90:
		return 4.0
	case percentage >= 80:
		return 3.0
	case percentage >= 70:
		return 2.0
	case percentage >= 60:
		return 1.0
	default:
		return 0.0
	}
}

// Round2 rounds to 2 decimal places, half-up on the 3rd decimal digit.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// WeightedGPA computes the credit-weighted GPA of the given results.
// Only PASS results contribute; everything else is skipped entirely rather
// than zero-weighted. Rounding is applied once, to the final value.
// Returns 0 when no credits accumulate.
func WeightedGPA(results []ExamResult) float64 {
	var weightedSum, totalCredits float64

	for _, r := range results {
		if r.Status != ResultPass {
			continue
		}
		credits := float64(r.Grade.Subject.Credits)
		weightedSum += GradePoint(r.Percentage()) * credits
		totalCredits += credits
	}

	if totalCredits == 0 {
		return 0
	}
	return Round2(weightedSum / totalCredits)
}
