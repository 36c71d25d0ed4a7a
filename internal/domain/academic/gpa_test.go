package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func passedResult(marks, maxMarks float64, credits int) ExamResult {
	return ExamResult{
		Status: ResultPass,
		Grade: Grade{
			MarksObtained: marks,
			Subject:       Subject{Credits: credits},
		},
		Exam: Exam{MaxMarks: maxMarks},
	}
}

func TestGradePoint_StepFunction(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		want       float64
	}{
		{"exactly 90 maps to 4.0", 90.0, 4.0},
		{"just below 90 maps to 3.0", 89.999, 3.0},
		{"exactly 80 maps to 3.0", 80.0, 3.0},
		{"79.9 and 70.0 share a bucket", 79.9, 2.0},
		{"exactly 70 maps to 2.0", 70.0, 2.0},
		{"exactly 60 maps to 1.0", 60.0, 1.0},
		{"below 60 maps to 0", 59.99, 0.0},
		{"perfect score", 100.0, 4.0},
		{"zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradePoint(tt.percentage))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.71, Round2(19.0/7.0))
	assert.Equal(t, 0.13, Round2(0.125)) // half-up on the 3rd decimal, not banker's rounding
	assert.Equal(t, 3.0, Round2(2.999))
	assert.Equal(t, 0.0, Round2(0))
}

func TestWeightedGPA_MixedResults(t *testing.T) {
	// 95% on 4 credits -> 4.0, 65% on 3 credits -> 1.0, FAIL excluded.
	results := []ExamResult{
		passedResult(95, 100, 4),
		passedResult(65, 100, 3),
		{
			Status: ResultFail,
			Grade:  Grade{MarksObtained: 50, Subject: Subject{Credits: 2}},
			Exam:   Exam{MaxMarks: 100},
		},
	}

	// (4.0*4 + 1.0*3) / 7 = 19/7 = 2.714... -> 2.71
	assert.Equal(t, 2.71, WeightedGPA(results))
}

func TestWeightedGPA_NonPassStatusesExcluded(t *testing.T) {
	results := []ExamResult{
		passedResult(95, 100, 4),
	}
	for _, status := range []ResultStatus{ResultFail, ResultPending, ResultWithheld} {
		r := passedResult(100, 100, 10)
		r.Status = status
		results = append(results, r)
	}

	// Only the single PASS result contributes.
	assert.Equal(t, 4.0, WeightedGPA(results))
}

func TestWeightedGPA_ZeroCredits(t *testing.T) {
	assert.Equal(t, 0.0, WeightedGPA(nil))
	assert.Equal(t, 0.0, WeightedGPA([]ExamResult{}))
	assert.Equal(t, 0.0, WeightedGPA([]ExamResult{passedResult(95, 100, 0)}))
}

func TestWeightedGPA_CreditWeightIsAggregationOnly(t *testing.T) {
	// All results in the same bucket: GPA equals the bucket's grade point
	// regardless of how credits are distributed.
	results := []ExamResult{
		passedResult(92, 100, 1),
		passedResult(95, 100, 6),
		passedResult(99, 100, 3),
	}
	assert.Equal(t, 4.0, WeightedGPA(results))
}

func TestWeightedGPA_PercentageFromMaxMarks(t *testing.T) {
	// 45/50 = 90% -> 4.0, not based on raw marks.
	assert.Equal(t, 4.0, WeightedGPA([]ExamResult{passedResult(45, 50, 3)}))

	// Zero max marks must not divide by zero.
	assert.Equal(t, 0.0, WeightedGPA([]ExamResult{passedResult(45, 0, 3)}))
}

func TestWeightedGPA_RoundingOnlyAtTheEnd(t *testing.T) {
	// 89.5% stays 3.0: intermediate percentages are never rounded up
	// into the next bucket.
	assert.Equal(t, 3.0, WeightedGPA([]ExamResult{passedResult(89.5, 100, 3)}))
}
