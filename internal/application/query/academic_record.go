// Package query contains read operations. Every query here is
// best-effort: failures are logged and converted into a safe default
// (0, nil, empty), never surfaced to the caller. Write operations with
// propagating errors live in the command package; the asymmetry is
// deliberate and must not be unified.
package query

import (
	"context"

	"github.com/campus-hub/campus-management-hub/internal/domain/academic"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE AGGREGATION QUERIES
// CGPA and per-semester GPA on the 4.0 scale, credit-weighted over a
// student's passed exam results. A result of 0 is deliberately ambiguous
// between "no passing results yet" and "computation failed".
// ══════════════════════════════════════════════════════════════════════════════

// SemesterPerformance is one semester's GPA within an academic record.
type SemesterPerformance struct {
	SemesterID string  `json:"semester"`
	GPA        float64 `json:"gpa"`
}

// AcademicRecord is a student's cumulative GPA plus the per-semester
// breakdown, ordered by exam date of the semester's first passing result.
type AcademicRecord struct {
	CGPA                float64               `json:"cgpa"`
	SemesterPerformance []SemesterPerformance `json:"semesterPerformance"`
}

// GradeReader computes GPA aggregates from passed exam results.
type GradeReader struct {
	results academic.ExamResultRepository
	log     *logger.Logger
}

// NewGradeReader creates a new GradeReader.
func NewGradeReader(results academic.ExamResultRepository, log *logger.Logger) *GradeReader {
	return &GradeReader{
		results: results,
		log:     log.With(logger.Component("grade_reader")),
	}
}

// CGPA returns the student's cumulative GPA across all semesters.
// Returns 0 when the student has no passing results or retrieval fails.
func (g *GradeReader) CGPA(ctx context.Context, studentID string) float64 {
	results, err := g.results.FindPassed(ctx, studentID)
	if err != nil {
		g.log.Error("failed to fetch exam results for CGPA",
			logger.StudentID(studentID),
			logger.Err(err),
		)
		return 0
	}
	return academic.WeightedGPA(results)
}

// SemesterGPA returns the student's GPA for one semester.
// Returns 0 when there are no passing results or retrieval fails.
func (g *GradeReader) SemesterGPA(ctx context.Context, studentID, semesterID string) float64 {
	results, err := g.results.FindPassedBySemester(ctx, studentID, semesterID)
	if err != nil {
		g.log.Error("failed to fetch exam results for semester GPA",
			logger.StudentID(studentID),
			logger.SemesterID(semesterID),
			logger.Err(err),
		)
		return 0
	}
	return academic.WeightedGPA(results)
}

// AcademicRecord returns the student's CGPA together with a GPA entry for
// every semester holding at least one passing graded result. On failure
// it returns an empty record.
func (g *GradeReader) AcademicRecord(ctx context.Context, studentID string) AcademicRecord {
	results, err := g.results.FindPassed(ctx, studentID)
	if err != nil {
		g.log.Error("failed to fetch exam results for academic record",
			logger.StudentID(studentID),
			logger.Err(err),
		)
		return AcademicRecord{}
	}

	record := AcademicRecord{
		CGPA: academic.WeightedGPA(results),
	}

	// Group by semester preserving first-appearance order; results arrive
	// ordered by exam date, so semesters come out chronologically.
	bySemester := map[string][]academic.ExamResult{}
	var order []string
	for _, r := range results {
		semesterID := r.Exam.SemesterID
		if _, seen := bySemester[semesterID]; !seen {
			order = append(order, semesterID)
		}
		bySemester[semesterID] = append(bySemester[semesterID], r)
	}

	for _, semesterID := range order {
		record.SemesterPerformance = append(record.SemesterPerformance, SemesterPerformance{
			SemesterID: semesterID,
			GPA:        academic.WeightedGPA(bySemester[semesterID]),
		})
	}

	return record
}
