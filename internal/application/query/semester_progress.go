package query

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/campus-hub/campus-management-hub/internal/domain/academic"
	"github.com/campus-hub/campus-management-hub/internal/domain/shared"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEMESTER PROGRESS QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// CurrentSemesterView is the composite view of a student's position in
// their program, built from the ACTIVE enrollment.
type CurrentSemesterView struct {
	CurrentSemester  int                       `json:"currentSemester"`
	Semester         academic.Semester         `json:"semester"`
	AcademicYear     academic.AcademicYear     `json:"academicYear"`
	Course           academic.Course           `json:"course"`
	Status           academic.EnrollmentStatus `json:"status"`
	TotalCredits     int                       `json:"totalCredits"`
	CompletedCredits int                       `json:"completedCredits"`
	CGPA             float64                   `json:"cgpa"`
	EnrolledAt       time.Time                 `json:"enrolledAt"`
}

// SemesterProgressView lists all of a student's enrollments with the
// active one highlighted and an overall completion percentage.
type SemesterProgressView struct {
	Enrollments        []academic.Enrollment `json:"enrollments"`
	Active             *academic.Enrollment  `json:"active,omitempty"`
	ProgressPercentage int                   `json:"progressPercentage"`
}

// ProgressReader exposes a student's position in their academic program.
type ProgressReader struct {
	enrollments academic.EnrollmentRepository
	log         *logger.Logger
}

// NewProgressReader creates a new ProgressReader.
func NewProgressReader(enrollments academic.EnrollmentRepository, log *logger.Logger) *ProgressReader {
	return &ProgressReader{
		enrollments: enrollments,
		log:         log.With(logger.Component("progress_reader")),
	}
}

// CurrentSemester returns the composite current-semester view for the
// student's ACTIVE enrollment, or nil when none exists or retrieval fails.
func (p *ProgressReader) CurrentSemester(ctx context.Context, studentID string) *CurrentSemesterView {
	en, err := p.enrollments.FindActive(ctx, studentID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			p.log.Error("failed to fetch active enrollment",
				logger.StudentID(studentID),
				logger.Err(err),
			)
		}
		return nil
	}

	return &CurrentSemesterView{
		CurrentSemester:  en.CurrentSemester,
		Semester:         en.Semester,
		AcademicYear:     en.AcademicYear,
		Course:           en.Course,
		Status:           en.Status,
		TotalCredits:     en.TotalCredits,
		CompletedCredits: en.CompletedCredits,
		CGPA:             en.CGPA,
		EnrolledAt:       en.EnrolledAt,
	}
}

// SemesterProgress returns all of the student's enrollments ordered by
// current semester, the active one highlighted, and the completion
// percentage derived from the active enrollment's course length.
// Returns nil on failure.
func (p *ProgressReader) SemesterProgress(ctx context.Context, studentID string) *SemesterProgressView {
	enrollments, err := p.enrollments.FindAllByStudent(ctx, studentID)
	if err != nil {
		p.log.Error("failed to fetch enrollments",
			logger.StudentID(studentID),
			logger.Err(err),
		)
		return nil
	}

	view := &SemesterProgressView{Enrollments: enrollments}

	for i := range enrollments {
		if enrollments[i].IsActive() {
			view.Active = &enrollments[i]
			break
		}
	}

	if view.Active != nil {
		view.ProgressPercentage = progressPercentage(
			view.Active.CurrentSemester,
			view.Active.Course.TotalSemester,
		)
	}

	return view
}

// progressPercentage computes round(current/total*100). A course with no
// recorded semester count is treated as a single-semester course to keep
// the division defined.
func progressPercentage(current, total int) int {
	if total == 0 {
		total = 1
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}
