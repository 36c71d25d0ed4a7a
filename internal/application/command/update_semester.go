// Package command contains write operations. Unlike the query package,
// failures here propagate to the caller: silently dropping a write would
// be a correctness violation.
package command

import (
	"context"
	"errors"

	"github.com/campus-hub/campus-management-hub/internal/domain/academic"
	"github.com/campus-hub/campus-management-hub/internal/domain/shared"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// SemesterUpdater mutates a student's current-semester position.
type SemesterUpdater struct {
	enrollments academic.EnrollmentRepository
	log         *logger.Logger
}

// NewSemesterUpdater creates a new SemesterUpdater.
func NewSemesterUpdater(enrollments academic.EnrollmentRepository, log *logger.Logger) *SemesterUpdater {
	return &SemesterUpdater{
		enrollments: enrollments,
		log:         log.With(logger.Component("semester_updater")),
	}
}

// UpdateCurrentSemester advances the student's ACTIVE enrollment to the
// given semester and returns the updated enrollment with nested detail.
// Returns shared.ErrNoActiveEnrollment when the student has no active
// enrollment; one is never created here. CurrentSemester carries no
// bounds or monotonicity validation in this component - that belongs to
// the caller. Concurrent updates to the same enrollment are
// last-writer-wins.
func (u *SemesterUpdater) UpdateCurrentSemester(ctx context.Context, studentID string, newSemester int) (*academic.Enrollment, error) {
	active, err := u.enrollments.FindActive(ctx, studentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			u.log.Warn("no active enrollment to update",
				logger.StudentID(studentID),
			)
			return nil, shared.ErrNoActiveEnrollment
		}
		u.log.Error("failed to locate active enrollment",
			logger.StudentID(studentID),
			logger.Err(err),
		)
		return nil, err
	}

	updated, err := u.enrollments.UpdateCurrentSemester(ctx, active.ID, newSemester)
	if err != nil {
		u.log.Error("failed to update current semester",
			logger.StudentID(studentID),
			logger.EnrollmentID(active.ID),
			logger.Int("new_semester", newSemester),
			logger.Err(err),
		)
		return nil, err
	}

	u.log.Info("current semester updated",
		logger.StudentID(studentID),
		logger.EnrollmentID(updated.ID),
		logger.Int("semester", updated.CurrentSemester),
	)
	return updated, nil
}
