package academic

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// ExamResultRepository reads exam results with their nested grade, subject,
// and exam relations.
type ExamResultRepository interface {
	// FindPassed returns all PASS-status results for the student, across
	// every semester, with Grade→Subject and Exam populated.
	FindPassed(ctx context.Context, studentID string) ([]ExamResult, error)

	// FindPassedBySemester is FindPassed scoped to exams belonging to the
	// given semester.
	FindPassedBySemester(ctx context.Context, studentID, semesterID string) ([]ExamResult, error)
}

// EnrollmentRepository reads and mutates student enrollment records.
type EnrollmentRepository interface {
	// FindActive returns the student's ACTIVE enrollment with nested
	// Semester→Course, AcademicYear and Course detail.
	// Returns ErrNoActiveEnrollment when none exists.
	FindActive(ctx context.Context, studentID string) (*Enrollment, error)

	// FindAllByStudent returns every enrollment for the student, any
	// status, ordered by CurrentSemester ascending.
	FindAllByStudent(ctx context.Context, studentID string) ([]Enrollment, error)

	// UpdateCurrentSemester persists a new current-semester value and
	// returns the updated enrollment with nested detail.
	// Returns ErrEnrollmentNotFound when the enrollment does not exist.
	UpdateCurrentSemester(ctx context.Context, enrollmentID string, semester int) (*Enrollment, error)
}
