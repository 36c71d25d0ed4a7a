package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-hub/campus-management-hub/internal/domain/academic"
	"github.com/campus-hub/campus-management-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentRepository implements academic.EnrollmentRepository for PostgreSQL.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

const enrollmentColumns = `
	en.id, en.student_id, en.status, en.current_semester,
	en.total_credits, en.completed_credits, en.cgpa, en.enrolled_at,
	sem.id, sem.name, sem.number,
	ay.id, ay.name, ay.start_date, ay.end_date,
	c.id, c.name, c.code, c.total_semester
`

const enrollmentJoins = `
	FROM student_enrollments en
	JOIN semesters sem ON sem.id = en.semester_id
	JOIN academic_years ay ON ay.id = en.academic_year_id
	JOIN courses c ON c.id = en.course_id
`

// FindActive returns the student's ACTIVE enrollment with nested detail.
// Returns shared.ErrNoActiveEnrollment when none exists.
func (r *EnrollmentRepository) FindActive(ctx context.Context, studentID string) (*academic.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + enrollmentJoins + `
		WHERE en.student_id = $1 AND en.status = $2
		LIMIT 1
	`

	row := r.conn.QueryRow(ctx, query, studentID, string(academic.EnrollmentActive))
	en, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNoActiveEnrollment
		}
		return nil, fmt.Errorf("failed to find active enrollment: %w", err)
	}
	return en, nil
}

// FindAllByStudent returns every enrollment for the student, any status,
// ordered by current_semester ascending.
func (r *EnrollmentRepository) FindAllByStudent(ctx context.Context, studentID string) ([]academic.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + enrollmentJoins + `
		WHERE en.student_id = $1
		ORDER BY en.current_semester ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []academic.Enrollment
	for rows.Next() {
		en, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, *en)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateCurrentSemester persists a new current-semester value and returns
// the updated enrollment with nested detail.
// Returns shared.ErrEnrollmentNotFound when the enrollment does not exist.
func (r *EnrollmentRepository) UpdateCurrentSemester(ctx context.Context, enrollmentID string, semester int) (*academic.Enrollment, error) {
	query := `
		UPDATE student_enrollments
		SET current_semester = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, semester, time.Now().UTC(), enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to update current semester: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, shared.ErrEnrollmentNotFound
	}

	return r.findByID(ctx, enrollmentID)
}

func (r *EnrollmentRepository) findByID(ctx context.Context, enrollmentID string) (*academic.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + enrollmentJoins + `
		WHERE en.id = $1
	`

	row := r.conn.QueryRow(ctx, query, enrollmentID)
	en, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return en, nil
}

func scanEnrollment(row pgx.Row) (*academic.Enrollment, error) {
	var en academic.Enrollment
	var status string

	err := row.Scan(
		&en.ID,
		&en.StudentID,
		&status,
		&en.CurrentSemester,
		&en.TotalCredits,
		&en.CompletedCredits,
		&en.CGPA,
		&en.EnrolledAt,
		&en.Semester.ID,
		&en.Semester.Name,
		&en.Semester.Number,
		&en.AcademicYear.ID,
		&en.AcademicYear.Name,
		&en.AcademicYear.StartDate,
		&en.AcademicYear.EndDate,
		&en.Course.ID,
		&en.Course.Name,
		&en.Course.Code,
		&en.Course.TotalSemester,
	)
	if err != nil {
		return nil, err
	}

	en.Status = academic.EnrollmentStatus(status)
	// The semester belongs to the enrollment's course.
	en.Semester.Course = en.Course
	return &en, nil
}
