package postgres

import (
	"context"
	"fmt"

	"github.com/campus-hub/campus-management-hub/internal/domain/academic"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM RESULT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ExamResultRepository implements academic.ExamResultRepository for PostgreSQL.
type ExamResultRepository struct {
	conn *Connection
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(conn *Connection) *ExamResultRepository {
	return &ExamResultRepository{conn: conn}
}

// The grade relation is singular for aggregation purposes: one primary
// grade/subject pairing per result row.
const examResultColumns = `
	er.id, er.student_id, er.status,
	g.id, g.marks_obtained,
	s.id, s.name, s.code, s.credits,
	e.id, e.name, e.semester_id, e.max_marks, e.held_at
`

const examResultJoins = `
	FROM exam_results er
	JOIN grades g ON g.exam_result_id = er.id
	JOIN subjects s ON s.id = g.subject_id
	JOIN exams e ON e.id = er.exam_id
`

// FindPassed returns all PASS-status results for the student across every
// semester, ordered by exam date.
func (r *ExamResultRepository) FindPassed(ctx context.Context, studentID string) ([]academic.ExamResult, error) {
	query := `
		SELECT ` + examResultColumns + examResultJoins + `
		WHERE er.student_id = $1 AND er.status = $2
		ORDER BY e.held_at ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, string(academic.ResultPass))
	if err != nil {
		return nil, fmt.Errorf("failed to query exam results: %w", err)
	}
	defer rows.Close()

	return scanExamResults(rows)
}

// FindPassedBySemester is FindPassed scoped to exams belonging to the
// given semester.
func (r *ExamResultRepository) FindPassedBySemester(ctx context.Context, studentID, semesterID string) ([]academic.ExamResult, error) {
	query := `
		SELECT ` + examResultColumns + examResultJoins + `
		WHERE er.student_id = $1 AND er.status = $2 AND e.semester_id = $3
		ORDER BY e.held_at ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, string(academic.ResultPass), semesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exam results for semester: %w", err)
	}
	defer rows.Close()

	return scanExamResults(rows)
}

func scanExamResults(rows pgx.Rows) ([]academic.ExamResult, error) {
	var results []academic.ExamResult

	for rows.Next() {
		var er academic.ExamResult
		var status string

		err := rows.Scan(
			&er.ID,
			&er.StudentID,
			&status,
			&er.Grade.ID,
			&er.Grade.MarksObtained,
			&er.Grade.Subject.ID,
			&er.Grade.Subject.Name,
			&er.Grade.Subject.Code,
			&er.Grade.Subject.Credits,
			&er.Exam.ID,
			&er.Exam.Name,
			&er.Exam.SemesterID,
			&er.Exam.MaxMarks,
			&er.Exam.HeldAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam result: %w", err)
		}

		er.Status = academic.ResultStatus(status)
		results = append(results, er)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exam results: %w", err)
	}
	return results, nil
}
