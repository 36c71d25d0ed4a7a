package postgres

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: ACADEMIC STRUCTURE
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create academic structure tables
-- Version: 001

CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(150) NOT NULL,
    code VARCHAR(30) NOT NULL UNIQUE,
    total_semester INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_total_semester CHECK (total_semester >= 0)
);

CREATE TABLE IF NOT EXISTS academic_years (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(30) NOT NULL UNIQUE,
    start_date TIMESTAMP WITH TIME ZONE NOT NULL,
    end_date TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_year_range CHECK (end_date > start_date)
);

CREATE TABLE IF NOT EXISTS semesters (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    name VARCHAR(50) NOT NULL,
    number INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_semester_number CHECK (number > 0),
    CONSTRAINT unique_course_semester UNIQUE (course_id, number)
);

CREATE INDEX IF NOT EXISTS idx_semesters_course_id ON semesters(course_id);

CREATE TABLE IF NOT EXISTS student_enrollments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL,
    course_id UUID NOT NULL REFERENCES courses(id),
    semester_id UUID NOT NULL REFERENCES semesters(id),
    academic_year_id UUID NOT NULL REFERENCES academic_years(id),
    status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
    current_semester INTEGER NOT NULL DEFAULT 1,
    total_credits INTEGER NOT NULL DEFAULT 0,
    completed_credits INTEGER NOT NULL DEFAULT 0,
    cgpa DECIMAL(4,2) NOT NULL DEFAULT 0.00,
    enrolled_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_enrollment_status CHECK (status IN ('ACTIVE', 'COMPLETED', 'SUSPENDED', 'WITHDRAWN')),
    CONSTRAINT valid_current_semester CHECK (current_semester > 0),
    CONSTRAINT valid_cgpa CHECK (cgpa >= 0 AND cgpa <= 4)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON student_enrollments(student_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_student_status ON student_enrollments(student_id, status);

-- At most one ACTIVE enrollment per student
CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_one_active
    ON student_enrollments(student_id) WHERE status = 'ACTIVE';
`

const migration001Down = `
DROP TABLE IF EXISTS student_enrollments;
DROP TABLE IF EXISTS semesters;
DROP TABLE IF EXISTS academic_years;
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: EXAMS AND GRADES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create exam and grade tables
-- Version: 002

CREATE TABLE IF NOT EXISTS subjects (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(150) NOT NULL,
    code VARCHAR(30) NOT NULL UNIQUE,
    credits INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_credits CHECK (credits >= 0)
);

CREATE TABLE IF NOT EXISTS exams (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    semester_id UUID NOT NULL REFERENCES semesters(id),
    name VARCHAR(150) NOT NULL,
    max_marks DECIMAL(7,2) NOT NULL DEFAULT 100,
    held_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_max_marks CHECK (max_marks > 0)
);

CREATE INDEX IF NOT EXISTS idx_exams_semester_id ON exams(semester_id);
CREATE INDEX IF NOT EXISTS idx_exams_held_at ON exams(held_at);

CREATE TABLE IF NOT EXISTS exam_results (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL,
    exam_id UUID NOT NULL REFERENCES exams(id),
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_result_status CHECK (status IN ('PASS', 'FAIL', 'PENDING', 'WITHHELD')),
    CONSTRAINT unique_student_exam UNIQUE (student_id, exam_id)
);

CREATE INDEX IF NOT EXISTS idx_exam_results_student_id ON exam_results(student_id);
CREATE INDEX IF NOT EXISTS idx_exam_results_student_status ON exam_results(student_id, status);

CREATE TABLE IF NOT EXISTS grades (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    exam_result_id UUID NOT NULL REFERENCES exam_results(id) ON DELETE CASCADE,
    subject_id UUID NOT NULL REFERENCES subjects(id),
    marks_obtained DECIMAL(7,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_marks CHECK (marks_obtained >= 0)
);

CREATE INDEX IF NOT EXISTS idx_grades_exam_result_id ON grades(exam_result_id);
CREATE INDEX IF NOT EXISTS idx_grades_subject_id ON grades(subject_id);
`

const migration002Down = `
DROP TABLE IF EXISTS grades;
DROP TABLE IF EXISTS exam_results;
DROP TABLE IF EXISTS exams;
DROP TABLE IF EXISTS subjects;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION RUNNER
// ══════════════════════════════════════════════════════════════════════════════

type migration struct {
	version int
	name    string
	up      string
	down    string
}

var migrations = []migration{
	{version: 1, name: "academic_structure", up: migration001Up, down: migration001Down},
	{version: 2, name: "exams_and_grades", up: migration002Up, down: migration002Down},
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// Migrate applies all pending migrations in version order. Applied
// versions are recorded in schema_migrations and skipped on subsequent
// runs.
func Migrate(ctx context.Context, conn *Connection) error {
	if _, err := conn.Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
			m.version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if applied {
			continue
		}

		if _, err := conn.Exec(ctx, m.up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.version, m.name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	return nil
}
