// Package academic contains the academic-record domain: exam results,
// grades, enrollments, and the pure grading rules used to compute GPA and
// CGPA on a 4.0 scale.
package academic

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// Read mostly from the relational store; only Enrollment.CurrentSemester is
// mutated here (by the semester progress command).
// ══════════════════════════════════════════════════════════════════════════════

// ResultStatus is the outcome of a student's exam attempt.
type ResultStatus string

const (
	ResultPass     ResultStatus = "PASS"
	ResultFail     ResultStatus = "FAIL"
	ResultPending  ResultStatus = "PENDING"
	ResultWithheld ResultStatus = "WITHHELD"
)

// EnrollmentStatus is the state of a student's enrollment record.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// Subject carries the credit weight used in GPA aggregation.
type Subject struct {
	ID      string
	Name    string
	Code    string
	Credits int
}

// Exam identifies one examination and its maximum obtainable marks.
type Exam struct {
	ID         string
	Name       string
	SemesterID string
	MaxMarks   float64
	HeldAt     time.Time
}

// Grade is a student's marks for one subject in one exam.
type Grade struct {
	ID            string
	MarksObtained float64
	Subject       Subject
}

// ExamResult is a student's outcome for one exam. The aggregation treats
// the Grade relation as singular: one primary grade/subject pairing per
// result.
type ExamResult struct {
	ID        string
	StudentID string
	Status    ResultStatus
	Grade     Grade
	Exam      Exam
}

// Percentage returns the grade as a percentage of the exam's maximum
// marks. A zero MaxMarks yields 0 rather than dividing by zero.
func (r ExamResult) Percentage() float64 {
	if r.Exam.MaxMarks == 0 {
		return 0
	}
	return r.Grade.MarksObtained / r.Exam.MaxMarks * 100
}

// Course is a program of study spanning TotalSemester semesters.
type Course struct {
	ID            string
	Name          string
	Code          string
	TotalSemester int
}

// Semester is one term within a course.
type Semester struct {
	ID     string
	Name   string
	Number int
	Course Course
}

// AcademicYear is the calendar period an enrollment belongs to.
type AcademicYear struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Enrollment is a student's record of academic standing within a course
// and academic year. At most one ACTIVE enrollment per student is assumed;
// this component does not enforce it.
type Enrollment struct {
	ID               string
	StudentID        string
	Status           EnrollmentStatus
	CurrentSemester  int
	TotalCredits     int
	CompletedCredits int
	CGPA             float64
	Semester         Semester
	AcademicYear     AcademicYear
	Course           Course
	EnrolledAt       time.Time
}

// IsActive reports whether this is the student's active enrollment.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive
}
