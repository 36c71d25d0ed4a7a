// Package service contains infrastructure-facing application services.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
	"github.com/campus-hub/campus-management-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAILER
// Thin facade over the durable mail queue. Constructed once per process
// and injected; no package-level singleton. The builder methods produce
// the transactional mails of the campus system with fixed subjects,
// priorities, and metadata tags.
//
// ID policy: status/exam/reset jobs use business-key-derived IDs so a
// deduplicating store sees repeat sends of the same event as one job;
// welcome mails have no natural key and get time-based IDs.
// ══════════════════════════════════════════════════════════════════════════════

// Mailer enqueues transactional email jobs.
type Mailer struct {
	queue mail.Queue
	from  string
	log   *logger.Logger
}

// NewMailer creates a new Mailer. The from address is used as the sender
// for all built jobs; callers of Enqueue may override it per job.
func NewMailer(queue mail.Queue, from string, log *logger.Logger) *Mailer {
	return &Mailer{
		queue: queue,
		from:  from,
		log:   log.With(logger.Component("mailer")),
	}
}

// Enqueue hands a caller-constructed job to the queue.
func (m *Mailer) Enqueue(ctx context.Context, job *mail.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	return m.queue.Enqueue(ctx, job)
}

// QueueDepth reports the total number of pending jobs across both lanes.
func (m *Mailer) QueueDepth(ctx context.Context) int64 {
	return m.queue.Depth(ctx)
}

// Close releases the underlying queue connection.
func (m *Mailer) Close() error {
	return m.queue.Close()
}

// SendWelcomeEmail enqueues a normal-priority welcome mail for a newly
// registered student.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	job := &mail.Job{
		ID:       mail.NewJobID("welcome"),
		To:       []string{to},
		From:     m.from,
		Subject:  "Welcome to Campus Hub",
		Priority: mail.PriorityNormal,
		HTML: fmt.Sprintf(
			"<h2>Welcome, %s!</h2><p>Your student account has been created. "+
				"You can now sign in to view your courses, exam schedule, and results.</p>",
			name,
		),
		Text: fmt.Sprintf(
			"Welcome, %s!\n\nYour student account has been created. "+
				"You can now sign in to view your courses, exam schedule, and results.",
			name,
		),
		Metadata: map[string]string{"type": "welcome"},
	}
	return m.enqueueBuilt(ctx, job)
}

// SendApplicationStatusEmail enqueues a normal-priority update on an
// admission application. The job ID derives from the application ID, so
// repeated sends for the same application deduplicate naturally.
func (m *Mailer) SendApplicationStatusEmail(ctx context.Context, to, name, applicationID, status string) error {
	job := &mail.Job{
		ID:       fmt.Sprintf("status_%s", applicationID),
		To:       []string{to},
		From:     m.from,
		Subject:  fmt.Sprintf("Application %s: status update", applicationID),
		Priority: mail.PriorityNormal,
		HTML: fmt.Sprintf(
			"<p>Dear %s,</p><p>The status of your application <b>%s</b> has changed to: <b>%s</b>.</p>",
			name, applicationID, status,
		),
		Text: fmt.Sprintf(
			"Dear %s,\n\nThe status of your application %s has changed to: %s.",
			name, applicationID, status,
		),
		Metadata: map[string]string{
			"type":          "application_status",
			"applicationId": applicationID,
			"status":        status,
		},
	}
	return m.enqueueBuilt(ctx, job)
}

// SendExamNotificationEmail enqueues a high-priority exam notice. The job
// ID derives from the exam ID.
func (m *Mailer) SendExamNotificationEmail(ctx context.Context, to, name, examID, examName string, examDate time.Time, venue string) error {
	date := timeutil.FormatDate(examDate)
	job := &mail.Job{
		ID:       fmt.Sprintf("exam_%s", examID),
		To:       []string{to},
		From:     m.from,
		Subject:  fmt.Sprintf("Exam notification: %s", examName),
		Priority: mail.PriorityHigh,
		HTML: fmt.Sprintf(
			"<p>Dear %s,</p><p>Your exam <b>%s</b> is scheduled for <b>%s</b> at <b>%s</b>. "+
				"Please arrive 15 minutes early with your student ID.</p>",
			name, examName, date, venue,
		),
		Text: fmt.Sprintf(
			"Dear %s,\n\nYour exam %s is scheduled for %s at %s. "+
				"Please arrive 15 minutes early with your student ID.",
			name, examName, date, venue,
		),
		Metadata: map[string]string{
			"type":   "exam_notification",
			"examId": examID,
		},
	}
	return m.enqueueBuilt(ctx, job)
}

// SendPasswordResetEmail enqueues a high-priority password reset mail.
// The job ID derives from the reset request ID.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, requestID, resetLink string) error {
	job := &mail.Job{
		ID:       fmt.Sprintf("reset_%s", requestID),
		To:       []string{to},
		From:     m.from,
		Subject:  "Password reset request",
		Priority: mail.PriorityHigh,
		HTML: fmt.Sprintf(
			"<p>A password reset was requested for your account.</p>"+
				"<p><a href=%q>Reset your password</a></p>"+
				"<p>If you did not request this, you can ignore this email.</p>",
			resetLink,
		),
		Text: fmt.Sprintf(
			"A password reset was requested for your account.\n\n"+
				"Reset your password: %s\n\n"+
				"If you did not request this, you can ignore this email.",
			resetLink,
		),
		Metadata: map[string]string{
			"type":      "password_reset",
			"requestId": requestID,
		},
	}
	return m.enqueueBuilt(ctx, job)
}

func (m *Mailer) enqueueBuilt(ctx context.Context, job *mail.Job) error {
	if err := m.queue.Enqueue(ctx, job); err != nil {
		return err
	}
	m.log.Info("transactional mail enqueued",
		logger.JobID(job.ID),
		logger.String("type", job.Metadata["type"]),
		logger.Lane(job.Lane()),
	)
	return nil
}
