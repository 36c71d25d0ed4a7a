package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/internal/domain/shared"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// fakeQueue records enqueued jobs in place of the Redis store.
type fakeQueue struct {
	jobs       []*mail.Job
	enqueueErr error
	depth      int64
	closed     bool
}

func (f *fakeQueue) Enqueue(ctx context.Context, job *mail.Job) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Depth(ctx context.Context) int64 { return f.depth }

func (f *fakeQueue) Close() error {
	f.closed = true
	return nil
}

func newTestMailer(q *fakeQueue) *Mailer {
	return NewMailer(q, "noreply@campushub.edu", logger.New(logger.Options{Output: io.Discard}))
}

func TestMailer_SendWelcomeEmail(t *testing.T) {
	q := &fakeQueue{}
	m := newTestMailer(q)

	require.NoError(t, m.SendWelcomeEmail(context.Background(), "jane@campushub.edu", "Jane"))
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, mail.PriorityNormal, job.Priority)
	assert.Contains(t, job.Subject, "Welcome")
	assert.Equal(t, "welcome", job.Metadata["type"])
	assert.Equal(t, []string{"jane@campushub.edu"}, job.To)
	assert.Contains(t, job.HTML, "Jane")
	assert.Contains(t, job.Text, "Jane")

	// Welcome IDs are time-based, not business-key-based.
	assert.True(t, strings.HasPrefix(job.ID, "welcome_"))
	require.NoError(t, m.SendWelcomeEmail(context.Background(), "jane@campushub.edu", "Jane"))
	assert.NotEqual(t, q.jobs[0].ID, q.jobs[1].ID)
}

func TestMailer_SendApplicationStatusEmail(t *testing.T) {
	q := &fakeQueue{}
	m := newTestMailer(q)

	require.NoError(t, m.SendApplicationStatusEmail(context.Background(),
		"jane@campushub.edu", "Jane", "app42", "APPROVED"))
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, mail.PriorityNormal, job.Priority)
	assert.Equal(t, "status_app42", job.ID) // deterministic, dedupes per application
	assert.Equal(t, "application_status", job.Metadata["type"])
	assert.Equal(t, "app42", job.Metadata["applicationId"])
	assert.Contains(t, job.Text, "APPROVED")

	// Same application means same job ID on resend.
	require.NoError(t, m.SendApplicationStatusEmail(context.Background(),
		"jane@campushub.edu", "Jane", "app42", "ENROLLED"))
	assert.Equal(t, job.ID, q.jobs[1].ID)
}

func TestMailer_SendExamNotificationEmail(t *testing.T) {
	q := &fakeQueue{}
	m := newTestMailer(q)

	examDate := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, m.SendExamNotificationEmail(context.Background(),
		"jane@campushub.edu", "Jane", "exm9", "Algorithms Midterm", examDate, "Hall B"))
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, mail.PriorityHigh, job.Priority)
	assert.Equal(t, "exam_exm9", job.ID)
	assert.Equal(t, "exam_notification", job.Metadata["type"])
	assert.Contains(t, job.Subject, "Algorithms Midterm")
	assert.Contains(t, job.HTML, "Hall B")
	assert.Equal(t, mail.LaneHigh, job.Lane())
}

func TestMailer_SendPasswordResetEmail(t *testing.T) {
	q := &fakeQueue{}
	m := newTestMailer(q)

	require.NoError(t, m.SendPasswordResetEmail(context.Background(),
		"jane@campushub.edu", "req7", "https://campushub.edu/reset?t=abc"))
	require.Len(t, q.jobs, 1)

	job := q.jobs[0]
	assert.Equal(t, mail.PriorityHigh, job.Priority)
	assert.Equal(t, "reset_req7", job.ID)
	assert.Equal(t, "password_reset", job.Metadata["type"])
	assert.Contains(t, job.Text, "https://campushub.edu/reset?t=abc")
}

func TestMailer_Enqueue_ValidatesJob(t *testing.T) {
	q := &fakeQueue{}
	m := newTestMailer(q)

	err := m.Enqueue(context.Background(), &mail.Job{Subject: "no recipients"})
	assert.ErrorIs(t, err, shared.ErrNoRecipients)
	assert.Empty(t, q.jobs)
}

func TestMailer_EnqueueErrorPropagates(t *testing.T) {
	q := &fakeQueue{enqueueErr: errors.New("store down")}
	m := newTestMailer(q)

	// Builder failures surface to the caller: a dropped email is a
	// correctness violation, not something to swallow.
	err := m.SendWelcomeEmail(context.Background(), "jane@campushub.edu", "Jane")
	assert.ErrorContains(t, err, "store down")
}

func TestMailer_QueueDepthAndClose(t *testing.T) {
	q := &fakeQueue{depth: 7}
	m := newTestMailer(q)

	assert.Equal(t, int64(7), m.QueueDepth(context.Background()))
	require.NoError(t, m.Close())
	assert.True(t, q.closed)
}
