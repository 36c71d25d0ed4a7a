// Package mail contains the email dispatch domain model: the Job value
// object handed off to the durable queue, priority lanes, and the queue
// contracts implemented by the infrastructure layer.
package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campus-hub/campus-management-hub/internal/domain/shared"
)

// Priority determines which queue lane a job lands in.
type Priority string

const (
	// PriorityLow is for bulk/non-urgent mail.
	PriorityLow Priority = "low"
	// PriorityNormal is the default priority.
	PriorityNormal Priority = "normal"
	// PriorityHigh is for time-sensitive mail (exam notices, password resets).
	PriorityHigh Priority = "high"
)

// Queue lane keys in the backing store. Low and normal priority share a
// lane; only high priority gets its own.
const (
	LaneNormal = "email_queue"
	LaneHigh   = "email_queue_high"
)

// Lane returns the backing-store list key for the priority.
// Anything other than high maps to the normal lane.
func (p Priority) Lane() string {
	if p == PriorityHigh {
		return LaneHigh
	}
	return LaneNormal
}

// MetadataCreatedAt is the metadata key the queue stamps on every job.
const MetadataCreatedAt = "createdAt"

// Attachment is a file attached to an email job.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}

// Job is the value object describing a deliverable message. Once enqueued,
// ownership passes to the backing store; the producer does not mutate it
// further.
type Job struct {
	// ID uniquely identifies the job. Generated on enqueue when empty.
	// Builder methods use business-key-derived IDs where natural
	// deduplication at the store is desirable.
	ID string `json:"id"`

	// To holds one or more recipient addresses.
	To []string `json:"to"`

	// From optionally overrides the configured sender.
	From string `json:"from,omitempty"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// HTML and Text are the message bodies. A deliverable job should carry
	// at least one of them; this is not enforced at enqueue time.
	HTML string `json:"html,omitempty"`
	Text string `json:"text,omitempty"`

	// Attachments are delivered in order.
	Attachments []Attachment `json:"attachments,omitempty"`

	// Priority selects the queue lane. Empty means normal.
	Priority Priority `json:"priority,omitempty"`

	// ScheduledAt is an optional future-delivery hint. The queue performs
	// no time-based gating; the field passes through to the consumer.
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`

	// Metadata is an open key-value bag. The queue always injects
	// createdAt on enqueue, preserving caller-supplied keys.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks that the job is deliverable enough to enqueue.
func (j *Job) Validate() error {
	if len(j.To) == 0 {
		return shared.ErrNoRecipients
	}
	for _, addr := range j.To {
		if strings.TrimSpace(addr) == "" {
			return shared.ErrNoRecipients
		}
	}
	return nil
}

// Lane returns the backing-store list key for this job.
func (j *Job) Lane() string {
	return j.Priority.Lane()
}

// SetMetadata sets a metadata key, allocating the map if needed.
func (j *Job) SetMetadata(key, value string) {
	if j.Metadata == nil {
		j.Metadata = make(map[string]string, 1)
	}
	j.Metadata[key] = value
}

// NewJobID generates a job ID of the form <prefix>_<timestamp>_<random>.
func NewJobID(prefix string) string {
	random := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random)
}
