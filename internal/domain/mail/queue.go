package mail

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// QUEUE CONTRACTS
// The producer-side Queue and consumer-side Consumer are implemented by
// infrastructure/persistence/redis.
// ══════════════════════════════════════════════════════════════════════════════

// Queue is the producer-side contract of the durable mail queue.
type Queue interface {
	// Enqueue pushes a job onto its priority lane. It assigns a job ID
	// when absent and stamps metadata.createdAt. Store errors propagate:
	// silently dropping a queued email would be a correctness violation.
	Enqueue(ctx context.Context, job *Job) error

	// Depth returns the total number of jobs across both lanes.
	// Best-effort: retrieval failures are logged and reported as 0.
	Depth(ctx context.Context) int64

	// Close releases the store connection. Safe to call more than once.
	Close() error
}

// Consumer is the worker-side contract. Implementations pop the high lane
// before the normal lane; within a lane, jobs come out FIFO.
type Consumer interface {
	// Dequeue blocks until a job is available or the context is done.
	Dequeue(ctx context.Context) (*Job, error)
}
