package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSUMER SIDE
// Strict priority lives here, not in the store: the high lane is always
// polled before the normal lane, so high-priority jobs are never
// interleaved behind normal ones.
// ══════════════════════════════════════════════════════════════════════════════

// Dequeue blocks until a job is available or the context is done.
func (q *Queue) Dequeue(ctx context.Context) (*mail.Job, error) {
	timeout := q.config.PopTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().PopTimeout
	}

	for {
		if q.isClosed() {
			return nil, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// BRPOP checks keys in argument order, so the high lane wins
		// whenever both hold jobs at the moment of the call.
		vals, err := q.client.BRPop(ctx, timeout, mail.LaneHigh, mail.LaneNormal).Result()
		if errors.Is(err, redis.Nil) {
			continue // both lanes empty, poll again
		}
		if err != nil {
			return nil, fmt.Errorf("mailqueue: dequeue: %w", err)
		}
		if len(vals) != 2 {
			return nil, fmt.Errorf("mailqueue: unexpected BRPOP reply of %d values", len(vals))
		}

		job, err := decodeJob(vals[1])
		if err != nil {
			// A malformed payload is dropped, not redelivered forever.
			q.log.Error("discarding undecodable email job",
				logger.Lane(vals[0]),
				logger.Err(err),
			)
			continue
		}

		q.log.Debug("email job dequeued", logger.JobID(job.ID), logger.Lane(vals[0]))
		return job, nil
	}
}

func decodeJob(payload string) (*mail.Job, error) {
	var job mail.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueueSerialization, err)
	}
	return &job, nil
}
