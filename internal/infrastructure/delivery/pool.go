package delivery

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/internal/infrastructure/metrics"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// depthSampleInterval is how often the queue depth gauge is refreshed.
const depthSampleInterval = 15 * time.Second

// DepthReader reports the total number of pending jobs.
type DepthReader interface {
	Depth(ctx context.Context) int64
}

// jobSender delivers one job with a bounded retry budget.
type jobSender interface {
	SendWithRetry(ctx context.Context, job *mail.Job, retries int) error
}

// Pool consumes email jobs and delivers them through the Sender.
// Lane priority is the consumer's policy: the Consumer implementation
// polls the high lane before the normal one.
type Pool struct {
	consumer mail.Consumer
	sender   jobSender
	limiter  *rate.Limiter
	log      *logger.Logger

	workers int
	retries int
}

// NewPool creates a delivery pool of the given size. ratePerSecond
// bounds outbound sends across all workers.
func NewPool(consumer mail.Consumer, sender jobSender, workers, ratePerSecond, retries int, log *logger.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		consumer: consumer,
		sender:   sender,
		limiter:  rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		log:      log.With(logger.Component("delivery_pool")),
		workers:  workers,
		retries:  retries,
	}
}

// Start launches the worker goroutines and the depth sampler. They run
// until the context is cancelled; wg tracks their shutdown.
func (p *Pool) Start(ctx context.Context, wg *sync.WaitGroup, depth DepthReader) {
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.run(ctx, id)
		}(i)
	}

	if depth != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.sampleDepth(ctx, depth)
		}()
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	log := p.log.With(logger.Int("worker_id", id))
	log.Info("delivery worker started")

	for {
		job, err := p.consumer.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info("delivery worker shutting down")
				return
			}
			log.Error("dequeue failed", logger.Err(err))
			// Back off briefly so a broken store does not spin the loop.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		metrics.EmailsDequeued.WithLabelValues(job.Lane()).Inc()

		// A payload can decode cleanly and still be undeliverable,
		// e.g. no recipients. Drop it here rather than burning the
		// retry budget on a job that can never succeed.
		if err := job.Validate(); err != nil {
			log.Error("discarding undeliverable email job",
				logger.JobID(job.ID),
				logger.Err(err),
			)
			metrics.EmailFailures.Inc()
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			log.Info("delivery worker shutting down")
			return
		}

		if err := p.sender.SendWithRetry(ctx, job, p.retries); err != nil {
			log.Error("email delivery failed",
				logger.JobID(job.ID),
				logger.Recipient(job.To[0]),
				logger.Err(err),
			)
			metrics.EmailFailures.Inc()
			continue
		}

		log.Info("email delivered",
			logger.JobID(job.ID),
			logger.Recipient(job.To[0]),
		)
		metrics.EmailsSent.Inc()
	}
}

func (p *Pool) sampleDepth(ctx context.Context, depth DepthReader) {
	ticker := time.NewTicker(depthSampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.QueueDepth.Set(float64(depth.Depth(ctx)))
		}
	}
}
