// Package delivery implements the consumer side of the mail pipeline:
// popping jobs off the queue and handing them to an SMTP relay.
package delivery

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/gomail.v2"

	"github.com/campus-hub/campus-management-hub/internal/domain/mail"
	"github.com/campus-hub/campus-management-hub/internal/domain/shared"
	"github.com/campus-hub/campus-management-hub/pkg/circuitbreaker"
	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// From is the sender address used when a job carries no override.
	From string
}

// Sender delivers email jobs over SMTP. Sends run through a circuit
// breaker so a dead relay trips fast instead of timing out per job.
type Sender struct {
	cfg     SMTPConfig
	dialer  *gomail.Dialer
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewSender creates a new Sender.
func NewSender(cfg SMTPConfig, log *logger.Logger) *Sender {
	log = log.With(logger.Component("smtp_sender"))

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:                "smtp",
		FailureThreshold:    5,
		SuccessThreshold:    2,
		MaxHalfOpenRequests: 2,
		Timeout:             30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return &Sender{
		cfg:     cfg,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		breaker: breaker,
		log:     log,
	}
}

// Send delivers a single job.
func (s *Sender) Send(ctx context.Context, job *mail.Job) error {
	return s.breaker.Execute(ctx, func(context.Context) error {
		m, err := s.buildMessage(job)
		if err != nil {
			return err
		}
		if err := s.dialer.DialAndSend(m); err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	})
}

// SendWithRetry retries delivery with exponential backoff until it
// succeeds, the retry budget is spent, or the context is cancelled.
// Validation failures are permanent and are not retried.
func (s *Sender) SendWithRetry(ctx context.Context, job *mail.Job, retries int) error {
	operation := func() error {
		err := s.Send(ctx, job)
		if shared.IsValidation(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = retryBudget(retries)

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// retryBudget bounds the total retry window. A zero MaxElapsedTime
// would disable the limit entirely, so non-positive input is clamped
// to one second instead.
func retryBudget(retries int) time.Duration {
	if retries <= 0 {
		retries = 1
	}
	return time.Duration(retries) * time.Second
}

func (s *Sender) buildMessage(job *mail.Job) (*gomail.Message, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	from := job.From
	if from == "" {
		from = s.cfg.From
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", job.To...)
	m.SetHeader("Subject", job.Subject)

	switch {
	case job.Text != "" && job.HTML != "":
		m.SetBody("text/plain", job.Text)
		m.AddAlternative("text/html", job.HTML)
	case job.HTML != "":
		m.SetBody("text/html", job.HTML)
	default:
		m.SetBody("text/plain", job.Text)
	}

	for _, att := range job.Attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		m.Attach(att.Filename, settings...)
	}

	return m, nil
}
