package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ddarch/internal/events"
	"ddarch/internal/mailer"
	"ddarch/internal/metrics"
	"ddarch/internal/models"

	"github.com/rs/zerolog"
)

// Notifier dispatches best-effort notifications for stored records.
//
// Every send runs on its own goroutine with a bounded timeout, so the HTTP
// response never waits on the mail transport. Failures are logged, counted,
// and published on the event bus; they are never returned to the submission
// flow and never undo the completed store operation.
type Notifier struct {
	mailer  mailer.Mailer
	bus     *events.Bus
	logger  *zerolog.Logger
	timeout time.Duration
	tg      *TelegramAlerter
	wg      sync.WaitGroup
}

type Option func(*Notifier)

// WithTimeout bounds each individual send attempt.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithTelegram adds a staff telegram alert alongside the email channel.
func WithTelegram(tg *TelegramAlerter) Option {
	return func(n *Notifier) { n.tg = tg }
}

func New(m mailer.Mailer, bus *events.Bus, logger *zerolog.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		mailer:  m,
		bus:     bus,
		logger:  logger,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// BookingCreated fires the confirmation email to the submitter and, when
// configured, a staff telegram alert.
func (n *Notifier) BookingCreated(b *models.Booking) {
	_ = n.bus.PublishJSON(events.EventBookingCreated, events.SubmissionPayload{
		Kind: "booking", ID: b.ID, Email: b.Email,
	})

	n.dispatch("booking", b.ID, b.Email, func(ctx context.Context) (mailer.Result, error) {
		return n.mailer.SendBookingConfirmation(ctx, b)
	})

	n.alertStaff(fmt.Sprintf("New consultation booking #%d\n%s (%s)\n%s project on %s at %s",
		b.ID, b.Name, b.Email, b.ProjectType, b.Date, b.Time))
}

// ContactCreated fires the staff alert email (the transport also sends the
// submitter's auto-reply) and the optional telegram ping.
func (n *Notifier) ContactCreated(c *models.Contact) {
	_ = n.bus.PublishJSON(events.EventContactCreated, events.SubmissionPayload{
		Kind: "contact", ID: c.ID, Email: c.Email,
	})

	n.dispatch("contact", c.ID, c.Email, func(ctx context.Context) (mailer.Result, error) {
		return n.mailer.SendContactAlert(ctx, c)
	})

	n.alertStaff(fmt.Sprintf("New contact message #%d\n%s (%s)\nSubject: %s",
		c.ID, c.Name, c.Email, c.Subject))
}

type sendFunc func(ctx context.Context) (mailer.Result, error)

func (n *Notifier) dispatch(kind string, id int64, recipient string, send sendFunc) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		result, err := send(ctx)
		if err != nil || !result.Success {
			n.logger.Warn().
				Err(err).
				Str("kind", kind).
				Int64("id", id).
				Str("message", result.Message).
				Msg("notification failed, record remains stored")
			metrics.IncEmail(kind, "failed")
			_ = n.bus.PublishJSON(events.EventEmailFailed, events.EmailPayload{
				Kind: kind, ID: id, Recipient: recipient, Message: result.Message,
			})
			return
		}

		n.logger.Info().
			Str("kind", kind).
			Int64("id", id).
			Msg("notification sent")
		metrics.IncEmail(kind, "sent")
		_ = n.bus.PublishJSON(events.EventEmailSent, events.EmailPayload{
			Kind: kind, ID: id, Recipient: recipient,
		})
	}()
}

func (n *Notifier) alertStaff(text string) {
	if n.tg == nil {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.tg.Alert(text); err != nil {
			n.logger.Warn().Err(err).Msg("telegram staff alert failed")
		}
	}()
}

// Close waits for in-flight notifications to finish or the context to
// expire. It lets graceful shutdown (and tests) observe that dispatches
// were attempted.
func (n *Notifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
