package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/JaimeStill/claimflow/pkg/formatting"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email mails the claimant. Without a Sender it only logs the message.
type Email struct {
	sender           Sender
	from             string
	defaultRecipient string
	logger           *slog.Logger
}

// NewEmail creates an Email channel. sender may be nil for log-only delivery.
func NewEmail(sender Sender, from, defaultRecipient string, logger *slog.Logger) *Email {
	return &Email{
		sender:           sender,
		from:             from,
		defaultRecipient: defaultRecipient,
		logger:           logger.With("channel", "email"),
	}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, s Summary, address string) error {
	to := address
	if to == "" {
		to = e.defaultRecipient
	}
	if to == "" {
		return fmt.Errorf("%w: no recipient", ErrSkipped)
	}

	subject := "Your Claim " + s.ClaimID.String() + " Has Been Processed"

	if e.sender == nil {
		e.logger.InfoContext(
			ctx, "email not sent, smtp not configured",
			"to", to,
			"subject", subject,
			"payout", formatting.FormatUSD(s.PayoutAmount),
			"status", s.Status,
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", emailBody(s))

	done := make(chan error, 1)
	go func() { done <- e.sender.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email to %s: %w", to, ctx.Err())
	}
}

func emailBody(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your claim %s under policy %s has been processed.\n\n", s.ClaimID, s.PolicyID)
	fmt.Fprintf(&b, "Damage type:    %s\n", formatting.Title(s.DamageType))
	fmt.Fprintf(&b, "Estimated cost: %s\n", formatting.FormatUSD(s.EstimatedCost))
	fmt.Fprintf(&b, "Payout amount:  %s\n", formatting.FormatUSD(s.PayoutAmount))
	fmt.Fprintf(&b, "Decision:       %s (%s)\n", formatting.Title(string(s.Status)), formatting.Title(string(s.Reason)))
	if s.DocumentURL != "" {
		fmt.Fprintf(&b, "\nYour offer letter: %s\n", s.DocumentURL)
	}
	return b.String()
}
