// Package sender consumes subscription status events and mails readers
// about changes to their subscription.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/lib/smtp"
	"github.com/ignews-app/ignews-backend/internal/models"
)

// Service renders and sends notification emails.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New creates a sender service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// statusLines maps a subscription status to the email body line. Unknown
// statuses get a generic wording.
var statusLines = map[string]string{
	"active":   "Your ig.news subscription is now active. Enjoy full access to all publications.",
	"trialing": "Your ig.news trial has started. You have full access while it lasts.",
	"canceled": "Your ig.news subscription has been canceled. You keep access until the end of the paid period.",
	"past_due": "We could not charge your ig.news subscription. Please update your payment method to keep access.",
}

// SendSubscriptionStatusChanged handles one queued subscription event.
// The body is the JSON-encoded models.SubscriptionEvent published by the
// synchronizer.
func (s *Service) SendSubscriptionStatusChanged(body []byte) error {
	const op = "services.sender.SendSubscriptionStatusChanged"

	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}

	line, ok := statusLines[event.Status]
	if !ok {
		line = fmt.Sprintf("Your ig.news subscription status changed to %q.", event.Status)
	}

	subject := "Your ig.news subscription was updated"
	bodyText := fmt.Sprintf("Hello,\n\n%s\n\nThe ig.news team", line)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
