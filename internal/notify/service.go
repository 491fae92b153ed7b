// Package notify emails the clinic operator when a booking lands. It runs
// after the append is durable; a send failure is logged by the caller and
// never undoes a save.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/kawaclinic/appointment-desk/internal/booking"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

// Service sends operator notifications for new bookings.
type Service struct {
	email   EmailSender
	toEmail string
	toName  string
	logger  *logging.Logger
}

// NewService creates a notification service. With a nil sender or an empty
// operator address the service is disabled and every call is a no-op.
func NewService(email EmailSender, toEmail, toName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:   email,
		toEmail: toEmail,
		toName:  toName,
		logger:  logger,
	}
}

// Enabled reports whether notifications are configured.
func (s *Service) Enabled() bool {
	return s != nil && s.email != nil && s.toEmail != ""
}

// NotifyBookingSaved emails the operator about a freshly stored booking.
func (s *Service) NotifyBookingSaved(ctx context.Context, b booking.Booking) error {
	if !s.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("New appointment: %s on %s at %s", b.PatientName, b.ApptDate, b.ApptTime)

	var body strings.Builder
	body.WriteString("A new appointment was saved.\n\n")
	fmt.Fprintf(&body, "Patient: %s\n", b.PatientName)
	fmt.Fprintf(&body, "Date:    %s\n", b.ApptDate)
	fmt.Fprintf(&body, "Time:    %s\n", b.ApptTime)
	if b.Payment != "" {
		fmt.Fprintf(&body, "Payment: %s\n", b.Payment)
	}

	msg := EmailMessage{
		To:      s.toEmail,
		ToName:  s.toName,
		Subject: subject,
		Body:    body.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking saved email: %w", err)
	}

	s.logger.Info("operator notified of new booking",
		"patient", b.PatientName,
		"date", b.ApptDate,
	)
	return nil
}
