package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"

	"github.com/microcosm-cc/bluemonday"
)

type NoticeKind string

const (
	NoticeOrgRejection   NoticeKind = "reject-org"
	NoticeEventRejection NoticeKind = "reject-event"
	NoticeRemoval        NoticeKind = "removal"
)

const maxEmailLength = 254

// Notice is the payload of a rejection or removal email.
type Notice struct {
	RecipientEmail string `json:"recipientEmail"`
	VolunteerName  string `json:"volunteerName"`
	Reason         string `json:"reason"`
	NGOName        string `json:"ngoName"`
	EventTitle     string `json:"eventTitle,omitempty"`
}

// Delivery is a successful send.
type Delivery struct {
	MessageID string `json:"messageId"`
	Recipient string `json:"recipient"`
}

// DeliveryError is a relay failure, as opposed to bad input.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "failed to send email: " + e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }

func IsDeliveryError(err error) bool {
	var d *DeliveryError
	return errors.As(err, &d)
}

type notificationService struct {
	mailer Mailer
	policy *bluemonday.Policy
}

func NewNotificationService(mailer Mailer) NotificationService {
	return &notificationService{
		mailer: mailer,
		policy: bluemonday.StrictPolicy(),
	}
}

// ValidateEmail checks presence, length and RFC 5322 syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("recipientEmail", "email is required")
	}
	if len(email) > maxEmailLength {
		return domain.NewValidationError("recipientEmail", "email must be at most %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("recipientEmail", "invalid email format")
	}
	return nil
}

// Validate trims every field and checks the ones kind requires.
func (n *Notice) Validate(kind NoticeKind) error {
	n.RecipientEmail = strings.TrimSpace(n.RecipientEmail)
	n.VolunteerName = strings.TrimSpace(n.VolunteerName)
	n.Reason = strings.TrimSpace(n.Reason)
	n.NGOName = strings.TrimSpace(n.NGOName)
	n.EventTitle = strings.TrimSpace(n.EventTitle)

	required := []struct{ field, value string }{
		{"recipientEmail", n.RecipientEmail},
		{"volunteerName", n.VolunteerName},
		{"reason", n.Reason},
		{"ngoName", n.NGOName},
	}
	switch kind {
	case NoticeEventRejection:
		required = append(required, struct{ field, value string }{"eventTitle", n.EventTitle})
	case NoticeOrgRejection, NoticeRemoval:
	default:
		return domain.NewValidationError("kind", "unknown notification %q", kind)
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return domain.NewValidationError("", "missing required fields: %s", strings.Join(missing, ", "))
	}
	return ValidateEmail(n.RecipientEmail)
}

func (s *notificationService) Send(ctx context.Context, kind NoticeKind, n Notice) (*Delivery, error) {
	log := logger.WithService("NotificationService")
	if err := n.Validate(kind); err != nil {
		return nil, err
	}

	msg := s.compose(kind, n)
	id, err := s.mailer.Send(ctx, msg)
	if err != nil {
		log.Error("email delivery failed", "kind", kind, "recipient", n.RecipientEmail, "error", err)
		return nil, &DeliveryError{Err: err}
	}
	log.Info("email sent", "kind", kind, "recipient", n.RecipientEmail, "message_id", id)
	return &Delivery{MessageID: id, Recipient: n.RecipientEmail}, nil
}

func (s *notificationService) compose(kind NoticeKind, n Notice) *Message {
	name := s.policy.Sanitize(n.VolunteerName)
	org := s.policy.Sanitize(n.NGOName)
	reason := s.policy.Sanitize(n.Reason)
	event := s.policy.Sanitize(n.EventTitle)

	msg := &Message{To: n.RecipientEmail, ToName: n.VolunteerName}
	var lead, leadHTML string
	switch kind {
	case NoticeEventRejection:
		msg.Subject = fmt.Sprintf("Update on your application for %s", n.EventTitle)
		lead = fmt.Sprintf("Thank you for applying to volunteer at %s with %s. Unfortunately your application was not approved.", n.EventTitle, n.NGOName)
		leadHTML = fmt.Sprintf("Thank you for applying to volunteer at <strong>%s</strong> with <strong>%s</strong>. Unfortunately your application was not approved.", event, org)
	case NoticeRemoval:
		msg.Subject = fmt.Sprintf("Your membership with %s", n.NGOName)
		lead = fmt.Sprintf("You have been removed from the volunteer list of %s.", n.NGOName)
		leadHTML = fmt.Sprintf("You have been removed from the volunteer list of <strong>%s</strong>.", org)
	default:
		msg.Subject = fmt.Sprintf("Update on your application to %s", n.NGOName)
		lead = fmt.Sprintf("Thank you for your interest in volunteering with %s. Unfortunately your application was not approved.", n.NGOName)
		leadHTML = fmt.Sprintf("Thank you for your interest in volunteering with <strong>%s</strong>. Unfortunately your application was not approved.", org)
	}

	msg.Text = fmt.Sprintf("Hello %s,\n\n%s\n\nReason: %s\n\nBest regards,\n%s", n.VolunteerName, lead, n.Reason, n.NGOName)
	msg.HTML = fmt.Sprintf(`<html>
	<body>
		<p>Hello %s,</p>
		<p>%s</p>
		<p><strong>Reason:</strong> %s</p>
		<p>Best regards,<br>%s</p>
	</body>
</html>`, name, leadHTML, reason, org)
	return msg
}
