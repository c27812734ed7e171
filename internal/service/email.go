package service

import (
	"context"
	"fmt"
	"strings"

	"ngo-admin-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing email with a plain text and an HTML part.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message through a relay and returns the provider's
// message id.
type Mailer interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

type smtpMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(host string, port int, username, password, from, fromName string) Mailer {
	return &smtpMailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *smtpMailer) Send(ctx context.Context, msg *Message) (string, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(s.from))

	m := gomail.NewMessage()
	m.SetHeader("Message-ID", messageID)
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", msg.To)
	err := s.dialer.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "DialAndSend", err)
	if err != nil {
		return "", fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return messageID, nil
}

func senderDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

const sendGridEndpoint = "/v3/mail/send"

type sendGridMailer struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
}

// NewSendGridMailer sends through the SendGrid v3 API. host is normally
// https://api.sendgrid.com.
func NewSendGridMailer(apiKey, host, fromEmail, fromName string) Mailer {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &sendGridMailer{apiKey: apiKey, host: host, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridMailer) Send(ctx context.Context, msg *Message) (string, error) {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("sendgrid", "Send", "to", msg.To)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return "", err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)

	var id string
	for k, v := range response.Headers {
		if strings.EqualFold(k, "X-Message-Id") && len(v) > 0 {
			id = v[0]
		}
	}
	return id, nil
}
