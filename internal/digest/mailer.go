package digest

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 587
)

// Mailer delivers the digest over SMTP with STARTTLS and password auth.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	to       string
	logger   *zap.Logger

	// send is swappable for tests.
	send func(m *gomail.Message) error
}

func NewMailer(host string, port int, from, password, to string, logger *zap.Logger) *Mailer {
	if host == "" {
		host = defaultSMTPHost
	}
	if port == 0 {
		port = defaultSMTPPort
	}

	m := &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		to:       to,
		logger:   logger,
	}

	m.send = func(msg *gomail.Message) error {
		// Dialing port 587 negotiates STARTTLS before authenticating.
		dialer := gomail.NewDialer(m.host, m.port, m.from, m.password)
		return dialer.DialAndSend(msg)
	}

	return m
}

// Send delivers the HTML body with the given subject line.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m.from == "" || m.to == "" {
		return fmt.Errorf("sender and receiver addresses are required")
	}

	msg := m.compose(subject, htmlBody)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send digest email: %w", err)
	}

	m.logger.Info("digest email sent",
		zap.String("to", m.to),
		zap.String("subject", subject),
	)

	return nil
}

func (m *Mailer) compose(subject, htmlBody string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return msg
}
