package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/sige-marimon/services/common/config"
	"github.com/sige-marimon/services/common/logger"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// DefaultConfig returns SMTP settings from the shared application config
func DefaultConfig() *Config {
	app := config.Get()
	return &Config{
		Host:     app.SMTPHost,
		Port:     app.SMTPPort,
		Username: app.SMTPUsername,
		Password: app.SMTPPassword,
		From:     app.SMTPFrom,
		FromName: app.SMTPFromName,
	}
}

// Attachment is a file attached to an outgoing message
type Attachment struct {
	Filename string
	Data     []byte
	MimeType string
}

// Message is an outgoing email
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Service sends email through SMTP. When no credentials are configured it
// runs in dev mode: messages are logged and reported as delivered.
type Service struct {
	config  *Config
	devMode bool
	log     *logger.Logger
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	devMode := config.Username == "" || config.Password == ""
	return &Service{
		config:  config,
		devMode: devMode,
		log:     logger.With("component", "email"),
	}
}

// Send delivers a plain-text message to a single recipient. It satisfies the
// notification sender contract consumed by the auth service.
func (s *Service) Send(ctx context.Context, recipient, subject, body string) error {
	return s.SendMessage(ctx, Message{
		To:      []string{recipient},
		Subject: subject,
		Body:    body,
	})
}

// SendMessage delivers a full message, attachments included
func (s *Service) SendMessage(ctx context.Context, msg Message) error {
	if s.devMode {
		s.log.Info("dev mode, skipping delivery to=%s subject=%q", strings.Join(msg.To, ","), msg.Subject)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	var body bytes.Buffer
	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
	body.WriteString(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%s\r\n\r\n",
		s.config.FromName, s.config.From, strings.Join(msg.To, ", "), msg.Subject, boundary))
	body.WriteString(fmt.Sprintf("--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.Body))
	for _, att := range msg.Attachments {
		body.WriteString(fmt.Sprintf("--%s\r\nContent-Type: %s; name=\"%s\"\r\nContent-Transfer-Encoding: base64\r\nContent-Disposition: attachment; filename=\"%s\"\r\n\r\n%s\r\n",
			boundary, att.MimeType, att.Filename, att.Filename, base64.StdEncoding.EncodeToString(att.Data)))
	}
	body.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, s.config.From, msg.To, body.Bytes()); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// SendReceipt delivers a sale receipt PDF
func (s *Service) SendReceipt(ctx context.Context, recipient, folio string, pdfBytes []byte) error {
	subject := fmt.Sprintf("SIGE Marimon - Receipt %s", folio)
	body := fmt.Sprintf("Attached is the receipt for sale %s.\n\nThank you for your purchase.\n\nSIGE Marimon", folio)
	return s.SendMessage(ctx, Message{
		To:      []string{recipient},
		Subject: subject,
		Body:    body,
		Attachments: []Attachment{
			{
				Filename: fmt.Sprintf("receipt_%s.pdf", folio),
				Data:     pdfBytes,
				MimeType: "application/pdf",
			},
		},
	})
}
