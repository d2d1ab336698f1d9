package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/smtp"
	"time"

	"github.com/dernekos/backend/config"
)

// Sender delivers one message to one recipient address.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EmailSender delivers via an SMTP relay.
type EmailSender struct {
	cfg config.EmailConfig
}

// NewEmailSender creates an SMTP sender.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send delivers one email. The body is HTML.
func (s *EmailSender) Send(_ context.Context, recipient, subject, body string) error {
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}
	from := fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.FromAddress)
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{recipient}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SMSSender delivers via the provider's HTTP API.
type SMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

// NewSMSSender creates an SMS sender.
func NewSMSSender(cfg config.SMSConfig) *SMSSender {
	return &SMSSender{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

type smsRequest struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	Originator string `json:"originator,omitempty"`
}

// Send delivers one SMS. Subject is ignored for this channel.
func (s *SMSSender) Send(ctx context.Context, recipient, _ string, body string) error {
	if s.cfg.APIURL == "" {
		return fmt.Errorf("sms api not configured")
	}
	payload, err := json.Marshal(smsRequest{To: recipient, Message: body, Originator: s.cfg.Originator})
	if err != nil {
		return fmt.Errorf("marshal sms: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider status: %d", resp.StatusCode)
	}
	return nil
}
