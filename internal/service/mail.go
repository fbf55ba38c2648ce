package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"github.com/kinovera/festival/api/internal/config"
	"github.com/kinovera/festival/api/internal/model"
)

const resendEndpoint = "https://api.resend.com/emails"

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Mailer sends registration confirmation mails, via the Resend HTTP API or
// plain SMTP depending on configuration.
type Mailer struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailer creates a new mailer
func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendConfirmation mails the attendee their tracking code and the activity
// details.
func (m *Mailer) SendConfirmation(ctx context.Context, reg *model.Registration, activity *model.Activity) error {
	subject := fmt.Sprintf("Registration confirmed: %s", activity.Name)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your registration for <strong>%s</strong> on %s is confirmed.</p>`+
			`<p>Your tracking code is <strong>%s</strong>. Keep it to look up or present your registration.</p>`,
		reg.Name, activity.Name, activity.EventDate.Format("2 January 2006"), reg.TrackingCode,
	)

	if m.cfg.SMTPEnabled {
		return m.sendViaSMTP(reg.Email, subject, html)
	}
	return m.sendViaResend(ctx, reg.Email, subject, html)
}

func (m *Mailer) sendViaResend(ctx context.Context, to, subject, html string) error {
	body := resendRequest{
		From:    m.cfg.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}

func (m *Mailer) sendViaSMTP(to, subject, html string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	msg := "From: " + m.cfg.FromEmail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
