package service

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

// EmailSender sends transactional mail.
type EmailSender interface {
	SendPasswordReset(to, resetURL string) error
}

// EmailService sends mail over SMTP. When SMTP is not configured the mail is
// logged instead so development flows still work end to end.
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
}

var _ EmailSender = (*EmailService)(nil)

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:     emailSecret("smtp_host"),
		smtpPort:     emailSecret("smtp_port"),
		smtpUsername: emailSecret("smtp_username"),
		smtpPassword: emailSecret("smtp_password"),
		fromEmail:    emailSecret("email_from"),
		fromName:     emailSecret("email_from_name"),
	}
}

// emailSecret reads a Docker secret from the secrets directory.
func emailSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// SendPasswordReset mails the one-time reset link to the account owner.
func (s *EmailService) SendPasswordReset(to, resetURL string) error {
	subject := "Reset your Tapfolio password"
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"A password reset was requested for your Tapfolio card account.\n"+
			"Open the link below within one hour to choose a new password:\n\n"+
			"%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		resetURL,
	)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.smtpHost == "" || s.smtpPort == "" {
		log.Printf("[EmailService] SMTP not configured, logging email instead:\nTo: %s\nSubject: %s\n%s", to, subject, body)
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := s.smtpHost + ":" + s.smtpPort
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
