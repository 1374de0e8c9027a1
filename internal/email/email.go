package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// InviteSender delivers interview invitations. The caller supplies already
// computed display values; no scheduling logic lives here.
type InviteSender interface {
	SendInterviewInvite(toEmail, studentName, interviewTime string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
}

type smtpInviteSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewInviteSender creates an SMTP-backed InviteSender
func NewInviteSender(config SMTPConfig, logger zerolog.Logger) InviteSender {
	return &smtpInviteSender{
		config: config,
		logger: logger,
	}
}

// SendInterviewInvite sends the invite email. When SMTP credentials are not
// configured the message is logged instead, so development setups work without
// a mail server.
func (s *smtpInviteSender) SendInterviewInvite(toEmail, studentName, interviewTime string) error {
	subject := "Interview Scheduled - Project Completion Tracker"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour interview has been scheduled for %s.\r\n\r\nPlease be available on time.\r\n",
		studentName, interviewTime,
	)

	if s.config.Host == "" || s.config.Username == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("studentName", studentName).
			Str("interviewTime", interviewTime).
			Msg("SMTP not configured - interview invite not sent")
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.config.FromEmail, toEmail, subject, body,
	))

	addr := s.config.Host + ":" + s.config.Port
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Msg("interview invite sent")
	return nil
}
