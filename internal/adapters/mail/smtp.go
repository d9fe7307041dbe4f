package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// SMTPConfig holds the delivery endpoint. An empty Host disables sending;
// messages are logged instead, which keeps local development mail-free.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender consumes mail tasks and delivers them over SMTP.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger

	// sendFn is swappable for tests.
	sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "mail")),
		sendFn: smtp.SendMail,
	}
}

// Register attaches the task handlers to the worker mux.
func (s *SMTPSender) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskPasswordReset, s.handlePasswordReset)
}

func (s *SMTPSender) handlePasswordReset(ctx context.Context, task *asynq.Task) error {
	var payload passwordResetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A malformed payload will never succeed; skip the retry cycle.
		return fmt.Errorf("unmarshal %s payload: %v: %w", TaskPasswordReset, err, asynq.SkipRetry)
	}

	subject := "Password reset request"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"A password reset was requested for your account. Open the link below "+
			"within one hour to choose a new password:\r\n\r\n%s\r\n\r\n"+
			"If you did not request this, you can ignore this message.\r\n",
		payload.Name, payload.ResetURL,
	)
	if err := s.send(ctx, payload.To, subject, body); err != nil {
		return fmt.Errorf("send password reset to %s: %w", payload.To, err)
	}
	s.logger.InfoContext(ctx, "password reset mail sent",
		slog.String("operation", "send_password_reset"),
		slog.String("to", payload.To),
	)
	return nil
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if s.cfg.Host == "" {
		s.logger.InfoContext(ctx, "smtp disabled, dropping message",
			slog.String("to", to),
			slog.String("subject", subject),
		)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return s.sendFn(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
