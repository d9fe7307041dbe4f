package ports

import "context"

// PasswordResetMail is the payload for the reset message sent to an account
// holder. Token is the plaintext value; it is never persisted anywhere.
type PasswordResetMail struct {
	To       string
	Name     string
	Token    string
	ResetURL string
}

// MailEnqueuer hands outbound mail to the background worker. Enqueue failures
// are reported but must not change the outcome of the operation that
// triggered the message.
type MailEnqueuer interface {
	EnqueuePasswordReset(ctx context.Context, mail PasswordResetMail) error
}
