// Package mail moves outbound email through an asynq queue so HTTP requests
// never wait on SMTP.
package mail

// TaskPasswordReset is the asynq task type for reset notifications.
const TaskPasswordReset = "mail:password_reset"

// Queue is the asynq queue all mail tasks go through.
const Queue = "mail"

// passwordResetPayload is the task body. The plaintext token travels only
// through the queue and the message itself.
type passwordResetPayload struct {
	To       string `json:"to"`
	Name     string `json:"name"`
	Token    string `json:"token"`
	ResetURL string `json:"resetUrl"`
}
