package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/wblproducoes/mvc08/internal/ports"
)

// Enqueuer implements ports.MailEnqueuer over an asynq client.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer builds the producer side of the mail queue from a Redis URL.
func NewEnqueuer(redisURL string) (*Enqueuer, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Enqueuer{client: asynq.NewClient(opt)}, nil
}

func (e *Enqueuer) EnqueuePasswordReset(ctx context.Context, mail ports.PasswordResetMail) error {
	body, err := json.Marshal(passwordResetPayload{
		To:       mail.To,
		Name:     mail.Name,
		Token:    mail.Token,
		ResetURL: mail.ResetURL,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TaskPasswordReset, body, asynq.Queue(Queue))
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskPasswordReset, err)
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
