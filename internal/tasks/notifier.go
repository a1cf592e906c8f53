package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// AsynqNotifier enqueues email tasks onto the asynq queue. It implements
// service.Notifier.
type AsynqNotifier struct {
	client *asynq.Client
}

func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	if client == nil {
		panic("asynq client cannot be nil for AsynqNotifier")
	}
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) EnqueueConfirmationEmail(ctx context.Context, email string) error {
	task, err := NewConfirmationEmailTask(email)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue("default")); err != nil {
		return fmt.Errorf("tasks: enqueue confirmation email: %w", err)
	}
	return nil
}

func (n *AsynqNotifier) EnqueueVerificationCode(ctx context.Context, email, code string) error {
	task, err := NewVerificationCodeTask(email, code)
	if err != nil {
		return err
	}
	// Recovery codes are what the user is actively waiting on.
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue("critical")); err != nil {
		return fmt.Errorf("tasks: enqueue verification code: %w", err)
	}
	return nil
}
