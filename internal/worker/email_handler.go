package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/mailer"
	"lobby-backend/internal/tasks"
)

// EmailHandler processes the two outbound-mail task types.
type EmailHandler struct {
	mail    mailer.Mailer
	baseURL string // public base URL embedded in confirmation links
}

func NewEmailHandler(mail mailer.Mailer, baseURL string) *EmailHandler {
	if mail == nil {
		panic("mailer cannot be nil for EmailHandler")
	}
	return &EmailHandler{mail: mail, baseURL: baseURL}
}

// ProcessConfirmationEmail mails the account activation link.
func (h *EmailHandler) ProcessConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	var payload tasks.ConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Malformed payloads never become valid; skip the retry loop.
		return fmt.Errorf("decode confirmation payload: %v: %w", err, asynq.SkipRetry)
	}
	link := fmt.Sprintf("%s/api/users/activate?email=%s", h.baseURL, payload.Email)
	body := fmt.Sprintf("Welcome! Confirm your account by following this link:\n\n%s\n", link)
	if err := h.mail.Send(ctx, payload.Email, "Confirm your account", body); err != nil {
		return err
	}
	logrus.WithField("email", payload.Email).Info("Confirmation email sent")
	return nil
}

// ProcessVerificationCode mails a password-recovery code.
func (h *EmailHandler) ProcessVerificationCode(ctx context.Context, task *asynq.Task) error {
	var payload tasks.VerificationCodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode verification payload: %v: %w", err, asynq.SkipRetry)
	}
	body := fmt.Sprintf("Your verification code is: %s\n\nIt is valid for a single use.\n", payload.Code)
	if err := h.mail.Send(ctx, payload.Email, "Your verification code", body); err != nil {
		return err
	}
	logrus.WithField("email", payload.Email).Info("Verification code sent")
	return nil
}
