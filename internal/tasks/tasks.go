package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker server.
const (
	TypeConfirmationEmail = "email:confirmation"
	TypeVerificationCode  = "email:verification_code"
	TypeStaleRoomSweep    = "lobby:stale_sweep"
)

// ConfirmationEmailPayload is the payload of a registration confirmation
// mail task.
type ConfirmationEmailPayload struct {
	Email string `json:"email"`
}

// VerificationCodePayload is the payload of a verification-code mail task.
type VerificationCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// NewConfirmationEmailTask builds the asynq task for a confirmation mail.
func NewConfirmationEmailTask(email string) (*asynq.Task, error) {
	payload, err := json.Marshal(ConfirmationEmailPayload{Email: email})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal confirmation payload: %w", err)
	}
	return asynq.NewTask(TypeConfirmationEmail, payload), nil
}

// NewVerificationCodeTask builds the asynq task for a verification-code mail.
func NewVerificationCodeTask(email, code string) (*asynq.Task, error) {
	payload, err := json.Marshal(VerificationCodePayload{Email: email, Code: code})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal verification payload: %w", err)
	}
	return asynq.NewTask(TypeVerificationCode, payload), nil
}

// NewStaleRoomSweepTask builds the periodic sweep task. It carries no
// payload; the cutoff is configured on the worker.
func NewStaleRoomSweepTask() *asynq.Task {
	return asynq.NewTask(TypeStaleRoomSweep, nil)
}
