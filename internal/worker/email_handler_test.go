package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobby-backend/internal/tasks"
	"lobby-backend/internal/worker"
)

// recordingMailer captures sent messages for assertions.
type recordingMailer struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

func TestEmailHandler_ProcessConfirmationEmail(t *testing.T) {
	// Arrange
	mail := &recordingMailer{}
	handler := worker.NewEmailHandler(mail, "https://lobby.example.com")
	task, err := tasks.NewConfirmationEmailTask("newbie@example.com")
	require.NoError(t, err)

	// Act
	err = handler.ProcessConfirmationEmail(context.Background(), task)

	// Assert
	require.NoError(t, err)
	require.Len(t, mail.to, 1)
	assert.Equal(t, "newbie@example.com", mail.to[0])
	assert.Contains(t, mail.body[0], "https://lobby.example.com/api/users/activate?email=newbie@example.com")
}

func TestEmailHandler_ProcessVerificationCode(t *testing.T) {
	// Arrange
	mail := &recordingMailer{}
	handler := worker.NewEmailHandler(mail, "https://lobby.example.com")
	task, err := tasks.NewVerificationCodeTask("r@test.com", "123456")
	require.NoError(t, err)

	// Act
	err = handler.ProcessVerificationCode(context.Background(), task)

	// Assert
	require.NoError(t, err)
	require.Len(t, mail.to, 1)
	assert.Equal(t, "r@test.com", mail.to[0])
	assert.Contains(t, mail.body[0], "123456")
}

func TestEmailHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	// Arrange: a payload that is not valid JSON must not loop in the queue.
	mail := &recordingMailer{}
	handler := worker.NewEmailHandler(mail, "https://lobby.example.com")
	task := asynq.NewTask(tasks.TypeConfirmationEmail, []byte("{not json"))

	// Act
	err := handler.ProcessConfirmationEmail(context.Background(), task)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Empty(t, mail.to)
}

func TestEmailHandler_SendFailureIsRetryable(t *testing.T) {
	// Arrange
	mail := &recordingMailer{err: errors.New("relay unavailable")}
	handler := worker.NewEmailHandler(mail, "https://lobby.example.com")
	task, err := tasks.NewVerificationCodeTask("r@test.com", "123456")
	require.NoError(t, err)

	// Act
	err = handler.ProcessVerificationCode(context.Background(), task)

	// Assert
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
