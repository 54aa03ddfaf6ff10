package outcome

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/sunvm/unik-registration-tg/internal/common/errors"
	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

type fakeGrant struct {
	commands []string
	response string
	err      error
}

func (f *fakeGrant) Execute(_ context.Context, command string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.commands = append(f.commands, command)
	return f.response, nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeMessenger struct {
	sent    []sentMessage
	sendErr error
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, _ ...models.Choice) (models.MessageRef, error) {
	if f.sendErr != nil {
		return models.MessageRef{}, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return models.MessageRef{ChatID: chatID, MessageID: len(f.sent)}, nil
}

func (f *fakeMessenger) EditMessage(context.Context, models.MessageRef, string, ...models.Choice) error {
	return nil
}

func setupExecutor(t *testing.T) (*Executor, *fakeGrant, *fakeMessenger) {
	grant := &fakeGrant{response: "Steve123 added to the whitelist"}
	messenger := &fakeMessenger{}
	executor := NewExecutor(grant, messenger, "comfywhitelist add %s", 7, logger.NewTestLogger(t))
	return executor, grant, messenger
}

func TestExecutor_ApproveGrantsAndWelcomes(t *testing.T) {
	executor, grant, messenger := setupExecutor(t)

	err := executor.Approve(context.Background(), 100, "Steve123")

	require.NoError(t, err)
	assert.Equal(t, []string{"comfywhitelist add Steve123"}, grant.commands)

	require.Len(t, messenger.sent, 1)
	msg := messenger.sent[0]
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Contains(t, msg.Text, "Ваша заявка одобрена")
	assert.Contains(t, msg.Text, "tg://user?id=100")
	assert.Contains(t, msg.Text, "https://t.me/unikMC")
	assert.Contains(t, msg.Text, "https://discord.com/invite/XBWNN58qJb")
}

func TestExecutor_ApproveFailsWhenGrantFails(t *testing.T) {
	executor, grant, messenger := setupExecutor(t)
	grant.err = errors.New("dial tcp 127.0.0.1:25575: connection refused")

	err := executor.Approve(context.Background(), 100, "Steve123")

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeGrantChannelFailed, commonerrors.CodeOf(err))
	// No welcome message without a successful grant.
	assert.Empty(t, messenger.sent)
}

func TestExecutor_ApproveSucceedsDespiteWelcomeFailure(t *testing.T) {
	executor, grant, messenger := setupExecutor(t)
	messenger.sendErr = errors.New("bot was blocked by the user")

	err := executor.Approve(context.Background(), 100, "Steve123")

	// The grant landed, so the approval stands.
	require.NoError(t, err)
	assert.Len(t, grant.commands, 1)
}

func TestExecutor_RejectNotifiesCooldown(t *testing.T) {
	executor, grant, messenger := setupExecutor(t)

	err := executor.Reject(context.Background(), 100, "Steve123")

	require.NoError(t, err)
	assert.Empty(t, grant.commands)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].Text, "ваша заявка была отклонена")
	assert.Contains(t, messenger.sent[0].Text, "через 7 дней")
}

func TestExecutor_RejectNeverFails(t *testing.T) {
	executor, _, messenger := setupExecutor(t)
	messenger.sendErr = errors.New("bot was blocked by the user")

	err := executor.Reject(context.Background(), 100, "Steve123")

	require.NoError(t, err)
}
