package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

func setupSessions(t *testing.T) (*RedisSessions, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessions(client, time.Hour, logger.NewTestLogger(t)), mr
}

func createSession(applicantID int64, state models.ConversationState) *models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Session{
		ApplicantID: applicantID,
		ChatID:      applicantID,
		State:       state,
		Draft: models.ApplicationDraft{
			ApplicantID: applicantID,
			ChatID:      applicantID,
		},
		StartedAt: now,
		UpdatedAt: now,
	}
}

func TestSessions_SaveAndLoadRoundTrip(t *testing.T) {
	sessions, _ := setupSessions(t)
	ctx := context.Background()

	saved := createSession(100, models.StateAwaitingAge)
	saved.Draft.RulesAcknowledged = true
	saved.Draft.Age = "17"

	require.NoError(t, sessions.Save(ctx, saved))

	loaded, err := sessions.Load(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, models.StateAwaitingAge, loaded.State)
	assert.True(t, loaded.Draft.RulesAcknowledged)
	assert.Equal(t, "17", loaded.Draft.Age)
}

func TestSessions_LoadMissingReturnsNil(t *testing.T) {
	sessions, _ := setupSessions(t)

	loaded, err := sessions.Load(context.Background(), 100)

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessions_DeleteDisposesSession(t *testing.T) {
	sessions, _ := setupSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, createSession(100, models.StateAwaitingRulesAck)))
	require.NoError(t, sessions.Delete(ctx, 100))

	loaded, err := sessions.Load(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessions_SaveSetsTTL(t *testing.T) {
	sessions, mr := setupSessions(t)

	require.NoError(t, sessions.Save(context.Background(), createSession(100, models.StateAwaitingRulesAck)))

	assert.Greater(t, mr.TTL("conv:100"), time.Duration(0))

	// After the TTL elapses the session is gone and the applicant starts over.
	mr.FastForward(2 * time.Hour)
	loaded, err := sessions.Load(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessions_CorruptPayloadIsDropped(t *testing.T) {
	sessions, mr := setupSessions(t)

	require.NoError(t, mr.Set("conv:100", "{not json"))

	loaded, err := sessions.Load(context.Background(), 100)

	require.NoError(t, err)
	assert.Nil(t, loaded)
	// The corrupt entry must be gone so /start can rebuild cleanly.
	assert.False(t, mr.Exists("conv:100"))
}

func TestSessions_LoadPropagatesRedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	sessions := NewRedisSessions(client, time.Hour, logger.NewNoOpLogger())

	mock.ExpectGet("conv:100").SetErr(errors.New("connection refused"))

	loaded, err := sessions.Load(context.Background(), 100)

	require.Error(t, err)
	assert.Nil(t, loaded)
	assert.Contains(t, err.Error(), "load session")
}
