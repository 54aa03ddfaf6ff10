// internal/store/sessions.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

const sessionKeyPrefix = "conv:"

// RedisSessions keeps conversation sessions in Redis so an in-flight
// questionnaire survives a process restart. One JSON document per applicant,
// expiring after the configured TTL.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisSessions creates a session store backed by client.
func NewRedisSessions(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisSessions {
	return &RedisSessions{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "sessionStore"}),
	}
}

func sessionKey(applicantID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, applicantID)
}

// Load returns the applicant's session, or (nil, nil) when none exists.
func (s *RedisSessions) Load(ctx context.Context, applicantID int64) (*models.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(applicantID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		// A corrupt session is unrecoverable; drop it so the applicant can
		// restart with /start.
		s.logger.Warn("dropping corrupt session", map[string]interface{}{
			"applicantId": applicantID,
			"error":       err.Error(),
		})
		_ = s.client.Del(ctx, sessionKey(applicantID)).Err()
		return nil, nil
	}
	return &session, nil
}

// Save persists the session and refreshes its TTL.
func (s *RedisSessions) Save(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ApplicantID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete disposes of the applicant's session.
func (s *RedisSessions) Delete(ctx context.Context, applicantID int64) error {
	if err := s.client.Del(ctx, sessionKey(applicantID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
