// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"premiumradar-core/internal/common/errors"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/metrics"
	"premiumradar-core/internal/pipeline/memory"
)

// Store persists per-session context memory in Redis. Each session is one
// JSON value under a TTL; the pipeline itself stays stateless.
type Store struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int
	logger     logger.Logger
}

// NewStore builds a session store. ttl bounds how long an idle conversation
// keeps its context; maxEntries sizes fresh memory states.
func NewStore(client *redis.Client, ttl time.Duration, maxEntries int, log logger.Logger) *Store {
	if maxEntries <= 0 {
		maxEntries = memory.DefaultMaxEntries
	}
	return &Store{
		client:     client,
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     log,
	}
}

// Load fetches a session, returning a fresh one when the key is absent or
// expired. Only transport failures surface as errors.
func (s *Store) Load(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		metrics.SessionLoads.WithLabelValues("miss").Inc()
		now := time.Now().UTC()
		return &Session{
			ID:        sessionID,
			Memory:    memory.NewState(s.maxEntries),
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		metrics.SessionLoads.WithLabelValues("error").Inc()
		return nil, errors.NewSessionLoadFailedError(sessionID, err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt value is unrecoverable; start the conversation over.
		metrics.SessionLoads.WithLabelValues("corrupt").Inc()
		s.logger.Warn("discarding corrupt session state", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		now := time.Now().UTC()
		return &Session{
			ID:        sessionID,
			Memory:    memory.NewState(s.maxEntries),
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	metrics.SessionLoads.WithLabelValues("hit").Inc()
	return &sess, nil
}

// Save writes the session back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.NewSessionSaveFailedError(sess.ID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err(); err != nil {
		return errors.NewSessionSaveFailedError(sess.ID, err)
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.NewSessionSaveFailedError(sessionID, err)
	}
	return nil
}
