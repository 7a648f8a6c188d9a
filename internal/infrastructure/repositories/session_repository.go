package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/identitysvc/domain"
)

// Redis key layout. The primary record holds the session JSON; the
// token and refresh-token keys are secondary indexes pointing at the
// session id, and the per-user set tracks all session ids for bulk
// invalidation. Saves and deletes must keep all four consistent.
const (
	sessionKeyPrefix = "session:"
	tokenKeyPrefix   = "sessiontok:"
	refreshKeyPrefix = "sessionref:"
	userKeyPrefix    = "sessionuser:"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
type SessionRepositoryImpl struct {
	client *redis.Client
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &SessionRepositoryImpl{client: client}
}

// Save implements domain.SessionRepository. When the session's tokens
// rotated since the last save, the stale index keys are removed in the
// same pipeline.
func (r *SessionRepositoryImpl) Save(ctx context.Context, session *domain.AuthSession) (*domain.AuthSession, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	prev, err := r.findByID(ctx, session.ID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	if prev != nil {
		if prev.Token.Value != session.Token.Value {
			pipe.Del(ctx, tokenKeyPrefix+prev.Token.Value)
		}
		if prev.RefreshToken.Value != session.RefreshToken.Value {
			pipe.Del(ctx, refreshKeyPrefix+prev.RefreshToken.Value)
		}
	}
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, 0)
	pipe.Set(ctx, tokenKeyPrefix+session.Token.Value, session.ID, 0)
	pipe.Set(ctx, refreshKeyPrefix+session.RefreshToken.Value, session.ID, 0)
	pipe.SAdd(ctx, userKeyPrefix+session.UserID.String(), session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// FindByID implements domain.SessionRepository. Expiry is the caller's
// concern: expired records are returned as stored.
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.AuthSession, error) {
	return r.findByID(ctx, id)
}

// FindByToken implements domain.SessionRepository.
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, tokenValue string) (*domain.AuthSession, error) {
	return r.findByIndex(ctx, tokenKeyPrefix+tokenValue)
}

// FindByRefreshToken implements domain.SessionRepository.
func (r *SessionRepositoryImpl) FindByRefreshToken(ctx context.Context, refreshValue string) (*domain.AuthSession, error) {
	return r.findByIndex(ctx, refreshKeyPrefix+refreshValue)
}

// Delete implements domain.SessionRepository. The bool reports whether
// a record was actually removed.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	session, err := r.findByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.deleteRecord(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAllForUser implements domain.SessionRepository.
func (r *SessionRepositoryImpl) DeleteAllForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	ids, err := r.client.SMembers(ctx, userKeyPrefix+userID.String()).Result()
	if err != nil {
		return 0, err
	}
	var deleted int64
	for _, id := range ids {
		ok, err := r.Delete(ctx, id)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

// DeleteExpired implements domain.SessionRepository. It scans the
// primary records and removes every session past its expiry, returning
// the count of sessions removed.
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	var deleted int64
	now := time.Now()
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return deleted, err
		}
		var session domain.AuthSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return deleted, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if session.ExpiresAt.After(now) {
			continue
		}
		if err := r.deleteRecord(ctx, &session); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (r *SessionRepositoryImpl) findByID(ctx context.Context, id string) (*domain.AuthSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	var session domain.AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) findByIndex(ctx context.Context, indexKey string) (*domain.AuthSession, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	session, err := r.findByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Dangling index entry, drop it.
			r.client.Del(ctx, indexKey)
		}
		return nil, err
	}
	return session, nil
}

func (r *SessionRepositoryImpl) deleteRecord(ctx context.Context, session *domain.AuthSession) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+session.ID)
	pipe.Del(ctx, tokenKeyPrefix+session.Token.Value)
	pipe.Del(ctx, refreshKeyPrefix+session.RefreshToken.Value)
	pipe.SRem(ctx, userKeyPrefix+session.UserID.String(), session.ID)
	_, err := pipe.Exec(ctx)
	return err
}
