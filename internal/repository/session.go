package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const (
	sessionKeyPrefix = "session:"
	activeSessionKey = "sessions:active"
)

// ErrSessionNotFound is returned when no running session has the id.
var ErrSessionNotFound = apperror.ErrSessionNotFound

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository - registry of running sessions stored in redis. Records
// expire after ttl so a crashed process leaves nothing behind.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, sessionJSON, that.ttl)
	pipe.SAdd(ctx, activeSessionKey, session.ID)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Session{}, ErrSessionNotFound
	}

	if err != nil {
		return &entity.Session{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return &entity.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	pipe := that.client.TxPipeline()
	deleted := pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.SRem(ctx, activeSessionKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted.Val() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// ListActive returns every registered session. Ids whose record expired are pruned.
func (that *dbSession) ListActive(ctx context.Context) ([]*entity.Session, error) {
	ids, err := that.client.SMembers(ctx, activeSessionKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*entity.Session, 0, len(ids))
	for _, id := range ids {
		session, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			_ = that.client.SRem(ctx, activeSessionKey, id).Err()
			continue
		}

		if err != nil {
			return nil, err
		}

		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Number < sessions[j].Number
	})

	return sessions, nil
}
