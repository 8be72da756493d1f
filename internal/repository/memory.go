package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

// memSession is the registry used when redis is disabled.
type memSession struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memSession{
		sessions: make(map[string]entity.Session),
	}
}

func (that *memSession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = copySession(session)

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return &entity.Session{}, ErrSessionNotFound
	}

	found := copySession(&session)
	return &found, nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *memSession) ListActive(_ context.Context) ([]*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(that.sessions))
	for _, session := range that.sessions {
		found := copySession(&session)
		sessions = append(sessions, &found)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Number < sessions[j].Number
	})

	return sessions, nil
}

func copySession(session *entity.Session) entity.Session {
	dup := *session
	dup.Board = append([]string(nil), session.Board...)
	dup.Players = append([]string(nil), session.Players...)
	if session.LastMove != nil {
		last := *session.LastMove
		dup.LastMove = &last
	}

	return dup
}
