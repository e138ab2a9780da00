package services

import (
	"context"
	"sync"

	apperrors "github.com/yungbote/mediaplan-backend/internal/pkg/errors"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

// SessionStore is durable key-value persistence for import sessions. The
// document must survive process restarts between upload and import, since a
// human review step of arbitrary length sits in between. Last-writer-wins
// per session id is the only concurrency guarantee required.
type SessionStore interface {
	Create(ctx context.Context, session *types.ImportSession) error
	Get(ctx context.Context, sessionID string) (*types.ImportSession, error)
	Update(ctx context.Context, session *types.ImportSession) error
}

// MemorySessionStore keeps sessions in process memory. It backs tests and
// local runs without redis; production uses the redis-backed store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]byte)}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *types.ImportSession) error {
	return s.Update(ctx, session)
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*types.ImportSession, error) {
	s.mu.RLock()
	raw, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return decodeSession(raw)
}

func (s *MemorySessionStore) Update(ctx context.Context, session *types.ImportSession) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.SessionID] = raw
	s.mu.Unlock()
	return nil
}
