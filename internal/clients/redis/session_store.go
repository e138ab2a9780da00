package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mediaplan-backend/internal/logger"
	apperrors "github.com/yungbote/mediaplan-backend/internal/pkg/errors"
	"github.com/yungbote/mediaplan-backend/internal/types"
)

const sessionKeyPrefix = "import_session:"

// SessionStore persists import session documents in redis. Sessions are
// audit records, so nothing here sets a TTL.
type SessionStore struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewSessionStore(log *logger.Logger) (*SessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SessionStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
	}, nil
}

func (s *SessionStore) Create(ctx context.Context, session *types.ImportSession) error {
	return s.Update(ctx, session)
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*types.ImportSession, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}
	var session types.ImportSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *SessionStore) Update(ctx context.Context, session *types.ImportSession) error {
	if session == nil || session.SessionID == "" {
		return fmt.Errorf("session requires an id")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.SessionID, err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.SessionID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", session.SessionID, err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}
