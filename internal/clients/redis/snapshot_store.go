package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/atlaslearn/atlas-backend/internal/pkg/errors"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
)

// SnapshotStore keeps the latest serialized roadmap state per session so
// status polls do not hit postgres on every request.
type SnapshotStore struct {
	client *goredis.Client
	log    *logger.Logger
	ttl    time.Duration
}

func NewSnapshotStore(client *goredis.Client, log *logger.Logger, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SnapshotStore{
		client: client,
		log:    log.With("service", "SnapshotStore"),
		ttl:    ttl,
	}
}

func snapshotKey(sessionID string) string {
	return "roadmap:session:" + sessionID
}

func (s *SnapshotStore) Save(ctx context.Context, sessionID string, raw []byte) error {
	if s == nil || s.client == nil {
		return nil
	}
	if err := s.client.Set(ctx, snapshotKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis snapshot save: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Get(ctx context.Context, sessionID string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, pkgerrors.ErrUnavailable
	}
	raw, err := s.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}
	return raw, nil
}
