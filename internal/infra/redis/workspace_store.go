package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

// WorkspaceStore keeps each visitor's workspace as a JSON document:
//
//	SET study:workspace:{visitorID} {json} EX ttl
//
// Every save refreshes the TTL, so idle workspaces expire on their own.
type WorkspaceStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWorkspaceStore(client *redis.Client, ttl time.Duration) *WorkspaceStore {
	return &WorkspaceStore{client: client, ttl: ttl}
}

func (s *WorkspaceStore) Load(ctx context.Context, visitorID string) (*app.Workspace, error) {
	raw, err := s.client.Get(ctx, s.key(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	var ws app.Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}
	return &ws, nil
}

func (s *WorkspaceStore) Save(ctx context.Context, visitorID string, ws *app.Workspace) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := s.client.Set(ctx, s.key(visitorID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set workspace: %w", err)
	}
	return nil
}

func (s *WorkspaceStore) Delete(ctx context.Context, visitorID string) error {
	return s.client.Del(ctx, s.key(visitorID)).Err()
}

func (s *WorkspaceStore) key(visitorID string) string {
	return "study:workspace:" + visitorID
}
