package memory

import (
	"context"
	"sync"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

// WorkspaceStore is an in-memory implementation of app.WorkspaceRepository.
// It stores copies so callers never share session state through it.
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[string]*app.Workspace
}

func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{
		workspaces: make(map[string]*app.Workspace),
	}
}

func (s *WorkspaceStore) Load(_ context.Context, visitorID string) (*app.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[visitorID]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return ws.Clone(), nil
}

func (s *WorkspaceStore) Save(_ context.Context, visitorID string, ws *app.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[visitorID] = ws.Clone()
	return nil
}

func (s *WorkspaceStore) Delete(_ context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, visitorID)
	return nil
}
