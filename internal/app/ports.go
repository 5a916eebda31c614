package app

import (
	"context"

	"study-quiz-service/internal/domain"
)

// ContentProvider produces the raw summary and quiz text for study material.
type ContentProvider interface {
	GenerateSummary(ctx context.Context, material string) (string, error)
	GenerateQuiz(ctx context.Context, material string, count int) (string, error)
	Model() string
}

// ActivityStore persists visitor activity. Writes are best-effort from the
// service's point of view; reads back the history pages.
type ActivityStore interface {
	TouchSession(ctx context.Context, v domain.VisitorSession) error
	RecordGeneration(ctx context.Context, meta domain.GenerationMeta) (int64, error)
	RecordQuizResult(ctx context.Context, sessionID string, generationID int64, score domain.ScoreResult, answers map[int]string) error
	ListGenerations(ctx context.Context, sessionID string, limit int) ([]domain.Generation, error)
	ListQuizResults(ctx context.Context, sessionID string, limit int) ([]domain.QuizResult, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}

// WorkspaceRepository abstracts where per-visitor workspaces live (in-memory, Redis).
type WorkspaceRepository interface {
	Load(ctx context.Context, visitorID string) (*Workspace, error)
	Save(ctx context.Context, visitorID string, ws *Workspace) error
	Delete(ctx context.Context, visitorID string) error
}
