package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/quiz"
)

const sampleQuiz = "Question 1: What is 2 + 2?\na) 3\nb) 4\nAnswer: b) 4\n\nQuestion 2: Capital of France?\na) Paris\nb) Rome\nAnswer: a) Paris"

func TestWorkspaceStoreRoundTrip(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewWorkspaceStore(client, time.Minute)
	ctx := context.Background()

	if _, err := store.Load(ctx, "v1"); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	session := quiz.NewSession(quiz.Parse(sampleQuiz))
	_ = session.Select(1, "b")
	_, _ = session.Submit()
	ws := &app.Workspace{
		Summary:      "# Notes\n- point",
		QuizText:     sampleQuiz,
		Session:      session,
		GenerationID: 7,
		Model:        "mock",
	}
	if err := store.Save(ctx, "v1", ws); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("study:workspace:v1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("study:workspace:v1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", ttl)
	}

	loaded, err := store.Load(ctx, "v1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GenerationID != 7 || loaded.Summary != ws.Summary {
		t.Fatalf("unexpected workspace: %+v", loaded)
	}
	if !loaded.Session.Submitted() || loaded.Session.Answers()[1] != "b" {
		t.Fatalf("expected submitted session with answer, got %+v", loaded.Session.Snapshot())
	}
	if got := loaded.Session.Score(); got.Correct != 1 || got.Total != 2 {
		t.Fatalf("unexpected score after reload: %+v", got)
	}

	if err := store.Delete(ctx, "v1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("study:workspace:v1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestGenerationCacheCachesInRedis(t *testing.T) {
	mr, client := newMiniredis(t)
	gen := &countingGenerator{}
	cache := NewGenerationCache(client, gen, time.Minute)
	ctx := context.Background()

	if _, err := cache.GenerateQuiz(ctx, "material", 5); err != nil {
		t.Fatalf("generate quiz: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected generator called once, got %d", gen.calls)
	}

	// Second call should hit cache, generator not incremented.
	text, _ := cache.GenerateQuiz(ctx, "material", 5)
	if gen.calls != 1 {
		t.Fatalf("expected cache hit, generator calls=%d", gen.calls)
	}
	if len(quiz.Parse(text)) != 2 {
		t.Fatalf("expected cached quiz text, got %q", text)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one cache key, got %v", mr.Keys())
	}
}

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Model() string { return "test-model" }

func (g *countingGenerator) GenerateSummary(context.Context, string) (string, error) {
	g.calls++
	return "- point", nil
}

func (g *countingGenerator) GenerateQuiz(context.Context, string, int) (string, error) {
	g.calls++
	return sampleQuiz, nil
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
