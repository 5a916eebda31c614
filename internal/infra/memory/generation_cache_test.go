package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGenerationCacheCaches(t *testing.T) {
	gen := &countingGenerator{}
	cache := NewGenerationCache(gen, time.Minute)

	if _, err := cache.GenerateQuiz(context.Background(), "material", 5); err != nil {
		t.Fatalf("generate quiz: %v", err)
	}
	if gen.quizCalls != 1 {
		t.Fatalf("expected generator once, got %d", gen.quizCalls)
	}

	if _, err := cache.GenerateQuiz(context.Background(), "material", 5); err != nil {
		t.Fatalf("generate quiz 2: %v", err)
	}
	if gen.quizCalls != 1 {
		t.Fatalf("expected cache hit, generator calls %d", gen.quizCalls)
	}

	if _, err := cache.GenerateQuiz(context.Background(), "material", 6); err != nil {
		t.Fatalf("generate quiz 3: %v", err)
	}
	if gen.quizCalls != 2 {
		t.Fatalf("expected a different count to miss, generator calls %d", gen.quizCalls)
	}
}

func TestGenerationCacheExpires(t *testing.T) {
	gen := &countingGenerator{}
	cache := NewGenerationCache(gen, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.GenerateSummary(context.Background(), "material")
	now = now.Add(2 * time.Minute)
	_, _ = cache.GenerateSummary(context.Background(), "material")
	if gen.summaryCalls != 2 {
		t.Fatalf("expected expired entry to reload, generator calls %d", gen.summaryCalls)
	}
}

func TestGenerationCacheDoesNotCacheErrors(t *testing.T) {
	gen := &countingGenerator{err: errors.New("rate limited")}
	cache := NewGenerationCache(gen, time.Minute)

	if _, err := cache.GenerateSummary(context.Background(), "material"); err == nil {
		t.Fatalf("expected error")
	}
	gen.err = nil
	text, err := cache.GenerateSummary(context.Background(), "material")
	if err != nil || text == "" {
		t.Fatalf("expected retry to succeed, got %q %v", text, err)
	}
	if gen.summaryCalls != 2 {
		t.Fatalf("expected two generator calls, got %d", gen.summaryCalls)
	}
}

type countingGenerator struct {
	mu           sync.Mutex
	summaryCalls int
	quizCalls    int
	err          error
}

func (g *countingGenerator) Model() string { return "test-model" }

func (g *countingGenerator) GenerateSummary(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.summaryCalls++
	if g.err != nil {
		return "", g.err
	}
	return "- point", nil
}

func (g *countingGenerator) GenerateQuiz(context.Context, string, int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quizCalls++
	if g.err != nil {
		return "", g.err
	}
	return "Question 1: Q?\na) x\nAnswer: a) x", nil
}
