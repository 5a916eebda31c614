package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/config"
	"study-quiz-service/internal/content"
	"study-quiz-service/internal/infra/memory"
	pgstore "study-quiz-service/internal/infra/postgres"
	redisstore "study-quiz-service/internal/infra/redis"
	"study-quiz-service/internal/infra/sqlite"
	"study-quiz-service/internal/platform/logger"
)

// runtime holds the wired service and the resources that must be released
// when the command exits.
type runtime struct {
	service *app.StudyService
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// buildRuntime wires storage and content generation from config. Postgres
// takes precedence over SQLite for activity data; Redis, when configured,
// backs both workspaces and the generation cache. ephemeral forces the
// in-memory workspace store regardless of Redis.
func buildRuntime(ctx context.Context, cfg config.Config, log *logger.Logger, ephemeral bool) (*runtime, error) {
	rt := &runtime{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	store, err := openActivityStore(ctx, cfg, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var workspaces app.WorkspaceRepository = memory.NewWorkspaceStore()
	if redisClient != nil && !ephemeral {
		workspaces = redisstore.NewWorkspaceStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 24*time.Hour))
	}

	var provider app.ContentProvider
	if cfg.LLM.APIKey != "" && !cfg.LLM.Mock {
		var gen memory.Generator = content.NewOpenAIProvider(content.OpenAIOptions{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		}, log)
		cacheTTL := config.TTLDuration(cfg.Cache.TTL, time.Hour)
		if redisClient != nil {
			provider = redisstore.NewGenerationCache(redisClient, gen, cacheTTL)
		} else {
			provider = memory.NewGenerationCache(gen, cacheTTL)
		}
		log.Info("content provider ready", "model", cfg.LLM.Model)
	} else {
		log.Warn("no API key configured or mock forced, using mock content")
	}

	rt.service = app.NewStudyService(provider, content.MockProvider{}, store, workspaces, log).
		WithDefaultQuestions(cfg.LLM.NumQuestions)
	return rt, nil
}

func openActivityStore(ctx context.Context, cfg config.Config, rt *runtime) (app.ActivityStore, error) {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		return pgstore.NewActivityStore(pool), nil
	}

	store, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = store.Close() })
	if err := store.CreateTables(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
