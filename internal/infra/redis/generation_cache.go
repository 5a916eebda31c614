package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"study-quiz-service/internal/content"
	"study-quiz-service/internal/infra/memory"
)

// GenerationCache caches generated text in Redis and falls back to the
// wrapped generator on a miss. Text is stored as:
//
//	SET study:gen:{summary|quiz}:{key} {text} EX ttl
//
// Cache read or write failures degrade to calling the generator.
type GenerationCache struct {
	client *redis.Client
	next   memory.Generator
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewGenerationCache(client *redis.Client, next memory.Generator, ttl time.Duration) *GenerationCache {
	return &GenerationCache{
		client: client,
		next:   next,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *GenerationCache) Model() string {
	return c.next.Model()
}

func (c *GenerationCache) GenerateSummary(ctx context.Context, material string) (string, error) {
	key := "study:gen:summary:" + content.CacheKey("summary", c.next.Model(), 0, material)
	return c.get(ctx, key, func() (string, error) {
		return c.next.GenerateSummary(ctx, material)
	})
}

func (c *GenerationCache) GenerateQuiz(ctx context.Context, material string, count int) (string, error) {
	key := "study:gen:quiz:" + content.CacheKey("quiz", c.next.Model(), count, material)
	return c.get(ctx, key, func() (string, error) {
		return c.next.GenerateQuiz(ctx, material, count)
	})
}

func (c *GenerationCache) get(ctx context.Context, key string, load func() (string, error)) (string, error) {
	if text, ok := c.lookup(ctx, key); ok {
		return text, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if text, ok := c.lookup(ctx, key); ok {
			return text, nil
		}

		text, err := load()
		if err != nil {
			return "", err
		}
		_ = c.client.Set(ctx, key, text, c.ttlWithJitter()).Err()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *GenerationCache) lookup(ctx context.Context, key string) (string, bool) {
	text, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return text, true
}

func (c *GenerationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
