package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"study-quiz-service/internal/content"
)

// Generator produces summary and quiz text (e.g., an LLM client).
type Generator interface {
	GenerateSummary(ctx context.Context, material string) (string, error)
	GenerateQuiz(ctx context.Context, material string, count int) (string, error)
	Model() string
}

// GenerationCache caches generated text with TTL so repeated requests for
// the same material do not hit the model again. Failures are not cached.
type GenerationCache struct {
	next  Generator
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedText
}

type cachedText struct {
	text      string
	expiresAt time.Time
}

func NewGenerationCache(next Generator, ttl time.Duration) *GenerationCache {
	return &GenerationCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedText),
	}
}

func (c *GenerationCache) Model() string {
	return c.next.Model()
}

func (c *GenerationCache) GenerateSummary(ctx context.Context, material string) (string, error) {
	key := content.CacheKey("summary", c.next.Model(), 0, material)
	return c.get(key, func() (string, error) {
		return c.next.GenerateSummary(ctx, material)
	})
}

func (c *GenerationCache) GenerateQuiz(ctx context.Context, material string, count int) (string, error) {
	key := content.CacheKey("quiz", c.next.Model(), count, material)
	return c.get(key, func() (string, error) {
		return c.next.GenerateQuiz(ctx, material, count)
	})
}

func (c *GenerationCache) get(key string, load func() (string, error)) (string, error) {
	if text, ok := c.lookup(key); ok {
		return text, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if text, ok := c.lookup(key); ok {
			return text, nil
		}

		text, err := load()
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.cache[key] = cachedText{
			text:      text,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *GenerationCache) lookup(key string) (string, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return "", false
	}
	return entry.text, true
}

func (c *GenerationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
