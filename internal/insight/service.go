package insight

import (
	"context"
	"sync"
	"time"

	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
)

// insightTTL: the coach is asked for fresh advice at most every six hours,
// or whenever a new workout lands (each cache is keyed by log count).
const insightTTL = 6 * time.Hour

// cachedInsight is the persisted shape under the per-intent insight keys.
type cachedInsight struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}

// Generator produces coach text; satisfied by *Client.
type Generator interface {
	Generate(ctx context.Context, intent Intent, profile models.Profile, history []models.WorkoutLog) string
}

// Service caches coach responses so the model is not re-queried on every
// dashboard load. Each intent has its own persisted cache entry with its
// own 6h/log-count gate; concurrent triggers for the same intent are
// serialized by the cache, never raced.
type Service struct {
	gen Generator
	st  store.Store

	mu     sync.Mutex
	caches map[Intent]*store.Cache
}

// NewService wires the generator to the persisted insight caches.
func NewService(gen Generator, st store.Store) *Service {
	return &Service{
		gen:    gen,
		st:     st,
		caches: make(map[Intent]*store.Cache),
	}
}

// cacheFor returns the intent's cache, creating it on first use. The store
// key is namespaced per intent so one intent's answer never evicts
// another's.
func (s *Service) cacheFor(intent Intent) *store.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[intent]
	if !ok {
		c = store.NewCache(s.st, store.KeyLastCoachInsight+":"+string(intent), insightTTL, 1)
		s.caches[intent] = c
	}
	return c
}

// Coach returns advice text for the intent, cached per (intent, log count, 6h).
func (s *Service) Coach(ctx context.Context, intent Intent, profile models.Profile, history []models.WorkoutLog) (string, error) {
	var cached cachedInsight
	err := s.cacheFor(intent).Get(ctx, len(history), func(ctx context.Context) (any, error) {
		text := s.gen.Generate(ctx, intent, profile, history)
		return cachedInsight{Intent: intent, Text: text}, nil
	}, &cached)
	if err != nil {
		return fallbacks[intent], err
	}
	return cached.Text, nil
}
