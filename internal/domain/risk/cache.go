package risk

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/welldoc/riskdash/internal/platform/statestore"
)

// cacheKey is the state store key holding the full prediction list.
const cacheKey = "riskPredictions"

// Cache holds the predictions produced during past sessions. The whole list
// is persisted as one JSON array on every mutation, so the store always
// reflects the in-memory state. One entry per patient: a newer prediction
// for the same patient replaces the older one.
type Cache struct {
	mu      sync.RWMutex
	state   statestore.Store
	results []*Result
	logger  zerolog.Logger
}

// NewCache builds a Cache backed by state and loads whatever it already
// holds. A missing or malformed persisted list starts the cache empty; the
// malformed case also clears the stored key so the corruption does not
// outlive the restart.
func NewCache(ctx context.Context, state statestore.Store, logger zerolog.Logger) (*Cache, error) {
	c := &Cache{
		state:  state,
		logger: logger.With().Str("component", "prediction_cache").Logger(),
	}

	raw, ok, err := state.Get(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c, nil
	}

	var results []*Result
	if err := json.Unmarshal(raw, &results); err != nil {
		c.logger.Warn().Err(err).Msg("discarding malformed prediction cache")
		if delErr := state.Delete(ctx, cacheKey); delErr != nil {
			c.logger.Error().Err(delErr).Msg("failed to clear malformed prediction cache")
		}
		return c, nil
	}

	c.results = results
	c.logger.Info().Int("count", len(results)).Msg("prediction cache loaded")
	return c, nil
}

// Upsert records a prediction, replacing any earlier entry for the same
// patient, and persists the updated list.
func (c *Cache) Upsert(ctx context.Context, result *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.results[:0]
	for _, r := range c.results {
		if r.PatientID != result.PatientID {
			kept = append(kept, r)
		}
	}
	c.results = append(kept, result)

	return c.persist(ctx)
}

// All returns the cached predictions in insertion order.
func (c *Cache) All() []*Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Result, len(c.results))
	copy(out, c.results)
	return out
}

// Get returns the cached prediction for one patient, if any.
func (c *Cache) Get(patientID string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.results {
		if r.PatientID == patientID {
			return r, true
		}
	}
	return nil, false
}

// Len reports the number of cached predictions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Clear empties the cache and removes the persisted list.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = nil
	return c.state.Delete(ctx, cacheKey)
}

// persist writes the whole list; callers hold c.mu.
func (c *Cache) persist(ctx context.Context) error {
	raw, err := json.Marshal(c.results)
	if err != nil {
		return err
	}
	return c.state.Set(ctx, cacheKey, raw)
}
