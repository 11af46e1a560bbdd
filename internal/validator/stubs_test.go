package validator

import (
	"context"
	"sync"
	"sync/atomic"
)

// stubOracle answers every Generate call with a fixed response (or error)
// and counts the calls.
type stubOracle struct {
	response string
	err      error
	calls    int64
}

func (s *stubOracle) Name() string { return "stub" }

func (s *stubOracle) Generate(ctx context.Context, instruction string) (string, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.response, s.err
}

func (s *stubOracle) callCount() int64 {
	return atomic.LoadInt64(&s.calls)
}

// stubMeters serves a fixed meter → pattern-set mapping.
type stubMeters struct {
	sets map[string]map[string]bool
}

func (s *stubMeters) Patterns(key string) (map[string]bool, bool) {
	set, ok := s.sets[key]
	return set, ok
}

// memCache is an in-memory VerdictCache.
type memCache struct {
	mu    sync.Mutex
	data  map[string]cachedVerdict
	hits  int
	saves int
}

type cachedVerdict struct {
	valid bool
	issue string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]cachedVerdict)}
}

func (c *memCache) GetRhymeVerdict(ctx context.Context, baitText, spec string) (bool, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[baitText+"|"+spec]
	if ok {
		c.hits++
	}
	return v.valid, v.issue, ok, nil
}

func (c *memCache) SaveRhymeVerdict(ctx context.Context, baitText, spec string, valid bool, issue string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[baitText+"|"+spec] = cachedVerdict{valid: valid, issue: issue}
	c.saves++
	return nil
}
