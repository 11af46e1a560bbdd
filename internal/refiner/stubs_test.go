package refiner

import (
	"context"
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

// stubMeters serves a fixed meter → pattern-set mapping and counts the
// lookups, one per evaluation of the prosody dimension.
type stubMeters struct {
	sets    map[string]map[string]bool
	lookups int64
}

func (s *stubMeters) Patterns(key string) (map[string]bool, bool) {
	atomic.AddInt64(&s.lookups, 1)
	set, ok := s.sets[key]
	return set, ok
}
