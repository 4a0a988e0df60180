package status

import (
	"sync"
	"time"

	"github.com/fleshka4/autoswap/internal/apperrors"
	"github.com/fleshka4/autoswap/internal/service/dto"
)

// Report describes one finished swap cycle.
type Report struct {
	CycleID    string
	StartedAt  time.Time
	FinishedAt time.Time
	// Result is the apperrors kind of the cycle error, apperrors.KindNone on success.
	Result  string
	Error   string
	Outcome *dto.SwapOutcome
}

// Succeeded reports whether the cycle ended with a confirmed swap.
func (r Report) Succeeded() bool {
	return r.Result == apperrors.KindNone
}

// Snapshot is a consistent view of the store.
type Snapshot struct {
	Last          *Report
	Cycles        uint64
	Failures      uint64
	LastSuccessAt time.Time
}

// Store keeps the most recent cycle report and running totals. It is safe
// for concurrent use.
type Store struct {
	mu            sync.RWMutex
	last          *Report
	cycles        uint64
	failures      uint64
	lastSuccessAt time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Record replaces the last report and updates the totals.
func (s *Store) Record(r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = &r
	s.cycles++
	if r.Succeeded() {
		s.lastSuccessAt = r.FinishedAt
	} else {
		s.failures++
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Cycles:        s.cycles,
		Failures:      s.failures,
		LastSuccessAt: s.lastSuccessAt,
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}
