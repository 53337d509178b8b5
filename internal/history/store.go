package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ppiankov/credence/internal/model"
)

// PreviewSize is how many entries the summary view renders
const PreviewSize = 5

// ErrMalformedID is returned by ParseID for ids that are not integers
var ErrMalformedID = errors.New("malformed analysis id")

// Store is the newest-first log of completed analyses.
// Entries are kept oldest-first internally so Record is an amortized O(1) append.
type Store struct {
	mu      sync.RWMutex
	entries []model.Analysis
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Record inserts an analysis at the front of the log.
// Order follows call order, not the analysis timestamp.
func (s *Store) Record(a model.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, a)
}

// Seed places analyses behind everything already recorded, in the given order
func (s *Store) Seed(analyses ...model.Analysis) {
	if len(analyses) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	older := make([]model.Analysis, 0, len(analyses)+len(s.entries))
	for i := len(analyses) - 1; i >= 0; i-- {
		older = append(older, analyses[i])
	}
	s.entries = append(older, s.entries...)
}

// Recent returns up to n entries, newest first
func (s *Store) Recent(n int) []model.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []model.Analysis{}
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}

	out := make([]model.Analysis, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, cloneAnalysis(s.entries[i]))
	}
	return out
}

// All returns every entry, newest first
func (s *Store) All() []model.Analysis {
	return s.Recent(s.Len())
}

// FindByID scans for an analysis; ok is false when it is not present
func (s *Store) FindByID(id int64) (model.Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ID == id {
			return cloneAnalysis(s.entries[i]), true
		}
	}
	return model.Analysis{}, false
}

// Len returns the number of recorded analyses
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ParseID converts an external id string into an analysis id
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, raw)
	}
	return id, nil
}

// cloneAnalysis copies the flag slice so callers cannot mutate stored entries
func cloneAnalysis(a model.Analysis) model.Analysis {
	if a.Result.Flags != nil {
		flags := make([]string, len(a.Result.Flags))
		copy(flags, a.Result.Flags)
		a.Result.Flags = flags
	}
	return a
}
