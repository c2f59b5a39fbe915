package model

import "sync"

// LevelCounts maps every tag, UNKNOWN included, to a count.
type LevelCounts map[SeverityTag]int

// NewLevelCounts returns counts with every tag at zero.
func NewLevelCounts() LevelCounts {
	c := make(LevelCounts, len(AllTags))
	for _, t := range AllTags {
		c[t] = 0
	}
	return c
}

// CountLevels is the single place counters are derived from a set of records.
func CountLevels(records []LogRecord) LevelCounts {
	c := NewLevelCounts()
	for i := range records {
		c[records[i].Tag()]++
	}
	return c
}

// Add merges o into c.
func (c LevelCounts) Add(o LevelCounts) {
	for t, n := range o {
		c[t] += n
	}
}

// Total sums every bucket.
func (c LevelCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Clone copies the counts.
func (c LevelCounts) Clone() LevelCounts {
	out := make(LevelCounts, len(c))
	for t, n := range c {
		out[t] = n
	}
	return out
}

// Store holds the records of the current file and the counters of the view
// last rendered from them. Records are replaced wholesale on reload and are
// read-only after that.
type Store struct {
	mu      sync.RWMutex
	source  string
	records []LogRecord
	counts  LevelCounts
}

// NewStore returns an empty store with zeroed counters.
func NewStore() *Store {
	return &Store{counts: NewLevelCounts()}
}

// Replace publishes a freshly ingested record set and zeroes the counters.
func (s *Store) Replace(source string, records []LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.records = records
	s.counts = NewLevelCounts()
}

// Records returns the live slice. Callers must not modify it.
func (s *Store) Records() []LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len is the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Source is the path the records were read from.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Counts returns a snapshot of the display counters.
func (s *Store) Counts() LevelCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts.Clone()
}

// ResetCounts zeroes the display counters at the start of a pass.
func (s *Store) ResetCounts() {
	s.mu.Lock()
	s.counts = NewLevelCounts()
	s.mu.Unlock()
}

// AddCounts accumulates counts for records emitted by the current pass.
func (s *Store) AddCounts(c LevelCounts) {
	s.mu.Lock()
	s.counts.Add(c)
	s.mu.Unlock()
}

// SetCounts replaces the display counters, used by synchronous renders.
func (s *Store) SetCounts(c LevelCounts) {
	s.mu.Lock()
	s.counts = c.Clone()
	s.mu.Unlock()
}
