package ui

import (
    "fmt"
    "sync"
    "time"
)

// LoadEntry records one dataset fetch.
type LoadEntry struct {
    When     time.Time
    Source   string
    Rows     int
    Duration time.Duration
    Err      string
}

func (e LoadEntry) Summary() string {
    if e.Err != "" {
        return fmt.Sprintf("%s failed after %s: %s", e.Source, e.Duration.Round(time.Millisecond), e.Err)
    }
    return fmt.Sprintf("%s: %d rows in %s", e.Source, e.Rows, e.Duration.Round(time.Millisecond))
}

// LoadLogStore keeps the most recent loads, oldest first.
type LoadLogStore struct {
    mu      sync.Mutex
    entries []LoadEntry
    max     int
}

func NewLoadLogStore(max int) *LoadLogStore {
    if max <= 0 { max = 50 }
    return &LoadLogStore{max: max}
}

func (s *LoadLogStore) Append(e LoadEntry) {
    s.mu.Lock(); defer s.mu.Unlock()
    if e.When.IsZero() { e.When = time.Now() }
    s.entries = append(s.entries, e)
    s.trim()
}

func (s *LoadLogStore) trim() {
    if len(s.entries) > s.max {
        // drop oldest
        s.entries = append([]LoadEntry(nil), s.entries[len(s.entries)-s.max:]...)
    }
}

// List returns the last n entries; n <= 0 means all.
func (s *LoadLogStore) List(n int) []LoadEntry {
    s.mu.Lock(); defer s.mu.Unlock()
    if n <= 0 || n > len(s.entries) { n = len(s.entries) }
    out := make([]LoadEntry, n)
    copy(out, s.entries[len(s.entries)-n:])
    return out
}
