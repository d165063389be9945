package flightlog

import (
	"sync"
	"time"

	"github.com/jigyokei-ai/modelroute"
)

// defaultCapacity bounds how many entries Memory retains.
const defaultCapacity = 4096

// Memory retains recent flight entries in a bounded in-process buffer and
// derives operating statistics from them. Oldest entries are dropped once
// the capacity is reached.
type Memory struct {
	mu       sync.Mutex
	entries  []modelroute.FlightEntry
	capacity int
}

var _ modelroute.FlightLog = (*Memory)(nil)

// NewMemory creates a memory sink with the default capacity.
func NewMemory() *Memory {
	return NewMemoryWithCapacity(defaultCapacity)
}

// NewMemoryWithCapacity creates a memory sink retaining at most n entries.
func NewMemoryWithCapacity(n int) *Memory {
	if n <= 0 {
		n = defaultCapacity
	}
	return &Memory{capacity: n}
}

func (m *Memory) Append(e modelroute.FlightEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if len(m.entries) > m.capacity {
		m.entries = m.entries[len(m.entries)-m.capacity:]
	}
	return nil
}

// Entries returns a copy of the retained entries in append order.
func (m *Memory) Entries() []modelroute.FlightEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]modelroute.FlightEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Stats summarizes flight activity over a trailing window.
type Stats struct {
	Total        int
	SuccessRate  float64
	TierCounts   map[int]int
	RecentErrors []modelroute.FlightEntry
	LastModel    string
}

// Stats computes statistics over entries newer than now-window. A zero
// window covers everything retained.
func (m *Memory) Stats(window time.Duration) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cutoff time.Time
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}

	s := Stats{TierCounts: make(map[int]int)}
	successes := 0
	for _, e := range m.entries {
		if !cutoff.IsZero() && e.Time.Before(cutoff) {
			continue
		}
		s.Total++
		s.TierCounts[e.Tier]++
		switch e.Outcome {
		case modelroute.OutcomeSuccess:
			successes++
		case modelroute.OutcomeError:
			s.RecentErrors = append(s.RecentErrors, e)
		}
	}

	if s.Total > 0 {
		s.SuccessRate = float64(successes) / float64(s.Total) * 100
	} else {
		s.SuccessRate = 100
	}
	if n := len(m.entries); n > 0 {
		s.LastModel = m.entries[n-1].Model
	}
	return s
}
