package modelroute

import (
	"sync"
	"time"
)

// Ledger tracks per-model request counts so the router can skip candidates
// that are already at their advertised limit without issuing a call. It is
// process-local and advisory: authoritative enforcement stays with the
// upstream provider.
type Ledger interface {
	// TryReserve reports whether usage for the model is currently below
	// both of the descriptor's limits. It does not itself increment.
	TryReserve(modelID string, desc ModelDescriptor) bool

	// Record increments both counters for the model, applying lazy window
	// resets first.
	Record(modelID string)
}

// MemoryLedger is the in-memory Ledger used by default. The per-minute
// counter uses a tumbling window anchored to wall-clock minute boundaries;
// the per-day counter resets at UTC midnight. Resets are lazy: any read or
// write that observes an elapsed window zeroes the counter first.
type MemoryLedger struct {
	mu    sync.Mutex
	usage map[string]*modelUsage

	now func() time.Time
}

type modelUsage struct {
	minuteStart time.Time
	minuteCount int
	dayStart    time.Time
	dayCount    int
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		usage: make(map[string]*modelUsage),
		now:   time.Now,
	}
}

var _ Ledger = (*MemoryLedger)(nil)

// TryReserve reports whether the model is below both limits. A zero quota
// value means unknown/unlimited: enforcement is deferred entirely to the
// upstream provider's own error response.
func (l *MemoryLedger) TryReserve(modelID string, desc ModelDescriptor) bool {
	if desc.RPM <= 0 && desc.RPD <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.getOrCreate(modelID)
	l.maybeReset(u)

	if desc.RPM > 0 && u.minuteCount >= desc.RPM {
		return false
	}
	if desc.RPD > 0 && u.dayCount >= desc.RPD {
		return false
	}
	return true
}

// Record counts one request against the model's minute and day windows.
func (l *MemoryLedger) Record(modelID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u := l.getOrCreate(modelID)
	l.maybeReset(u)
	u.minuteCount++
	u.dayCount++
}

// Usage returns the current minute and day counts for a model, after lazy
// window resets. Useful for diagnostics and tests.
func (l *MemoryLedger) Usage(modelID string) (minute, day int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.usage[modelID]
	if !ok {
		return 0, 0
	}
	l.maybeReset(u)
	return u.minuteCount, u.dayCount
}

func (l *MemoryLedger) getOrCreate(modelID string) *modelUsage {
	u, ok := l.usage[modelID]
	if !ok {
		now := l.now().UTC()
		u = &modelUsage{
			minuteStart: now.Truncate(time.Minute),
			dayStart:    startOfDayUTC(now),
		}
		l.usage[modelID] = u
	}
	return u
}

// maybeReset zeroes counters whose window has elapsed. Must be called with
// the lock held.
func (l *MemoryLedger) maybeReset(u *modelUsage) {
	now := l.now().UTC()

	if minute := now.Truncate(time.Minute); minute.After(u.minuteStart) {
		u.minuteStart = minute
		u.minuteCount = 0
	}
	if day := startOfDayUTC(now); day.After(u.dayStart) {
		u.dayStart = day
		u.dayCount = 0
	}
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
