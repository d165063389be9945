package modelroute

import "time"

// Outcome classifies a single flight log entry.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeQuotaExhausted Outcome = "quota_exhausted"
	OutcomeSkipped        Outcome = "skipped"
	OutcomeError          Outcome = "error"
)

// FlightEntry is one append-only audit record: which model was attempted
// for which request, at which tier position, and how it went. Pre-emptive
// ledger skips are recorded too, so the log reflects the full tier walk.
type FlightEntry struct {
	Time      time.Time
	RequestID string
	Category  TaskCategory
	Model     string
	Tier      int
	Outcome   Outcome
	Err       string
}

// FlightLog receives flight entries. Append failures never fail the
// caller's request; the router reports them to its logger instead.
type FlightLog interface {
	Append(FlightEntry) error
}

// noopFlightLog is the default sink when none is configured.
type noopFlightLog struct{}

func (noopFlightLog) Append(FlightEntry) error { return nil }
