package modelroute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router is the request entry point. It walks the current tier table for
// the requested category, consults the quota ledger before each attempt,
// falls through to the next candidate on quota exhaustion, and records
// every attempt in the flight log.
type Router struct {
	invoker Invoker
	tiers   atomic.Pointer[TierTable]
	ledger  Ledger
	flight  FlightLog
	logger  *zap.Logger
	warner  *deprecationWarner

	attemptTimeout time.Duration

	// shiftMu serializes administrative table swaps; readers load the
	// table pointer without locking.
	shiftMu sync.Mutex

	now func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithLedger sets the quota ledger.
func WithLedger(l Ledger) Option {
	return func(r *Router) { r.ledger = l }
}

// WithFlightLog sets the flight log sink.
func WithFlightLog(f FlightLog) Option {
	return func(r *Router) { r.flight = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithAttemptTimeout bounds each individual candidate call so that one
// unresponsive tier cannot indefinitely block fallback to the next.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Router) { r.attemptTimeout = d }
}

// NewRouter creates a Router over the given tier table and invocation
// collaborator. Default components (MemoryLedger, no-op flight log, no-op
// logger) are used unless overridden via options.
func NewRouter(table *TierTable, invoker Invoker, opts ...Option) (*Router, error) {
	if table == nil {
		return nil, fmt.Errorf("modelroute: a tier table is required")
	}
	if invoker == nil {
		return nil, fmt.Errorf("modelroute: an invoker is required")
	}

	r := &Router{
		invoker: invoker,
		warner:  newDeprecationWarner(),
		now:     time.Now,
	}
	r.tiers.Store(table)

	for _, opt := range opts {
		opt(r)
	}

	// Apply defaults after options.
	if r.ledger == nil {
		r.ledger = NewMemoryLedger()
	}
	if r.flight == nil {
		r.flight = noopFlightLog{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	return r, nil
}

// Generate routes one request. It returns the first successful result, a
// RouteError for a non-quota failure (never retried across tiers), or an
// AllTiersExhaustedError when every candidate was quota-limited.
func (r *Router) Generate(ctx context.Context, category TaskCategory, payload any) (GenerationResult, error) {
	if !category.Valid() {
		return GenerationResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	table := r.tiers.Load()
	seq, ok := table.Sequence(category)
	if !ok {
		return GenerationResult{}, fmt.Errorf("%w: %q has no tier sequence", ErrUnknownCategory, category)
	}

	requestID := uuid.New().String()
	attempts := make([]Attempt, 0, len(seq))

	for tier, md := range seq {
		if err := ctx.Err(); err != nil {
			return GenerationResult{}, err
		}

		r.warner.check(md, r.now(), r.logger)

		if !r.ledger.TryReserve(md.ID, md) {
			r.appendFlight(FlightEntry{
				Time:      r.now(),
				RequestID: requestID,
				Category:  category,
				Model:     md.ID,
				Tier:      tier,
				Outcome:   OutcomeSkipped,
				Err:       "local quota limit reached",
			})
			attempts = append(attempts, Attempt{
				Model:   md.ID,
				Tier:    tier,
				Skipped: true,
				Reason:  "local quota limit reached",
			})
			r.logger.Debug("candidate skipped",
				zap.String("request_id", requestID),
				zap.String("category", string(category)),
				zap.String("model", md.ID),
				zap.Int("tier", tier),
			)
			continue
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(nil)
		if r.attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		}

		start := r.now()
		resp, err := r.invoker.Invoke(attemptCtx, md.ID, payload)
		if cancel != nil {
			cancel()
		}
		duration := time.Since(start)

		if err == nil {
			r.ledger.Record(md.ID)
			r.appendFlight(FlightEntry{
				Time:      r.now(),
				RequestID: requestID,
				Category:  category,
				Model:     md.ID,
				Tier:      tier,
				Outcome:   OutcomeSuccess,
			})
			r.logger.Info("request served",
				zap.String("request_id", requestID),
				zap.String("category", string(category)),
				zap.String("model", md.ID),
				zap.Int("tier", tier),
				zap.Duration("duration", duration),
			)
			return GenerationResult{
				Response: resp,
				Routing: RoutingInfo{
					RequestID: requestID,
					Category:  category,
					Model:     md.ID,
					Tier:      tier,
					Attempts:  len(attempts) + 1,
				},
			}, nil
		}

		if ctx.Err() != nil {
			// Caller cancellation aborts the walk; remaining tiers are
			// not attempted.
			r.appendFlight(FlightEntry{
				Time:      r.now(),
				RequestID: requestID,
				Category:  category,
				Model:     md.ID,
				Tier:      tier,
				Outcome:   OutcomeError,
				Err:       ctx.Err().Error(),
			})
			return GenerationResult{}, ctx.Err()
		}

		if IsQuotaExhausted(err) {
			// The call counted against the remote quota even though it
			// failed, so the ledger counts it too.
			r.ledger.Record(md.ID)
			r.appendFlight(FlightEntry{
				Time:      r.now(),
				RequestID: requestID,
				Category:  category,
				Model:     md.ID,
				Tier:      tier,
				Outcome:   OutcomeQuotaExhausted,
				Err:       err.Error(),
			})
			attempts = append(attempts, Attempt{
				Model:  md.ID,
				Tier:   tier,
				Reason: err.Error(),
			})
			r.logger.Warn("candidate quota exhausted, falling through",
				zap.String("request_id", requestID),
				zap.String("category", string(category)),
				zap.String("model", md.ID),
				zap.Int("tier", tier),
				zap.Duration("duration", duration),
			)
			continue
		}

		if r.attemptTimeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			// The per-attempt budget elapsed while the caller is still
			// waiting: treat the tier as unresponsive and fall through.
			r.ledger.Record(md.ID)
			r.appendFlight(FlightEntry{
				Time:      r.now(),
				RequestID: requestID,
				Category:  category,
				Model:     md.ID,
				Tier:      tier,
				Outcome:   OutcomeError,
				Err:       "attempt timed out",
			})
			attempts = append(attempts, Attempt{
				Model:  md.ID,
				Tier:   tier,
				Reason: "attempt timed out",
			})
			r.logger.Warn("candidate timed out, falling through",
				zap.String("request_id", requestID),
				zap.String("category", string(category)),
				zap.String("model", md.ID),
				zap.Int("tier", tier),
			)
			continue
		}

		// Non-quota failure: retrying a malformed request against a
		// different model wastes quota and cannot succeed.
		r.appendFlight(FlightEntry{
			Time:      r.now(),
			RequestID: requestID,
			Category:  category,
			Model:     md.ID,
			Tier:      tier,
			Outcome:   OutcomeError,
			Err:       err.Error(),
		})
		r.logger.Error("candidate failed",
			zap.String("request_id", requestID),
			zap.String("category", string(category)),
			zap.String("model", md.ID),
			zap.Int("tier", tier),
			zap.Error(err),
		)
		return GenerationResult{}, &RouteError{Err: err, Category: category, Model: md.ID, Tier: tier}
	}

	return GenerationResult{}, &AllTiersExhaustedError{Category: category, Attempts: attempts}
}

// CurrentTiers returns the tier table snapshot in use. In-flight requests
// that captured an earlier snapshot complete against it.
func (r *Router) CurrentTiers() *TierTable {
	return r.tiers.Load()
}

// ApplyDeprecation retires the deprecated model and promotes the
// replacement to the top tier, then atomically swaps the resulting table
// in. See ApplyDeprecation for the protocol rules.
func (r *Router) ApplyDeprecation(category TaskCategory, deprecatedID string, replacement ModelDescriptor) error {
	r.shiftMu.Lock()
	defer r.shiftMu.Unlock()

	next, err := ApplyDeprecation(r.tiers.Load(), category, deprecatedID, replacement)
	if err != nil {
		return err
	}
	r.tiers.Store(next)
	r.logger.Info("tier table shifted",
		zap.String("category", string(category)),
		zap.String("deprecated", deprecatedID),
		zap.String("replacement", replacement.ID),
	)
	return nil
}

// SwapTiers replaces the tier table wholesale, e.g. after a configuration
// reload. Readers observe either the old table or the new one, never a mix.
func (r *Router) SwapTiers(table *TierTable) {
	r.shiftMu.Lock()
	defer r.shiftMu.Unlock()
	r.tiers.Store(table)
}

func (r *Router) appendFlight(e FlightEntry) {
	if err := r.flight.Append(e); err != nil {
		r.logger.Warn("flight log append failed", zap.Error(err))
	}
}
