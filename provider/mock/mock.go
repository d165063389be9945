// Package mock provides a scriptable Invoker for testing the router
// without a live upstream.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/jigyokei-ai/modelroute"
)

// Call records one invocation received by the mock.
type Call struct {
	ModelID string
	Payload any
}

// Invoker is a mock model-invocation collaborator.
type Invoker struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]any
	errs      map[string]error

	defaultResp any
	latency     time.Duration
	invokeFunc  func(ctx context.Context, modelID string, payload any) (any, error)
}

var _ modelroute.Invoker = (*Invoker)(nil)

// Option configures a mock Invoker.
type Option func(*Invoker)

// New creates a mock invoker. By default every call succeeds with the
// string "ok".
func New(opts ...Option) *Invoker {
	inv := &Invoker{
		responses:   make(map[string]any),
		errs:        make(map[string]error),
		defaultResp: "ok",
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// WithResponse sets the response for a specific model.
func WithResponse(modelID string, resp any) Option {
	return func(inv *Invoker) { inv.responses[modelID] = resp }
}

// WithError makes calls to a specific model fail with err.
func WithError(modelID string, err error) Option {
	return func(inv *Invoker) { inv.errs[modelID] = err }
}

// WithLatency adds simulated latency to each call.
func WithLatency(d time.Duration) Option {
	return func(inv *Invoker) { inv.latency = d }
}

// WithInvokeFunc replaces the scripted behavior with a custom function.
func WithInvokeFunc(fn func(ctx context.Context, modelID string, payload any) (any, error)) Option {
	return func(inv *Invoker) { inv.invokeFunc = fn }
}

func (inv *Invoker) Invoke(ctx context.Context, modelID string, payload any) (any, error) {
	if inv.latency > 0 {
		select {
		case <-time.After(inv.latency):
		case <-ctx.Done():
			inv.record(modelID, payload)
			return nil, ctx.Err()
		}
	}

	inv.record(modelID, payload)

	if inv.invokeFunc != nil {
		return inv.invokeFunc(ctx, modelID, payload)
	}

	inv.mu.Lock()
	err := inv.errs[modelID]
	resp, ok := inv.responses[modelID]
	inv.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		resp = inv.defaultResp
	}
	return resp, nil
}

// SetError changes the scripted error for a model after construction.
func (inv *Invoker) SetError(modelID string, err error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if err == nil {
		delete(inv.errs, modelID)
		return
	}
	inv.errs[modelID] = err
}

// Calls returns a copy of the invocations received so far, in order.
func (inv *Invoker) Calls() []Call {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]Call, len(inv.calls))
	copy(out, inv.calls)
	return out
}

// CallCount returns how many invocations targeted the given model.
func (inv *Invoker) CallCount(modelID string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	n := 0
	for _, c := range inv.calls {
		if c.ModelID == modelID {
			n++
		}
	}
	return n
}

func (inv *Invoker) record(modelID string, payload any) {
	inv.mu.Lock()
	inv.calls = append(inv.calls, Call{ModelID: modelID, Payload: payload})
	inv.mu.Unlock()
}
