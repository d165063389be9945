package modelroute

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// deprecationWarnHorizon is how far ahead of a model's announced shutdown
// date the router starts warning that a shift-up is due.
const deprecationWarnHorizon = 90 * 24 * time.Hour

// deprecationWarner emits one warning per model whose shutdown date is
// near or past, so operators notice a pending shift-up without the log
// being flooded on every request.
type deprecationWarner struct {
	mu     sync.Mutex
	warned map[string]bool
}

func newDeprecationWarner() *deprecationWarner {
	return &deprecationWarner{warned: make(map[string]bool)}
}

func (w *deprecationWarner) check(md ModelDescriptor, now time.Time, logger *zap.Logger) {
	if md.Deprecated.IsZero() || now.Before(md.Deprecated.Add(-deprecationWarnHorizon)) {
		return
	}

	w.mu.Lock()
	already := w.warned[md.ID]
	w.warned[md.ID] = true
	w.mu.Unlock()

	if already {
		return
	}

	logger.Warn("model scheduled for shutdown, consider shifting up",
		zap.String("model", md.ID),
		zap.Time("shutdown", md.Deprecated),
	)
}
