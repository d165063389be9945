package modelroute

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Provider adapters are responsible for mapping upstream
// failures into this closed taxonomy; the router never inspects provider
// error messages.
var (
	ErrQuotaExhausted  = errors.New("modelroute: quota exhausted")
	ErrAuthFailed      = errors.New("modelroute: authentication failed")
	ErrInvalidPayload  = errors.New("modelroute: invalid payload")
	ErrUnavailable     = errors.New("modelroute: upstream unavailable")
	ErrUnknownCategory = errors.New("modelroute: unknown task category")
)

// IsQuotaExhausted returns true if the error is a quota-exhaustion failure,
// the only kind the router falls through to the next tier on.
func IsQuotaExhausted(err error) bool {
	return errors.Is(err, ErrQuotaExhausted)
}

// Attempt records one candidate tried (or pre-emptively skipped) during a
// tier walk.
type Attempt struct {
	Model   string
	Tier    int
	Skipped bool
	Reason  string
}

// AllTiersExhaustedError is returned when every candidate for a category
// was quota-limited. Attempts lists the candidates in tier order with
// their individual failure reasons.
type AllTiersExhaustedError struct {
	Category TaskCategory
	Attempts []Attempt
}

func (e *AllTiersExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "modelroute: all tiers exhausted for category %q: ", e.Category)
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteString("; ")
		}
		if a.Skipped {
			fmt.Fprintf(&b, "%s (tier %d, skipped: %s)", a.Model, a.Tier, a.Reason)
		} else {
			fmt.Fprintf(&b, "%s (tier %d: %s)", a.Model, a.Tier, a.Reason)
		}
	}
	return b.String()
}

func (e *AllTiersExhaustedError) Unwrap() error { return ErrQuotaExhausted }

// RouteError wraps a non-quota failure with routing context. Non-quota
// failures are never retried across tiers.
type RouteError struct {
	Err      error
	Category TaskCategory
	Model    string
	Tier     int
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("modelroute: category=%s model=%s tier=%d: %v",
		e.Category, e.Model, e.Tier, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// InvalidShiftTargetError is returned when a shift-up targets a model that
// does not occupy the last position of a sequence containing it.
type InvalidShiftTargetError struct {
	Category TaskCategory
	Model    string
	Position int
	Last     int
}

func (e *InvalidShiftTargetError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("modelroute: invalid shift target: model %q is not in category %q", e.Model, e.Category)
	}
	return fmt.Sprintf("modelroute: invalid shift target: model %q occupies tier %d of category %q, not the last tier %d",
		e.Model, e.Position, e.Category, e.Last)
}
