package modelroute

import "context"

// Invoker is the outbound contract to the model-invocation collaborator.
// The payload and response are opaque to the router: it forwards the
// payload verbatim and only inspects the error kind. Adapters must map
// upstream failures into the sentinel error taxonomy (ErrQuotaExhausted,
// ErrAuthFailed, ErrInvalidPayload, ErrUnavailable).
type Invoker interface {
	Invoke(ctx context.Context, modelID string, payload any) (any, error)
}
