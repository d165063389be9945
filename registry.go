package modelroute

import (
	"fmt"
	"time"
)

// ModelDescriptor describes a single upstream model. Descriptors are
// immutable once loaded; the router only ever reads them.
type ModelDescriptor struct {
	// ID is the globally unique upstream identifier, e.g. "gemini-2.5-flash".
	ID string `yaml:"id"`
	// Generation is the advertised generation label, e.g. "2.5".
	Generation string `yaml:"generation"`
	// RPM is the advertised requests-per-minute quota. Zero means
	// unknown/unlimited for local tracking purposes.
	RPM int `yaml:"rpm"`
	// RPD is the advertised requests-per-day quota. Zero means
	// unknown/unlimited for local tracking purposes.
	RPD int `yaml:"rpd"`
	// Capabilities lists the task categories this model may serve.
	Capabilities []TaskCategory `yaml:"capabilities"`
	// Deprecated is the upstream shutdown date, if one has been announced.
	Deprecated time.Time `yaml:"deprecated,omitempty"`
}

// Supports returns true if the descriptor lists the given capability.
func (d ModelDescriptor) Supports(c TaskCategory) bool {
	for _, cap := range d.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}

// Registry is the static catalogue of known model descriptors.
type Registry struct {
	models map[string]ModelDescriptor
}

// NewRegistry builds a registry from a list of descriptors.
func NewRegistry(descriptors []ModelDescriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("modelroute: registry: at least one model is required")
	}

	models := make(map[string]ModelDescriptor, len(descriptors))
	for i, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("modelroute: registry: model[%d]: id is required", i)
		}
		if _, ok := models[d.ID]; ok {
			return nil, fmt.Errorf("modelroute: registry: duplicate model id %q", d.ID)
		}
		if len(d.Capabilities) == 0 {
			return nil, fmt.Errorf("modelroute: registry: model %q: at least one capability is required", d.ID)
		}
		for _, c := range d.Capabilities {
			if !c.Valid() {
				return nil, fmt.Errorf("modelroute: registry: model %q: unknown capability %q", d.ID, c)
			}
		}
		if d.RPM < 0 || d.RPD < 0 {
			return nil, fmt.Errorf("modelroute: registry: model %q: quotas must not be negative", d.ID)
		}
		models[d.ID] = d
	}

	return &Registry{models: models}, nil
}

// Lookup returns the descriptor for the given model id.
func (r *Registry) Lookup(id string) (ModelDescriptor, bool) {
	d, ok := r.models[id]
	return d, ok
}

// Len returns the number of catalogued models.
func (r *Registry) Len() int { return len(r.models) }
