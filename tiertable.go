package modelroute

import "fmt"

// TierTable maps each task category to its ordered fallback sequence.
// Position 0 is attempted first. A table is an immutable value: the
// shift-up protocol builds a new table rather than mutating one in place,
// so concurrent readers always observe a consistent snapshot.
type TierTable struct {
	sequences map[TaskCategory][]ModelDescriptor
}

// NewTierTable resolves per-category model id sequences against the
// registry and validates the tier ordering invariants: every id is
// catalogued, appears at most once per sequence, is capable of serving
// its category, and every category has at least one candidate.
func NewTierTable(reg *Registry, tiers map[TaskCategory][]string) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("modelroute: tiers: at least one category is required")
	}

	sequences := make(map[TaskCategory][]ModelDescriptor, len(tiers))
	for cat, ids := range tiers {
		if !cat.Valid() {
			return nil, fmt.Errorf("modelroute: tiers: unknown category %q", cat)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("modelroute: tiers: category %q: at least one model is required", cat)
		}

		seen := make(map[string]bool, len(ids))
		seq := make([]ModelDescriptor, 0, len(ids))
		for _, id := range ids {
			d, ok := reg.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("modelroute: tiers: category %q: model %q is not in the registry", cat, id)
			}
			if seen[id] {
				return nil, fmt.Errorf("modelroute: tiers: category %q: duplicate model %q", cat, id)
			}
			if !d.Supports(cat) {
				return nil, fmt.Errorf("modelroute: tiers: category %q: model %q does not support it", cat, id)
			}
			seen[id] = true
			seq = append(seq, d)
		}
		sequences[cat] = seq
	}

	return &TierTable{sequences: sequences}, nil
}

// Sequence returns the ordered candidate sequence for a category.
// The returned slice is shared and must not be modified.
func (t *TierTable) Sequence(cat TaskCategory) ([]ModelDescriptor, bool) {
	seq, ok := t.sequences[cat]
	return seq, ok
}

// Categories lists the categories this table supports, in the stable
// order defined by Categories().
func (t *TierTable) Categories() []TaskCategory {
	var cats []TaskCategory
	for _, c := range Categories() {
		if _, ok := t.sequences[c]; ok {
			cats = append(cats, c)
		}
	}
	return cats
}
