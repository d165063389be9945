package modelroute

import "fmt"

// ApplyDeprecation retires a deprecated model and promotes a replacement
// to the top tier, producing a new TierTable value; the input table is
// never mutated.
//
// The protocol only ever retires the weakest tier: the deprecated model
// must occupy the last position of the named category's sequence — and of
// every other sequence that contains it, since the shift is applied to the
// whole table at once. Each affected sequence gets the replacement at
// position 0, every existing candidate shifted one position down, and the
// old last position dropped, so sequence lengths are unchanged.
func ApplyDeprecation(table *TierTable, category TaskCategory, deprecatedID string, replacement ModelDescriptor) (*TierTable, error) {
	if replacement.ID == "" {
		return nil, fmt.Errorf("modelroute: shift-up: replacement id is required")
	}
	if replacement.ID == deprecatedID {
		return nil, fmt.Errorf("modelroute: shift-up: replacement %q is the deprecated model", deprecatedID)
	}

	seq, ok := table.sequences[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no tier sequence", ErrUnknownCategory, category)
	}
	if indexOf(seq, deprecatedID) < 0 {
		return nil, &InvalidShiftTargetError{Category: category, Model: deprecatedID, Position: -1}
	}

	// Validate every affected sequence before building anything, so a
	// failure leaves the table untouched in all categories.
	for cat, s := range table.sequences {
		pos := indexOf(s, deprecatedID)
		if pos < 0 {
			continue
		}
		if pos != len(s)-1 {
			return nil, &InvalidShiftTargetError{Category: cat, Model: deprecatedID, Position: pos, Last: len(s) - 1}
		}
		if !replacement.Supports(cat) {
			return nil, fmt.Errorf("modelroute: shift-up: replacement %q does not support category %q", replacement.ID, cat)
		}
		if indexOf(s[:pos], replacement.ID) >= 0 {
			return nil, fmt.Errorf("modelroute: shift-up: replacement %q is already in category %q", replacement.ID, cat)
		}
	}

	sequences := make(map[TaskCategory][]ModelDescriptor, len(table.sequences))
	for cat, s := range table.sequences {
		if indexOf(s, deprecatedID) < 0 {
			sequences[cat] = s
			continue
		}
		shifted := make([]ModelDescriptor, 0, len(s))
		shifted = append(shifted, replacement)
		shifted = append(shifted, s[:len(s)-1]...)
		sequences[cat] = shifted
	}

	return &TierTable{sequences: sequences}, nil
}

func indexOf(seq []ModelDescriptor, id string) int {
	for i, d := range seq {
		if d.ID == id {
			return i
		}
	}
	return -1
}
