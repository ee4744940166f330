package combobox

// BlankMarker is the single space a presentation layer may write into the
// search input of a valid required combobox so the required indicator stays
// visible without the input being reported as empty. Focus clears it again.
const BlankMarker = " "

// Validity is the outcome of a validity check.
type Validity struct {
	Valid   bool
	Message string
}

// ValidationGate derives the valid/invalid state of a combobox from its
// required flag and current selection. Failures are state, not errors.
type ValidationGate struct {
	state Validity
}

// NewValidationGate returns a gate in the valid state.
func NewValidationGate() *ValidationGate {
	return &ValidationGate{state: Validity{Valid: true}}
}

// Evaluate updates and returns the gate state.
//
// A combobox that is not required is always valid. A required combobox is
// invalid with missingMessage while nothing is selected.
func (g *ValidationGate) Evaluate(required bool, selection *SelectionSet, missingMessage string) Validity {
	switch {
	case !required:
		g.state = Validity{Valid: true}
	case selection == nil || selection.Len() == 0:
		g.state = Validity{Valid: false, Message: missingMessage}
	default:
		g.state = Validity{Valid: true}
	}
	return g.state
}

// State returns the result of the last evaluation.
func (g *ValidationGate) State() Validity {
	return g.state
}
