package combobox

// DropdownState is the presentation state of the option list.
type DropdownState int

const (
	// Closed is the initial state.
	Closed DropdownState = iota
	// Open means the option list is shown.
	Open
)

func (s DropdownState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// DropdownVisibility tracks whether the option list is open.
// Focus opens it and blur closes it; nothing else changes the state.
type DropdownVisibility struct {
	state DropdownState
}

// FocusIn opens the list.
func (d *DropdownVisibility) FocusIn() {
	d.state = Open
}

// FocusOut closes the list.
func (d *DropdownVisibility) FocusOut() {
	d.state = Closed
}

// State returns the current state.
func (d *DropdownVisibility) State() DropdownState {
	return d.state
}

// IsOpen reports whether the list is open.
func (d *DropdownVisibility) IsOpen() bool {
	return d.state == Open
}
