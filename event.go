package combobox

import "sync"

// ChangeEvent is emitted after every committed selection change.
//
// Both the singular and plural forms are always populated, whatever the
// cardinality of the combobox. Value is empty and SelectedOption nil when
// nothing is selected. SelectedOptions only holds values that still resolve
// to an option in the current list.
type ChangeEvent struct {
	InstanceID      string   `json:"instanceId"`
	Name            string   `json:"name,omitempty"`
	Value           string   `json:"value"`
	Values          []string `json:"values"`
	SelectedOption  *Option  `json:"selectedOption"`
	SelectedOptions []Option `json:"selectedOptions"`
}

// ActionEvent is emitted when an action row is activated.
type ActionEvent struct {
	InstanceID string `json:"instanceId"`
	Name       string `json:"name,omitempty"`
	Value      string `json:"value"`
}

// newChangeEvent packages the current selection state.
func newChangeEvent(id, name string, selection *SelectionSet, store *OptionStore) ChangeEvent {
	ev := ChangeEvent{
		InstanceID:      id,
		Name:            name,
		Values:          selection.Values(),
		SelectedOptions: selection.ResolveOptions(store),
	}
	if v, ok := selection.PrimaryValue(); ok {
		ev.Value = v
	}
	if len(ev.SelectedOptions) > 0 {
		first := ev.SelectedOptions[0]
		ev.SelectedOption = &first
	}
	return ev
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// subscribers is an ordered registry of callbacks.
type subscribers[T any] struct {
	list []subscriber[T]
}

func (s *subscribers[T]) add(id int, fn func(T)) {
	s.list = append(s.list, subscriber[T]{id: id, fn: fn})
}

func (s *subscribers[T]) remove(id int) {
	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *subscribers[T]) snapshot() []func(T) {
	fns := make([]func(T), len(s.list))
	for i, sub := range s.list {
		fns[i] = sub.fn
	}
	return fns
}

// ChangeNotifier delivers change, action and update notifications to the
// registered callbacks, synchronously and in registration order.
// It is safe for concurrent use.
type ChangeNotifier struct {
	mu      sync.Mutex
	nextID  int
	changes subscribers[ChangeEvent]
	actions subscribers[ActionEvent]
	updates subscribers[Snapshot]
}

// NewChangeNotifier creates an empty notifier.
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{}
}

// OnChange registers fn for change events and returns a function that
// unregisters it.
func (n *ChangeNotifier) OnChange(fn func(ChangeEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.register()
	n.changes.add(id, fn)
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.changes.remove(id)
	}
}

// OnAction registers fn for action events.
func (n *ChangeNotifier) OnAction(fn func(ActionEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.register()
	n.actions.add(id, fn)
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.actions.remove(id)
	}
}

// OnUpdate registers fn for state snapshots taken after every mutation.
func (n *ChangeNotifier) OnUpdate(fn func(Snapshot)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.register()
	n.updates.add(id, fn)
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.updates.remove(id)
	}
}

func (n *ChangeNotifier) register() int {
	n.nextID++
	return n.nextID
}

func (n *ChangeNotifier) emitChange(ev ChangeEvent) {
	n.mu.Lock()
	fns := n.changes.snapshot()
	n.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (n *ChangeNotifier) emitAction(ev ActionEvent) {
	n.mu.Lock()
	fns := n.actions.snapshot()
	n.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (n *ChangeNotifier) emitUpdate(s Snapshot) {
	n.mu.Lock()
	fns := n.updates.snapshot()
	n.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
