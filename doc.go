// Package combobox provides a searchable selector engine and a terminal
// front end for it.
//
// A Combobox holds a list of options, a search text and a selection. Typing
// filters the options by case-insensitive substring match on the label (and
// optionally on the value and sublabel); selected options are hidden from the
// list. Single-select and multi-select modes are supported, as are action
// rows that emit an ActionEvent instead of being selected.
//
// Key Features:
//
//   - Synchronous filtering after every mutation
//   - Debounced search with a pluggable Clock
//   - Custom search handlers, including fuzzy ranking via NewFuzzySearchHandler
//   - Asynchronous option providers with stale response suppression
//   - Required validation with a configurable message
//   - FieldSelector and RecordLookup variants for object metadata and records
//   - A terminal Session with themes and configurable key bindings
//
// Quick Start:
//
//	box := combobox.New(
//		combobox.WithLabel("Fruit"),
//		combobox.WithOptions([]combobox.Option{
//			{Value: "a", Label: "Apple"},
//			{Value: "b", Label: "Banana"},
//		}),
//	)
//	defer box.Close()
//
//	s, err := combobox.NewSession(box)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	values, err := s.Run()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(values)
//
// Headless Usage:
//
// The engine does not need a terminal. Hosts drive it with Focus, Input,
// SelectIndex, Unselect, Clear and Blur, and listen with OnChange:
//
//	box.OnChange(func(ev combobox.ChangeEvent) {
//		fmt.Println(ev.Value, ev.Values)
//	})
//	box.Focus(ctx)
//	box.Input(ctx, "an")
//	fmt.Println(box.VisibleIndices()) // [1]
//
// Key Bindings:
//
//   - Enter: Activate the highlighted option
//   - Tab: Finish; an invalid required combobox stays open
//   - Up/Down: Move the highlight
//   - Backspace: Delete the last character of the search text
//   - Ctrl+U: Clear the search text
//   - Ctrl+X: Unselect the last selected value
//   - Ctrl+L: Clear the selection
//   - Ctrl+C: Cancel and return ErrInterrupted
//   - Ctrl+D: EOF when the search text is empty
//
// Error Handling:
//
//   - combobox.ErrInterrupted: User pressed Ctrl+C
//   - combobox.ErrEOF: Input ended
//   - context.DeadlineExceeded / context.Canceled: from RunWithContext
//
// Provider failures are not returned; they are reported by ErrorMessage and
// leave the option list untouched.
//
// Thread Safety:
//
// Combobox methods are safe for concurrent use. Callbacks are invoked without
// internal locks held and may call back into the Combobox. A Session must be
// used from a single goroutine.
package combobox
