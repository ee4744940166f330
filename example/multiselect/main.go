// Package main demonstrates multi-select with fuzzy ranking and an action row.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/nao1215/combobox"
)

func main() {
	options := []combobox.Option{
		{Value: "go", Label: "Go", Sublabel: "compiled"},
		{Value: "rust", Label: "Rust", Sublabel: "compiled"},
		{Value: "python", Label: "Python", Sublabel: "interpreted"},
		{Value: "ruby", Label: "Ruby", Sublabel: "interpreted"},
		{Value: "typescript", Label: "TypeScript", Sublabel: "transpiled"},
		{Value: "new", Label: "Add a language", IsAction: true},
	}

	box := combobox.New(
		combobox.WithLabel("Languages"),
		combobox.WithOptions(options),
		combobox.WithMultiselect(true),
		combobox.WithDebounceDelay(100*time.Millisecond),
	)
	defer box.Close()
	box.SetSearchHandler(combobox.NewFuzzySearchHandler(box, options))

	added := false
	box.OnAction(func(combobox.ActionEvent) {
		if added {
			return
		}
		added = true
		options = append([]combobox.Option{{Value: "zig", Label: "Zig", Sublabel: "compiled"}}, options...)
		box.SetOptions(options)
		box.SetSearchHandler(combobox.NewFuzzySearchHandler(box, options))
	})
	box.OnChange(func(ev combobox.ChangeEvent) {
		log.Printf("selection: %v", ev.Values)
	})

	s, err := combobox.NewSession(box, combobox.WithColorScheme(combobox.ThemeDracula))
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	fmt.Println("Enter adds a language, Ctrl+X removes the last one, Tab finishes")
	values, err := s.Run()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Languages: %v\n", values)
}
