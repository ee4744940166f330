// Package main demonstrates basic usage of the combobox library.
package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/nao1215/combobox"
)

func main() {
	box := combobox.New(
		combobox.WithLabel("Fruit"),
		combobox.WithOptions([]combobox.Option{
			{Value: "apple", Label: "Apple"},
			{Value: "banana", Label: "Banana"},
			{Value: "cherry", Label: "Cherry"},
			{Value: "grape", Label: "Grape"},
			{Value: "mango", Label: "Mango"},
		}),
		combobox.WithRequired(true),
	)
	defer box.Close()

	s, err := combobox.NewSession(box)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	fmt.Println("Type to filter, Enter to pick, Ctrl+C to quit")

	values, err := s.Run()
	if err != nil {
		if errors.Is(err, combobox.ErrInterrupted) || errors.Is(err, combobox.ErrEOF) {
			fmt.Println("Goodbye!")
			return
		}
		log.Fatal(err)
	}
	fmt.Printf("You picked: %v\n", values)
}
