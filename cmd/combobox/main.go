// Command combobox picks options, table columns or table rows in the
// terminal and prints the resulting change event as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/combobox"
)

func main() {
	if err := newCLI().ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, combobox.ErrInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
