package main

import (
	"fmt"

	"github.com/nao1215/combobox"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPickCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick values from a list of options",
		Long: `Pick values from the options listed in a YAML, JSON or TOML file:

  options:
    - value: a
      label: Apple
    - value: b
      label: Banana
      sublabel: yellow`,
		Example: "  combobox pick --options fruits.yaml --multi",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings()
			if err != nil {
				return err
			}
			file, err := c.requireFlag("options")
			if err != nil {
				return err
			}
			options, err := readOptionsFile(file)
			if err != nil {
				return err
			}

			configOptions := append(c.comboboxOptions(s),
				combobox.WithOptions(options),
				combobox.WithDebounceDelay(combobox.ParseDebounceDelay(c.v.Get("debounce"))),
				combobox.WithIncludeValueInMatch(c.v.GetBool("match-value")),
				combobox.WithIncludeSublabelInMatch(c.v.GetBool("match-sublabel")),
				combobox.WithValues(c.stringList("value")...),
			)
			box := combobox.New(configOptions...)
			defer box.Close()

			if c.v.GetBool("fuzzy") {
				box.SetSearchHandler(combobox.NewFuzzySearchHandler(box, options))
			}
			box.OnAction(func(ev combobox.ActionEvent) {
				c.logger.Info("action selected", "value", ev.Value)
			})

			_, err = c.run(cmd.Context(), cmd, box, s)
			return err
		},
	}

	cmd.Flags().String("options", "", "File listing the options")
	cmd.Flags().Int("debounce", 0, "Delay in milliseconds between typing and filtering")
	cmd.Flags().Bool("fuzzy", false, "Rank options by fuzzy match instead of substring filtering")
	cmd.Flags().Bool("match-value", false, "Match the search text against option values")
	cmd.Flags().Bool("match-sublabel", false, "Match the search text against option sublabels")
	cmd.Flags().StringSlice("value", nil, "Preselected values")
	return cmd
}

// readOptionsFile reads the "options" list of a config file.
func readOptionsFile(path string) ([]combobox.Option, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	var options []combobox.Option
	if err := v.UnmarshalKey("options", &options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no options in %s", path)
	}
	return options, nil
}
