package main

import (
	"fmt"

	"github.com/nao1215/combobox"
	"github.com/nao1215/combobox/sqlitesource"
	"github.com/spf13/cobra"
)

func newFieldsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Short:   "Pick columns of a SQLite table",
		Example: "  combobox fields --db app.sqlite --object accounts --multi --preselect name,industry",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.settings()
			if err != nil {
				return err
			}
			dbPath, err := c.requireFlag("db")
			if err != nil {
				return err
			}
			object, err := c.requireFlag("object")
			if err != nil {
				return err
			}

			src, err := sqlitesource.Open(dbPath)
			if err != nil {
				return err
			}
			defer src.Close()

			fs := combobox.NewFieldSelector(src,
				combobox.WithHideIcons(c.v.GetBool("hide-icons")),
				combobox.WithPreselectedValues(c.v.GetString("preselect")),
				combobox.WithComboboxOptions(c.comboboxOptions(s)...),
			)
			defer fs.Close()

			<-fs.SetObjectName(cmd.Context(), object)
			if msg := fs.ErrorMessage(); msg != "" {
				return fmt.Errorf("failed to load fields: %s", msg)
			}

			_, err = c.run(cmd.Context(), cmd, fs.Combobox, s)
			return err
		},
	}

	cmd.Flags().String("db", "", "SQLite database file")
	cmd.Flags().String("object", "", "Table whose columns are listed")
	cmd.Flags().String("preselect", "", "Comma separated column names selected initially")
	cmd.Flags().Bool("hide-icons", false, "Hide data type icons")
	return cmd
}
