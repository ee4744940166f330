package main

import (
	"context"
	"fmt"

	"github.com/nao1215/combobox"
	"github.com/nao1215/combobox/sqlitesource"
	"github.com/spf13/cobra"
)

func newLookupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lookup",
		Short:   "Search and pick rows of a SQLite table",
		Example: "  combobox lookup --db app.sqlite --object accounts --display name,city --icon standard:account",
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

			recentFile := c.v.GetString("recent-file")
			if recentFile == "" {
				recentFile = combobox.GetDefaultRecentFile()
			}
			recent := combobox.NewRecentManager(&combobox.RecentConfig{
				Enabled: !c.v.GetBool("no-recent"),
				File:    recentFile,
			})
			if err := recent.Load(); err != nil {
				c.logger.Warn("failed to load recent selections", "err", err)
			}

			options := c.comboboxOptions(s)
			if c.v.IsSet("debounce") {
				options = append(options, combobox.WithDebounceDelay(combobox.ParseDebounceDelay(c.v.Get("debounce"))))
			}
			lookup := combobox.NewRecordLookup(&recentSearcher{Source: src, recent: recent},
				combobox.LookupConfig{
					ObjectName:      object,
					FieldsToDisplay: c.stringList("display"),
					FieldsToSearch:  c.stringList("search"),
					IconName:        c.v.GetString("icon"),
					WhereClause:     c.v.GetString("where"),
					OrderByClause:   c.v.GetString("order-by"),
					RecentCount:     c.v.GetInt("recent-count"),
				},
				options...,
			)
			defer lookup.Close()

			<-lookup.Start(cmd.Context())
			if msg := lookup.ErrorMessage(); msg != "" {
				return fmt.Errorf("failed to load records: %s", msg)
			}

			ev, err := c.run(cmd.Context(), cmd, lookup.Combobox, s)
			if err != nil {
				return err
			}
			for _, opt := range ev.SelectedOptions {
				recent.Add(object, opt)
			}
			if err := recent.Save(); err != nil {
				c.logger.Warn("failed to save recent selections", "err", err)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "SQLite database file")
	cmd.Flags().String("object", "", "Table whose rows are searched")
	cmd.Flags().StringSlice("display", nil, "Columns shown: the first is the label, the rest the sublabel")
	cmd.Flags().StringSlice("search", nil, "Columns searched (default: the displayed columns)")
	cmd.Flags().String("icon", "", "Icon name shown next to every row")
	cmd.Flags().String("where", "", "Extra SQL condition applied to searches")
	cmd.Flags().String("order-by", "", "SQL ordering applied to searches")
	cmd.Flags().Int("recent-count", combobox.DefaultRecentlyViewedCount, "Number of recently viewed rows listed before typing")
	cmd.Flags().Int("debounce", int(combobox.DefaultLookupDebounceDelay.Milliseconds()), "Delay in milliseconds between typing and searching")
	cmd.Flags().String("recent-file", "", "File remembering picked rows (default: ~/.config/combobox/recent)")
	cmd.Flags().Bool("no-recent", false, "Do not remember picked rows")
	return cmd
}

// recentSearcher lists the rows picked in earlier runs as recently viewed,
// and falls back to the newest rows of the table when there are none.
type recentSearcher struct {
	*sqlitesource.Source
	recent *combobox.RecentManager
}

func (r *recentSearcher) RecentlyViewed(ctx context.Context, table string, fields []string, limit int) ([]combobox.Record, error) {
	var ids []string
	for _, opt := range r.recent.Recent(table, limit) {
		ids = append(ids, opt.Value)
	}
	if len(ids) > 0 {
		records, err := r.Source.Records(ctx, table, ids, fields)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return r.Source.RecentlyViewed(ctx, table, fields, limit)
}
