// Package main demonstrates RecordLookup against an in-memory record store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/nao1215/combobox"
)

type account struct {
	id, name, industry, city string
}

var accounts = []account{
	{"001", "Acme", "Manufacturing", "Springfield"},
	{"002", "Globex", "Energy", "Cypress Creek"},
	{"003", "Initech", "Software", "Austin"},
	{"004", "Umbrella", "Pharma", "Raccoon City"},
	{"005", "Hooli", "Software", "Palo Alto"},
	{"006", "Stark Industries", "Defense", "New York"},
}

// memorySearcher implements combobox.RecordSearcher over accounts.
type memorySearcher struct{}

func (memorySearcher) record(a account, fields []string) combobox.Record {
	all := map[string]string{"Name": a.name, "Industry": a.industry, "City": a.city}
	rec := combobox.Record{combobox.RecordIDField: a.id}
	for _, f := range fields {
		rec[f] = all[f]
	}
	return rec
}

func (s memorySearcher) Search(_ context.Context, q combobox.RecordQuery) ([]combobox.Record, error) {
	term := strings.ToLower(q.SearchTerm)
	var records []combobox.Record
	for _, a := range accounts {
		rec := s.record(a, q.FieldsToReturn)
		for _, f := range q.FieldsToSearch {
			if strings.Contains(strings.ToLower(rec[f]), term) {
				records = append(records, rec)
				break
			}
		}
	}
	return records, nil
}

func (s memorySearcher) RecentlyViewed(_ context.Context, _ string, fields []string, limit int) ([]combobox.Record, error) {
	var records []combobox.Record
	for i := 0; i < limit && i < len(accounts); i++ {
		records = append(records, s.record(accounts[i], fields))
	}
	return records, nil
}

func main() {
	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: charmlog.WarnLevel})

	lookup := combobox.NewRecordLookup(memorySearcher{}, combobox.LookupConfig{
		ObjectName:      "Account",
		FieldsToDisplay: []string{"Name", "Industry", "City"},
		IconName:        "standard:account",
		RecentCount:     3,
	}, combobox.WithLogger(logger))
	defer lookup.Close()

	ctx := context.Background()
	<-lookup.Start(ctx)

	s, err := combobox.NewSession(lookup.Combobox)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	if _, err := s.RunWithContext(ctx); err != nil {
		log.Fatal(err)
	}
	if opt, ok := lookup.SelectedOption(); ok {
		fmt.Printf("Picked %s (%s)\n", opt.Label, opt.Value)
	}
}
