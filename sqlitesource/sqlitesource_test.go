package sqlitesource

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nao1215/combobox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
CREATE TABLE accounts (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	industry VARCHAR(40),
	annual_revenue DECIMAL(12, 2),
	active BOOLEAN,
	createdAt DATETIME,
	logo
);
INSERT INTO accounts (id, name, industry, annual_revenue, active) VALUES
	(1, 'Acme', 'Manufacturing', 1000.5, 1),
	(2, 'Globex', 'Energy', 250, 0),
	(3, 'Initech', NULL, 10, 1),
	(4, '100% Pure_Water', 'Beverages', 5, 1);
CREATE TABLE notes (body TEXT);
INSERT INTO notes (body) VALUES ('first'), ('second');
`

func newTestSource(t *testing.T) *Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(fixture)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func ids(records []combobox.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec[combobox.RecordIDField]
	}
	return out
}

func TestTables(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	tables, err := src.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "notes"}, tables)
}

func TestDescribeFields(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	fields, err := src.DescribeFields(context.Background(), "accounts")
	require.NoError(t, err)
	assert.Equal(t, []combobox.Field{
		{APIName: "id", Label: "Id", DataType: "Int"},
		{APIName: "name", Label: "Name", DataType: "String"},
		{APIName: "industry", Label: "Industry", DataType: "String"},
		{APIName: "annual_revenue", Label: "Annual Revenue", DataType: "Currency"},
		{APIName: "active", Label: "Active", DataType: "Boolean"},
		{APIName: "createdAt", Label: "Created At", DataType: "DateTime"},
		{APIName: "logo", Label: "Logo", DataType: "Base64"},
	}, fields)

	_, err = src.DescribeFields(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestDataType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"BOOLEAN":       "Boolean",
		"timestamp":     "DateTime",
		"DATE":          "Date",
		"BIGINT":        "Int",
		"NVARCHAR(10)":  "String",
		"CLOB":          "String",
		"REAL":          "Double",
		"DOUBLE":        "Double",
		"NUMERIC(5, 2)": "Currency",
		"":              "Base64",
		"BLOB":          "Base64",
		"JSON":          "String",
	}
	for declType, want := range tests {
		assert.Equal(t, want, DataType(declType), declType)
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"first_name": "First Name",
		"firstName":  "First Name",
		"name":       "Name",
		"zip-code":   "Zip Code",
		"ID":         "ID",
		"":           "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Label(name), name)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query combobox.RecordQuery
		want  []combobox.Record
	}{
		{
			name: "case insensitive match on returned fields",
			query: combobox.RecordQuery{
				ObjectName:     "accounts",
				SearchTerm:     "ACM",
				FieldsToReturn: []string{"Name", "Industry"},
			},
			want: []combobox.Record{{"Id": "1", "Name": "Acme", "Industry": "Manufacturing"}},
		},
		{
			name: "search fields differ from returned fields",
			query: combobox.RecordQuery{
				ObjectName:     "accounts",
				SearchTerm:     "energy",
				FieldsToSearch: []string{"industry"},
				FieldsToReturn: []string{"name"},
			},
			want: []combobox.Record{{"Id": "2", "name": "Globex"}},
		},
		{
			name: "null values become empty strings",
			query: combobox.RecordQuery{
				ObjectName:     "accounts",
				SearchTerm:     "init",
				FieldsToReturn: []string{"name", "industry"},
			},
			want: []combobox.Record{{"Id": "3", "name": "Initech", "industry": ""}},
		},
		{
			name: "wildcards are escaped",
			query: combobox.RecordQuery{
				ObjectName:     "accounts",
				SearchTerm:     "0% Pure_",
				FieldsToReturn: []string{"name"},
			},
			want: []combobox.Record{{"Id": "4", "name": "100% Pure_Water"}},
		},
		{
			name: "where, order by and limit",
			query: combobox.RecordQuery{
				ObjectName:     "accounts",
				SearchTerm:     "",
				FieldsToReturn: []string{"name"},
				WhereClause:    "active = 1",
				OrderByClause:  "name DESC",
				Limit:          2,
			},
			want: []combobox.Record{
				{"Id": "3", "name": "Initech"},
				{"Id": "1", "name": "Acme"},
			},
		},
		{
			name: "rowid identifies tables without id",
			query: combobox.RecordQuery{
				ObjectName: "notes",
				SearchTerm: "sec",
			},
			want: []combobox.Record{{"Id": "2", "body": "second"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := src.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	ctx := context.Background()

	_, err := src.Search(ctx, combobox.RecordQuery{ObjectName: "accounts; DROP TABLE accounts"})
	assert.ErrorIs(t, err, ErrUnknownTable)

	_, err = src.Search(ctx, combobox.RecordQuery{ObjectName: "accounts", FieldsToReturn: []string{"owner"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = src.Search(ctx, combobox.RecordQuery{ObjectName: "accounts", FieldsToSearch: []string{"owner"}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	got, err := src.Search(ctx, combobox.RecordQuery{ObjectName: "accounts", SearchTerm: "nothing like this"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentlyViewed(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	got, err := src.RecentlyViewed(context.Background(), "accounts", []string{"name"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3"}, ids(got))
	assert.Equal(t, "100% Pure_Water", got[0]["name"])
}

func TestRecords(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	ctx := context.Background()

	got, err := src.Records(ctx, "accounts", []string{"3", "99", "1"}, []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, []combobox.Record{
		{"Id": "3", "name": "Initech"},
		{"Id": "1", "name": "Acme"},
	}, got)

	got, err = src.Records(ctx, "accounts", nil, []string{"name"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSourceWithFieldSelector(t *testing.T) {
	t.Parallel()

	src := newTestSource(t)
	fs := combobox.NewFieldSelector(src, combobox.WithPreselectedValues("name"))
	defer fs.Close()

	<-fs.SetObjectName(context.Background(), "accounts")
	require.Empty(t, fs.ErrorMessage())
	assert.Equal(t, []string{"name"}, fs.SelectedFieldNames())
	assert.Len(t, fs.Options(), 7)
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestNewLeavesDatabaseOpen(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "shared.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(fixture)
	require.NoError(t, err)

	src := New(db)
	require.NoError(t, src.Close())
	assert.NoError(t, db.Ping())
}
