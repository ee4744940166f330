// Package sqlitesource serves combobox fields and records from SQLite tables.
//
// Tables play the role of objects: DescribeFields lists the columns of a
// table and Search matches rows with LIKE. The record identifier is the
// table's "id" column when it has one and the rowid otherwise.
package sqlitesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nao1215/combobox"

	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver
)

// ErrUnknownTable is returned for table names that do not exist.
var ErrUnknownTable = errors.New("unknown table")

// ErrUnknownColumn is returned for column names that a table does not have.
var ErrUnknownColumn = errors.New("unknown column")

// DefaultSearchLimit caps the number of rows a search returns.
const DefaultSearchLimit = 50

// Source reads fields and records from a SQLite database.
// It implements combobox.FieldDescriber and combobox.RecordSearcher.
type Source struct {
	db    *sql.DB
	owned bool
}

var (
	_ combobox.FieldDescriber = (*Source)(nil)
	_ combobox.RecordSearcher = (*Source)(nil)
)

// Open opens the database file at path read-only.
func Open(path string) (*Source, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Source{db: db, owned: true}, nil
}

// New wraps an open database. Close leaves db open.
func New(db *sql.DB) *Source {
	return &Source{db: db}
}

// Close closes the database if Open created it.
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Tables returns the names of the user tables, sorted.
func (s *Source) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

type column struct {
	name     string
	declType string
}

// columns returns the columns of table in declaration order.
func (s *Source) columns(ctx context.Context, table string) ([]column, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.name, &c.declType); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// DescribeFields returns one field per column of table.
func (s *Source) DescribeFields(ctx context.Context, table string) ([]combobox.Field, error) {
	cols, err := s.columns(ctx, table)
	if err != nil {
		return nil, err
	}
	fields := make([]combobox.Field, len(cols))
	for i, c := range cols {
		fields[i] = combobox.Field{
			APIName:  c.name,
			Label:    Label(c.name),
			DataType: DataType(c.declType),
		}
	}
	return fields, nil
}

// DataType maps a declared SQLite column type to a field data type, following
// the SQLite type affinity rules.
func DataType(declType string) string {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "BOOL"):
		return "Boolean"
	case strings.Contains(t, "DATETIME"), strings.Contains(t, "TIMESTAMP"):
		return "DateTime"
	case strings.Contains(t, "DATE"):
		return "Date"
	case strings.Contains(t, "INT"):
		return "Int"
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return "String"
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return "Double"
	case strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"):
		return "Currency"
	case t == "", strings.Contains(t, "BLOB"):
		return "Base64"
	default:
		return "String"
	}
}

// Label turns a column name such as "first_name" or "firstName" into
// "First Name".
func Label(name string) string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			word[0] = unicode.ToUpper(word[0])
			words = append(words, string(word))
			word = nil
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			word = append(word, r)
		default:
			word = append(word, r)
		}
	}
	flush()
	return strings.Join(words, " ")
}

// table is a validated view of a table used to build queries.
type table struct {
	name    string
	idExpr  string
	columns []string
}

func (s *Source) table(ctx context.Context, name string) (table, error) {
	cols, err := s.columns(ctx, name)
	if err != nil {
		return table{}, err
	}
	t := table{name: name, idExpr: "rowid"}
	for _, c := range cols {
		t.columns = append(t.columns, c.name)
		if strings.EqualFold(c.name, "id") {
			t.idExpr = quote(c.name)
		}
	}
	return t, nil
}

// resolve returns the actual column names of fields, matched ignoring case.
// An empty list selects every column.
func (t table) resolve(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return t.columns, nil
	}
	resolved := make([]string, 0, len(fields))
	for _, f := range fields {
		i := slices.IndexFunc(t.columns, func(c string) bool { return strings.EqualFold(c, f) })
		if i < 0 {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.name, f)
		}
		resolved = append(resolved, t.columns[i])
	}
	return resolved, nil
}

// selectList selects the identifier as Id followed by fields. Each field is
// returned under the name it was requested with.
func (t table) selectList(requested, resolved []string) string {
	parts := []string{"CAST(" + t.idExpr + " AS TEXT)"}
	for i, col := range resolved {
		if strings.EqualFold(col, combobox.RecordIDField) {
			continue
		}
		parts = append(parts, quote(col)+" AS "+quote(requestedName(requested, resolved, i)))
	}
	return strings.Join(parts, ", ")
}

func requestedName(requested, resolved []string, i int) string {
	if i < len(requested) {
		return requested[i]
	}
	return resolved[i]
}

// Search returns the rows of q.ObjectName where any searched field contains
// q.SearchTerm, ignoring case. WhereClause and OrderByClause are trusted SQL
// fragments appended as is.
func (s *Source) Search(ctx context.Context, q combobox.RecordQuery) ([]combobox.Record, error) {
	t, err := s.table(ctx, q.ObjectName)
	if err != nil {
		return nil, err
	}
	returned, err := t.resolve(q.FieldsToReturn)
	if err != nil {
		return nil, err
	}
	searched := returned
	if len(q.FieldsToSearch) > 0 {
		if searched, err = t.resolve(q.FieldsToSearch); err != nil {
			return nil, err
		}
	}

	var (
		conds []string
		args  []any
	)
	pattern := "%" + escapeLike(q.SearchTerm) + "%"
	for _, col := range searched {
		conds = append(conds, quote(col)+` LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", t.selectList(q.FieldsToReturn, returned), quote(t.name))
	where := []string{}
	if len(conds) > 0 {
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}
	if q.WhereClause != "" {
		where = append(where, "("+q.WhereClause+")")
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if q.OrderByClause != "" {
		b.WriteString(" ORDER BY " + q.OrderByClause)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	fmt.Fprintf(&b, " LIMIT %d", limit)

	return s.query(ctx, b.String(), q.FieldsToReturn, returned, args...)
}

// RecentlyViewed returns the limit most recently inserted rows of table.
func (s *Source) RecentlyViewed(ctx context.Context, tableName string, fieldsToReturn []string, limit int) ([]combobox.Record, error) {
	t, err := s.table(ctx, tableName)
	if err != nil {
		return nil, err
	}
	returned, err := t.resolve(fieldsToReturn)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid DESC LIMIT %d",
		t.selectList(fieldsToReturn, returned), quote(t.name), limit)
	return s.query(ctx, query, fieldsToReturn, returned)
}

// Records returns the rows of table with the given identifiers, in the order
// of ids. Identifiers without a row are skipped.
func (s *Source) Records(ctx context.Context, tableName string, ids []string, fieldsToReturn []string) ([]combobox.Record, error) {
	if len(ids) == 0 {
		return []combobox.Record{}, nil
	}
	t, err := s.table(ctx, tableName)
	if err != nil {
		return nil, err
	}
	returned, err := t.resolve(fieldsToReturn)
	if err != nil {
		return nil, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := fmt.Sprintf("SELECT %s FROM %s WHERE CAST(%s AS TEXT) IN (%s)",
		t.selectList(fieldsToReturn, returned), quote(t.name), t.idExpr, placeholders)
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	records, err := s.query(ctx, query, fieldsToReturn, returned, args...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]combobox.Record, len(records))
	for _, rec := range records {
		byID[rec[combobox.RecordIDField]] = rec
	}
	ordered := make([]combobox.Record, 0, len(records))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered, nil
}

func (s *Source) query(ctx context.Context, query string, requested, resolved []string, args ...any) ([]combobox.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	names := []string{combobox.RecordIDField}
	for i, col := range resolved {
		if !strings.EqualFold(col, combobox.RecordIDField) {
			names = append(names, requestedName(requested, resolved, i))
		}
	}

	records := []combobox.Record{}
	for rows.Next() {
		values := make([]sql.NullString, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec := make(combobox.Record, len(names))
		for i, name := range names {
			rec[name] = values[i].String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
