// Package sqlite reads person rows from a table in a SQLite database.
//
// Column names match the CSV header (id, person_name, sex, father_id,
// mother_id, marriage_N). Integer, real and NULL cells are converted to the
// string cells the record parser expects.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/source"
)

// DefaultTable is read when Config.Table is empty.
const DefaultTable = "persons"

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config locates a table.
type Config struct {
	Path  string
	Table string

	// OrderBy is the column rows are sorted by. Empty means rowid order.
	OrderBy string
}

// Source reads rows from a table.
type Source struct {
	db      *sql.DB
	owned   bool
	table   string
	orderBy string
}

// Open opens the database file read-only. Call Close when done.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	db, err := sql.Open("sqlite3", "file:"+cfg.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", cfg.Path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite open %s: %w", cfg.Path, err)
	}
	s, err := New(db, cfg.Table, cfg.OrderBy)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an open database. Close on the result leaves db open.
func New(db *sql.DB, table, orderBy string) (*Source, error) {
	if table == "" {
		table = DefaultTable
	}
	for _, name := range []string{table, orderBy} {
		if name != "" && !identifier.MatchString(name) {
			return nil, fmt.Errorf("sqlite: invalid identifier %q", name)
		}
	}
	return &Source{db: db, table: table, orderBy: orderBy}, nil
}

// Rows loads every row of the table.
func (s *Source) Rows(ctx context.Context) ([]family.Row, error) {
	q := builder.Select("*").From(s.table)
	if s.orderBy != "" {
		q = q.OrderBy(s.orderBy)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite build query: %w", err)
	}

	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query %s: %w", s.table, err)
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}

	var rows []family.Row
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite scan row %d: %w", len(rows)+1, err)
		}
		row := make(family.Row, len(cols))
		for i, col := range cols {
			row[col] = cellString(values[i])
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("sqlite read %s: %w", s.table, err)
	}
	return rows, nil
}

// Close closes the database if Open created it.
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// cellString converts a scanned value to a record cell. NULL becomes the
// empty string, which the parser treats as absent.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

var _ source.Source = (*Source)(nil)
