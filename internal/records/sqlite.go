package records

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/recgrid/internal/grid"
)

//go:embed schema.sql
var schemaSQL string

// SQLite serves records from a SQLite database. Table and column names come
// from the catalog only, never from callers.
type SQLite struct {
	db      *sql.DB
	catalog Catalog
}

var _ Source = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db, catalog: DefaultCatalog()}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Catalog() Catalog {
	return s.catalog
}

func (s *SQLite) List(ctx context.Context, table string) ([]grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", columnList(t), t.Name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}
	defer rows.Close()

	var out []grid.Record
	for rows.Next() {
		rec, err := scanRecord(t, rows)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t.Name, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one record.
func (s *SQLite) Get(ctx context.Context, table string, id int64) (grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	return s.get(ctx, t, id)
}

func (s *SQLite) get(ctx context.Context, t Table, id int64) (grid.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columnList(t), t.Name)
	rec, err := scanRecord(t, s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return grid.Record{}, fmt.Errorf("%s/%d: %w", t.Name, id, ErrNotFound)
	}
	if err != nil {
		return grid.Record{}, fmt.Errorf("get %s/%d: %w", t.Name, id, err)
	}
	return rec, nil
}

func (s *SQLite) Update(ctx context.Context, table string, id int64, fields map[string]any) (grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	if err := ValidateUpdate(t, fields); err != nil {
		return grid.Record{}, err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		f, _ := t.Field(name)
		sets[i] = name + " = ?"
		args = append(args, toColumn(f, fields[name]))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.Name, strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return grid.Record{}, fmt.Errorf("update %s/%d: %w", t.Name, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grid.Record{}, fmt.Errorf("%s/%d: %w", t.Name, id, ErrNotFound)
	}
	return s.get(ctx, t, id)
}

func (s *SQLite) CreateEmpty(ctx context.Context, table string) (grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", t.Name))
	if err != nil {
		return grid.Record{}, fmt.Errorf("create %s: %w", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return grid.Record{}, fmt.Errorf("create %s: %w", t.Name, err)
	}
	return s.get(ctx, t, id)
}

func (s *SQLite) Duplicate(ctx context.Context, table string, id int64) (grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	src, err := s.get(ctx, t, id)
	if err != nil {
		return grid.Record{}, err
	}
	return s.insert(ctx, t, src.Values)
}

// Insert adds a record with the given field values.
func (s *SQLite) Insert(ctx context.Context, table string, values map[string]any) (grid.Record, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	return s.insert(ctx, t, values)
}

func (s *SQLite) insert(ctx context.Context, t Table, values map[string]any) (grid.Record, error) {
	var names, marks []string
	var args []any
	for _, f := range t.Fields {
		if !t.Writable(f.Name) {
			continue
		}
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		names = append(names, f.Name)
		marks = append(marks, "?")
		args = append(args, toColumn(f, v))
	}
	query := fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", t.Name)
	if len(names) > 0 {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), strings.Join(marks, ", "))
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return grid.Record{}, fmt.Errorf("insert %s: %w", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return grid.Record{}, fmt.Errorf("insert %s: %w", t.Name, err)
	}
	return s.get(ctx, t, id)
}

// Count returns the number of rows in table.
func (s *SQLite) Count(ctx context.Context, table string) (int, error) {
	t, err := lookupTable(s.catalog, table)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+t.Name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.Name, err)
	}
	return n, nil
}

func columnList(t Table) string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(t Table, row scanner) (grid.Record, error) {
	raw := make([]any, len(t.Fields))
	ptrs := make([]any, len(t.Fields))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		return grid.Record{}, err
	}
	rec := grid.Record{Values: make(map[string]any, len(t.Fields)-1)}
	for i, f := range t.Fields {
		v := fromColumn(f, raw[i])
		if f.Name == grid.IDColumn {
			id, _ := v.(int64)
			rec.ID = id
			continue
		}
		rec.Values[f.Name] = v
	}
	return rec, nil
}

// fromColumn normalizes driver values: text as string, integral numbers as
// int64 and booleans as bool.
func fromColumn(f Field, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch f.Type {
	case grid.TypeBool:
		switch n := v.(type) {
		case int64:
			return n != 0
		case bool:
			return n
		}
	case grid.TypeNumber, grid.TypeForeignKey:
		if fl, ok := v.(float64); ok && fl == math.Trunc(fl) && math.Abs(fl) < 1<<53 {
			return int64(fl)
		}
	}
	return v
}

func toColumn(f Field, v any) any {
	if f.Type == grid.TypeBool {
		if b, ok := v.(bool); ok {
			if b {
				return int64(1)
			}
			return int64(0)
		}
	}
	return v
}
