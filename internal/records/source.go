// Package records serves the tabular data shown in the grid.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/recgrid/internal/grid"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrUnknownField = errors.New("unknown field")
	ErrReadOnly     = errors.New("field is read-only")
	ErrNotFound     = errors.New("record not found")
)

// Source is the host data contract the UI drives.
type Source interface {
	Catalog() Catalog
	List(ctx context.Context, table string) ([]grid.Record, error)
	Update(ctx context.Context, table string, id int64, fields map[string]any) (grid.Record, error)
	CreateEmpty(ctx context.Context, table string) (grid.Record, error)
	Duplicate(ctx context.Context, table string, id int64) (grid.Record, error)
}

// ValidateUpdate checks that every field exists and is writable.
func ValidateUpdate(t Table, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("update %s: no fields", t.Name)
	}
	for name := range fields {
		if _, ok := t.Field(name); !ok {
			return fmt.Errorf("%s.%s: %w", t.Name, name, ErrUnknownField)
		}
		if !t.Writable(name) {
			return fmt.Errorf("%s.%s: %w", t.Name, name, ErrReadOnly)
		}
	}
	return nil
}

func lookupTable(c Catalog, name string) (Table, error) {
	t, ok := c.Table(name)
	if !ok {
		return Table{}, fmt.Errorf("%q: %w", name, ErrUnknownTable)
	}
	return t, nil
}
