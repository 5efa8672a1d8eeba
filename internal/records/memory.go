package records

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/five82/recgrid/internal/grid"
)

// Memory is an in-process Source.
type Memory struct {
	catalog Catalog

	mu     sync.Mutex
	tables map[string][]grid.Record
	nextID map[string]int64
}

var _ Source = (*Memory)(nil)

// NewMemory returns an empty source for catalog.
func NewMemory(catalog Catalog) *Memory {
	return &Memory{
		catalog: catalog,
		tables:  map[string][]grid.Record{},
		nextID:  map[string]int64{},
	}
}

// Load replaces a table's contents.
func (m *Memory) Load(table string, rows []grid.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := make([]grid.Record, len(rows))
	var maxID int64
	for i, r := range rows {
		cloned[i] = r.Clone()
		maxID = max(maxID, r.ID)
	}
	m.tables[table] = cloned
	m.nextID[table] = maxID + 1
}

func (m *Memory) Catalog() Catalog {
	return m.catalog
}

func (m *Memory) List(_ context.Context, table string) ([]grid.Record, error) {
	if _, err := lookupTable(m.catalog, table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	out := make([]grid.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, table string, id int64, fields map[string]any) (grid.Record, error) {
	t, err := lookupTable(m.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	if err := ValidateUpdate(t, fields); err != nil {
		return grid.Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	i := slices.IndexFunc(rows, func(r grid.Record) bool { return r.ID == id })
	if i < 0 {
		return grid.Record{}, fmt.Errorf("%s/%d: %w", table, id, ErrNotFound)
	}
	if rows[i].Values == nil {
		rows[i].Values = map[string]any{}
	}
	maps.Copy(rows[i].Values, fields)
	return rows[i].Clone(), nil
}

func (m *Memory) CreateEmpty(_ context.Context, table string) (grid.Record, error) {
	if _, err := lookupTable(m.catalog, table); err != nil {
		return grid.Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := grid.Record{ID: m.allocID(table), Values: map[string]any{}}
	m.tables[table] = append(m.tables[table], rec)
	return rec.Clone(), nil
}

func (m *Memory) Duplicate(_ context.Context, table string, id int64) (grid.Record, error) {
	t, err := lookupTable(m.catalog, table)
	if err != nil {
		return grid.Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	i := slices.IndexFunc(rows, func(r grid.Record) bool { return r.ID == id })
	if i < 0 {
		return grid.Record{}, fmt.Errorf("%s/%d: %w", table, id, ErrNotFound)
	}
	rec := grid.Record{ID: m.allocID(table), Values: map[string]any{}}
	for _, f := range t.Fields {
		if t.Writable(f.Name) {
			rec.Values[f.Name] = rows[i].Values[f.Name]
		}
	}
	m.tables[table] = append(m.tables[table], rec)
	return rec.Clone(), nil
}

func (m *Memory) allocID(table string) int64 {
	id := max(m.nextID[table], 1)
	m.nextID[table] = id + 1
	return id
}
