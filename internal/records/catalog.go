package records

import (
	"maps"

	"github.com/five82/recgrid/internal/grid"
)

// Field describes one column of a table.
type Field struct {
	Name     string
	Label    string
	Type     grid.ColumnType
	Width    int
	ReadOnly bool
	// Long fields are edited with the multi-line editor.
	Long bool
	// Ref names the table a foreign-key field points to.
	Ref     string
	Options []string
}

// Table describes one entity set.
type Table struct {
	Name       string
	Label      string
	LabelField string
	// NavKey is the letter that jumps to this table's page.
	NavKey string
	Fields []Field
}

// Field returns the field called name.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Writable reports whether name can be updated.
func (t Table) Writable(name string) bool {
	f, ok := t.Field(name)
	return ok && !f.ReadOnly && f.Name != grid.IDColumn
}

// Catalog lists the tables a source serves.
type Catalog struct {
	Tables []Table
}

// Table returns the table called name.
func (c Catalog) Table(name string) (Table, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Names returns table names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.Name
	}
	return names
}

// NavKeys maps navigation letters to table names.
func (c Catalog) NavKeys() map[string]string {
	out := map[string]string{}
	for _, t := range c.Tables {
		if t.NavKey != "" {
			out[t.NavKey] = t.Name
		}
	}
	return out
}

func idField() Field {
	return Field{Name: grid.IDColumn, Label: "ID", Type: grid.TypeNumber, Width: 60, ReadOnly: true}
}

// DefaultCatalog is the people/projects/tasks dataset.
func DefaultCatalog() Catalog {
	return Catalog{Tables: []Table{
		{
			Name: "people", Label: "People", LabelField: "name", NavKey: "p",
			Fields: []Field{
				idField(),
				{Name: "name", Label: "Name", Type: grid.TypeText, Width: 180},
				{Name: "email", Label: "Email", Type: grid.TypeText, Width: 220},
				{Name: "role", Label: "Role", Type: grid.TypeSelect, Width: 120, Options: []string{"engineer", "designer", "manager"}},
				{Name: "joined", Label: "Joined", Type: grid.TypeDate, Width: 110},
			},
		},
		{
			Name: "projects", Label: "Projects", LabelField: "name", NavKey: "j",
			Fields: []Field{
				idField(),
				{Name: "name", Label: "Name", Type: grid.TypeText, Width: 180},
				{Name: "owner_id", Label: "Owner", Type: grid.TypeForeignKey, Width: 160, Ref: "people"},
				{Name: "budget", Label: "Budget", Type: grid.TypeNumber, Width: 100},
				{Name: "due", Label: "Due", Type: grid.TypeDate, Width: 110},
				{Name: "status", Label: "Status", Type: grid.TypeSelect, Width: 100, Options: []string{"planned", "active", "done"}},
				{Name: "notes", Label: "Notes", Type: grid.TypeLongText, Width: 240, Long: true},
			},
		},
		{
			Name: "tasks", Label: "Tasks", LabelField: "title", NavKey: "t",
			Fields: []Field{
				idField(),
				{Name: "title", Label: "Title", Type: grid.TypeText, Width: 200},
				{Name: "project_id", Label: "Project", Type: grid.TypeForeignKey, Width: 160, Ref: "projects"},
				{Name: "assignee_id", Label: "Assignee", Type: grid.TypeForeignKey, Width: 160, Ref: "people"},
				{Name: "estimate", Label: "Estimate", Type: grid.TypeNumber, Width: 90},
				{Name: "due", Label: "Due", Type: grid.TypeDate, Width: 110},
				{Name: "done", Label: "Done", Type: grid.TypeBool, Width: 70},
				{Name: "description", Label: "Description", Type: grid.TypeLongText, Width: 260, Long: true},
			},
		},
	}}
}

// LabelIndex maps record ids to the table's label field.
func LabelIndex(t Table, rows []grid.Record) map[int64]string {
	out := make(map[int64]string, len(rows))
	for _, r := range rows {
		out[r.ID] = grid.FormatValue(r.Value(t.LabelField))
	}
	return out
}

// Columns converts a table's fields into grid column definitions. labels
// supplies id → label maps for referenced tables.
func Columns(t Table, labels map[string]map[int64]string) []grid.Column {
	cols := make([]grid.Column, 0, len(t.Fields))
	for _, f := range t.Fields {
		col := grid.Column{
			Key:      f.Name,
			Header:   f.Label,
			Type:     f.Type,
			Width:    f.Width,
			Locked:   f.Name == grid.IDColumn,
			ReadOnly: f.ReadOnly,
			Rich:     f.Long,
		}
		if f.Ref != "" {
			col.ForeignKey = &grid.ForeignKey{Entity: f.Ref, Labels: maps.Clone(labels[f.Ref])}
		}
		cols = append(cols, col)
	}
	return cols
}
