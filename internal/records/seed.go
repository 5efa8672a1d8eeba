package records

import (
	"context"
	"fmt"
	"strings"
)

type seedRow struct {
	table  string
	values map[string]any
}

var seedRows = []seedRow{
	{"people", map[string]any{"name": "Ada Whitfield", "email": "ada@example.com", "role": "engineer", "joined": "2021-04-12"}},
	{"people", map[string]any{"name": "Émile Laurent", "email": "emile@example.com", "role": "designer", "joined": "2022-09-01"}},
	{"people", map[string]any{"name": "Bruno Okafor", "email": "bruno@example.com", "role": "manager", "joined": "2019-01-15"}},
	{"people", map[string]any{"name": "chloe Park", "email": "chloe@example.com", "role": "engineer", "joined": "2023-06-30"}},
	{"people", map[string]any{"name": "Zoë Lindqvist", "email": "zoe@example.com", "role": "engineer", "joined": nil}},

	{"projects", map[string]any{"name": "Billing rewrite", "owner_id": int64(3), "budget": int64(120000), "due": "2025-03-31", "status": "active", "notes": "Move invoices off the legacy cron.\nKeep the CSV export."}},
	{"projects", map[string]any{"name": "Design system", "owner_id": int64(2), "budget": int64(45000), "due": "2024-12-15", "status": "planned", "notes": ""}},
	{"projects", map[string]any{"name": "Atlas migration", "owner_id": int64(1), "budget": 80500.5, "due": nil, "status": "done", "notes": "Finished ahead of schedule."}},

	{"tasks", map[string]any{"title": "Draft invoice schema", "project_id": int64(1), "assignee_id": int64(1), "estimate": int64(5), "due": "2025-01-10", "done": false, "description": "Columns, indexes and the retention policy."}},
	{"tasks", map[string]any{"title": "Color tokens", "project_id": int64(2), "assignee_id": int64(2), "estimate": 2.5, "due": "2024-11-01", "done": true, "description": ""}},
	{"tasks", map[string]any{"title": "Backfill ledger", "project_id": int64(1), "assignee_id": int64(4), "estimate": int64(8), "due": nil, "done": false, "description": "Run in batches of 10k."}},
	{"tasks", map[string]any{"title": "Cut over DNS", "project_id": int64(3), "assignee_id": nil, "estimate": nil, "due": "2024-08-20", "done": true, "description": ""}},
	{"tasks", map[string]any{"title": "Typography review", "project_id": int64(2), "assignee_id": int64(5), "estimate": int64(3), "due": "2024-11-20", "done": false, "description": "Check diacritics in every weight."}},
}

// Seed fills an empty database with demo rows. It reports how many rows it
// inserted; a database that already has people is left alone.
func Seed(ctx context.Context, s *SQLite) (int, error) {
	n, err := s.Count(ctx, "people")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, row := range seedRows {
		t, err := lookupTable(s.catalog, row.table)
		if err != nil {
			return 0, err
		}
		var names, marks []string
		var args []any
		for _, f := range t.Fields {
			v, ok := row.values[f.Name]
			if !ok {
				continue
			}
			names = append(names, f.Name)
			marks = append(marks, "?")
			args = append(args, toColumn(f, v))
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(names, ", "), strings.Join(marks, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("seed %s: %w", t.Name, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return inserted, nil
}
