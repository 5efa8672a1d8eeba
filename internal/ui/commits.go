package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/recgrid/internal/grid"
)

// commitQueue keeps one commit in flight per table. Later commits for the
// table wait until the previous result arrives, so the source applies edits
// in the order they were finalized.
type commitQueue struct {
	inflight map[string]bool
	waiting  map[string][]queuedCommit
}

type queuedCommit struct {
	pageID string
	table  string
	commit grid.Commit
}

func newCommitQueue() *commitQueue {
	return &commitQueue{
		inflight: map[string]bool{},
		waiting:  map[string][]queuedCommit{},
	}
}

// push records qc and reports whether it may be sent now.
func (q *commitQueue) push(qc queuedCommit) bool {
	if q.inflight[qc.table] {
		q.waiting[qc.table] = append(q.waiting[qc.table], qc)
		return false
	}
	q.inflight[qc.table] = true
	return true
}

// done marks the table's in-flight commit resolved and hands out the next
// waiting one, which becomes in flight.
func (q *commitQueue) done(table string) (queuedCommit, bool) {
	waiting := q.waiting[table]
	if len(waiting) == 0 {
		delete(q.inflight, table)
		delete(q.waiting, table)
		return queuedCommit{}, false
	}
	next := waiting[0]
	q.waiting[table] = waiting[1:]
	return next, true
}

// queued returns the number of commits waiting behind the in-flight one.
func (q *commitQueue) queued(table string) int {
	return len(q.waiting[table])
}

// queueCommit hands c to the table's commit queue. The returned command is
// nil while an earlier commit for the table is still in flight.
func (m *Model) queueCommit(p *page, c grid.Commit) tea.Cmd {
	qc := queuedCommit{pageID: p.id, table: p.table.Name, commit: c}
	if !m.commits.push(qc) {
		return nil
	}
	return m.sendCommit(qc)
}

func (m Model) sendCommit(qc queuedCommit) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, CommitTimeout)
		defer cancel()
		rec, err := source.Update(ctx, qc.table, qc.commit.RowID, qc.commit.Fields)
		return commitResultMsg{pageID: qc.pageID, table: qc.table, commit: qc.commit, record: rec, err: err}
	}
}
