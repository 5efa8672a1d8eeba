// Package state shares the latest record data between the background poller
// and the UI.
//
// # Overview
//
// The poller lists every table of the record source and hands the result to
// Store.Update. The UI pulls a Snapshot on its own tick and passes each
// table's records to the matching grid, which re-derives its rows.
//
//	Poller:                        UI:
//	  source.List(table) ...         snap := store.Snapshot()
//	  store.Update(tables, err) ──>  grid.SetRecords(snap.Tables[name])
//
// # Update Semantics
//
// A successful update replaces the rows of the tables it names and keeps the
// others, clears LastError and bumps Revision. A failed update keeps all data,
// records the error and increments ConsecutiveFailures. Two or more failures
// in a row mark the snapshot offline.
//
// # Copying
//
// Update and Snapshot clone every record, so grids may mutate their local
// copies while commits are in flight without racing the poller.
//
// The zero Store is ready to use.
package state
