// Package app provides the orchestration layer for recgrid.
//
// # Overview
//
// This package wires together configuration, logging, the record source,
// the view store, polling and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load configuration from ~/.config/recgrid/config.toml
//  2. Route structured logs to the daily log file
//  3. Open the record source: the REST service when api_bind is set,
//     otherwise the local SQLite database (seeded on first run)
//  4. Open the view store that keeps per-page column layouts
//  5. Refresh once, then launch the background poller
//  6. Start the TUI and block until the user exits or the context ends
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read config.toml
//	       ├─────> logging.Init()     Daily JSON log file
//	       ├─────> OpenSource()       recordapi.Client or records.SQLite
//	       ├─────> viewstore.Open()   toml, sqlite or memory
//	       ├─────> StartPoller()      Background table refresh
//	       └─────> ui.Run()           Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> source.List() for every table      │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Database, API client or view store cannot be opened
//
// Recoverable errors (logged, polling continues with backoff):
//   - Table listing failures
//   - Network timeouts during polling
//
// Edits are not routed through the poller; the UI sends them to the source
// directly and the next poll picks up any server-side changes.
package app
