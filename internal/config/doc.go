// Package config loads recgrid's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/recgrid/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	database = "~/.local/share/recgrid/records.db"
//	api_bind = ""                 # set to read records over HTTP instead
//	view_store = "toml"           # toml | sqlite | memory
//	view_store_path = "~/.config/recgrid/views.toml"
//	log_dir = "~/.local/share/recgrid/logs"
//	export_dir = "~/recgrid-exports"
//	export_format = "csv"         # csv | yaml
//	save_debounce_ms = 500
//	poll_seconds = 5
//
//	[nav_keys]
//	p = "people"
//
// Every path field supports tilde expansion. Unknown view_store and
// export_format values are parse errors; a missing file is not.
package config
