// Package recordapi is an HTTP client for a REST record service.
//
// # Endpoints
//
//	GET    /api/{table}                 {"items": [{"id": 1, ...}, ...]}
//	PATCH  /api/{table}/{id}            {"fields": {...}} → record
//	POST   /api/{table}                 {} → new blank record
//	POST   /api/{table}/{id}/duplicate  → copied record
//
// Records travel as flat JSON objects with an integer "id". Integral JSON
// numbers decode as int64 and other numbers as float64, matching what the
// SQLite source returns, so the grid sees the same value types regardless of
// where records come from.
//
// Every request carries a User-Agent and a fresh X-Request-Id. Error
// responses surface as *StatusError with the service's message when the
// body is {"error": "..."}.
//
// # Usage
//
//	client, err := recordapi.NewClient(cfg.APIBind, records.DefaultCatalog())
//	if err != nil {
//		return err
//	}
//	rows, err := client.List(ctx, "tasks")
package recordapi
