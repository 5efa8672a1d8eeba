package recordapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/recgrid/internal/records"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_RoundTripsRecords(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotRequestID, gotPatch string
	var gotMethods []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotMethods = append(gotMethods, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/tasks":
			_, _ = io.WriteString(w, `{"items":[{"id":1,"title":"Draft","estimate":5,"ratio":2.5,"done":false,"assignee_id":null}]}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/tasks/1":
			body, _ := io.ReadAll(r.Body)
			gotPatch = string(body)
			_, _ = io.WriteString(w, `{"id":1,"title":"Draft","estimate":8,"done":true}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/tasks":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 2, "title": ""})
		case r.Method == http.MethodPost && r.URL.Path == "/api/tasks/1/duplicate":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "title": "Draft"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, records.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	rows, err := c.List(ctx, "tasks")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("List rows = %#v, want 1 row id=1", rows)
	}
	if got, ok := rows[0].Values["estimate"].(int64); !ok || got != 5 {
		t.Fatalf("estimate = %#v, want int64(5)", rows[0].Values["estimate"])
	}
	if got, ok := rows[0].Values["ratio"].(float64); !ok || got != 2.5 {
		t.Fatalf("ratio = %#v, want 2.5", rows[0].Values["ratio"])
	}
	if rows[0].Values["assignee_id"] != nil {
		t.Fatalf("assignee_id = %#v, want nil", rows[0].Values["assignee_id"])
	}

	rec, err := c.Update(ctx, "tasks", 1, map[string]any{"estimate": int64(8), "done": true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Values["estimate"] != int64(8) || rec.Values["done"] != true {
		t.Fatalf("Update record = %#v", rec)
	}
	if gotPatch != `{"fields":{"done":true,"estimate":8}}` {
		t.Fatalf("PATCH body = %s", gotPatch)
	}

	created, err := c.CreateEmpty(ctx, "tasks")
	if err != nil || created.ID != 2 {
		t.Fatalf("CreateEmpty = %#v, %v; want id 2", created, err)
	}
	dup, err := c.Duplicate(ctx, "tasks", 1)
	if err != nil || dup.ID != 3 {
		t.Fatalf("Duplicate = %#v, %v; want id 3", dup, err)
	}

	if !strings.HasPrefix(gotUserAgent, "recgrid/") {
		t.Fatalf("User-Agent = %q, want recgrid/*", gotUserAgent)
	}
	if len(gotRequestID) != 36 {
		t.Fatalf("X-Request-Id = %q, want a uuid", gotRequestID)
	}
	if len(gotMethods) != 4 {
		t.Fatalf("requests = %v, want 4", gotMethods)
	}
}

func TestClient_RejectsBeforeSending(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", records.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.List(context.Background(), "nope"); !errors.Is(err, records.ErrUnknownTable) {
		t.Fatalf("List error = %v, want ErrUnknownTable", err)
	}
	_, err = c.Update(context.Background(), "tasks", 1, map[string]any{"id": int64(2)})
	if !errors.Is(err, records.ErrReadOnly) {
		t.Fatalf("Update error = %v, want ErrReadOnly", err)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/people":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/tasks/1":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"error":"stale row"}`)
		case "/api/projects":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, records.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.List(context.Background(), "people")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("List error = %v, want decode response error", err)
	}

	_, err = c.List(context.Background(), "projects")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("List error = %v, want status 500 error", err)
	}

	_, err = c.Update(context.Background(), "tasks", 1, map[string]any{"done": true})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusConflict || se.Message != "stale row" {
		t.Fatalf("Update error = %#v, want 409 stale row", err)
	}
}

func TestRecordPayload_RequiresIntegerID(t *testing.T) {
	if _, err := (RecordPayload{"title": "x"}).Record(); err == nil {
		t.Fatalf("Record without id returned nil error")
	}
	if _, err := (RecordPayload{"id": json.Number("1.5")}).Record(); err == nil {
		t.Fatalf("Record with fractional id returned nil error")
	}
}
