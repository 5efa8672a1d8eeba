package recordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/records"
)

// Ensure Client implements records.Source at compile time.
var _ records.Source = (*Client)(nil)

// Client talks to a REST record service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	catalog   records.Catalog
	newID     func() string
}

const (
	defaultAPIBind   = "127.0.0.1:7788"
	defaultUserAgent = "recgrid/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 4 << 10
)

// StatusError is returned for 4xx and 5xx responses.
type StatusError struct {
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// NewClient builds a Client for the service at apiBind (host:port or URL).
func NewClient(apiBind string, catalog records.Catalog) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		catalog:   catalog,
		newID:     uuid.NewString,
	}, nil
}

func (c *Client) Catalog() records.Catalog {
	return c.catalog
}

// List fetches every record of table.
func (c *Client) List(ctx context.Context, table string) ([]grid.Record, error) {
	if err := c.checkTable(table); err != nil {
		return nil, err
	}
	var payload ListResponse
	if err := c.do(ctx, http.MethodGet, tablePath(table), nil, &payload); err != nil {
		return nil, err
	}
	out := make([]grid.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		rec, err := item.Record()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Update sends a partial update and returns the stored record.
func (c *Client) Update(ctx context.Context, table string, id int64, fields map[string]any) (grid.Record, error) {
	if err := c.checkTable(table); err != nil {
		return grid.Record{}, err
	}
	if t, ok := c.catalog.Table(table); ok {
		if err := records.ValidateUpdate(t, fields); err != nil {
			return grid.Record{}, err
		}
	}
	return c.record(ctx, http.MethodPatch, recordPath(table, id), UpdateRequest{Fields: fields})
}

// CreateEmpty asks the service for a new blank record.
func (c *Client) CreateEmpty(ctx context.Context, table string) (grid.Record, error) {
	if err := c.checkTable(table); err != nil {
		return grid.Record{}, err
	}
	return c.record(ctx, http.MethodPost, tablePath(table), struct{}{})
}

// Duplicate asks the service to copy record id.
func (c *Client) Duplicate(ctx context.Context, table string, id int64) (grid.Record, error) {
	if err := c.checkTable(table); err != nil {
		return grid.Record{}, err
	}
	return c.record(ctx, http.MethodPost, recordPath(table, id)+"/duplicate", nil)
}

func (c *Client) checkTable(table string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if len(c.catalog.Tables) == 0 {
		return nil
	}
	if _, ok := c.catalog.Table(table); !ok {
		return fmt.Errorf("%q: %w", table, records.ErrUnknownTable)
	}
	return nil
}

func (c *Client) record(ctx context.Context, method, path string, body any) (grid.Record, error) {
	var payload RecordPayload
	if err := c.do(ctx, method, path, body, &payload); err != nil {
		return grid.Record{}, err
	}
	return payload.Record()
}

func tablePath(table string) string {
	return "/api/" + url.PathEscape(table)
}

func recordPath(table string, id int64) string {
	return tablePath(table) + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", c.newID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(path, resp)
	}
	if dest == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := decodePayload(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(path string, resp *http.Response) error {
	se := &StatusError{Path: path, Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload ErrorResponse
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		se.Message = payload.Error
	} else {
		se.Message = strings.TrimSpace(string(data))
	}
	return se
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
