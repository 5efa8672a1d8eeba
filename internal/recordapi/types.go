package recordapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/five82/recgrid/internal/grid"
)

// ListResponse mirrors GET /api/{table}.
type ListResponse struct {
	Items []RecordPayload `json:"items"`
}

// UpdateRequest is the PATCH /api/{table}/{id} body.
type UpdateRequest struct {
	Fields map[string]any `json:"fields"`
}

// RecordPayload is one record in transport form: the id plus its fields.
type RecordPayload map[string]any

// ErrorResponse is the body the service sends with 4xx and 5xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Record converts a payload to a grid record, normalizing JSON numbers to
// int64 when integral.
func (p RecordPayload) Record() (grid.Record, error) {
	rawID, ok := p[grid.IDColumn]
	if !ok {
		return grid.Record{}, fmt.Errorf("record without %q", grid.IDColumn)
	}
	id, ok := normalizeNumber(rawID).(int64)
	if !ok {
		return grid.Record{}, fmt.Errorf("record id %v is not an integer", rawID)
	}
	rec := grid.Record{ID: id, Values: make(map[string]any, len(p))}
	for k, v := range p {
		if k == grid.IDColumn {
			continue
		}
		rec.Values[k] = normalizeNumber(v)
	}
	return rec, nil
}

func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return normalizeNumber(f)
		}
		return n.String()
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	default:
		return v
	}
}

func decodePayload(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dest)
}
