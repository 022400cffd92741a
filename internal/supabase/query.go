package supabase

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
)

// Query builds a single table operation against the backend's structured
// query service: column projection, filters, ordering, and a row cap, then
// one of Get, Insert, Update, or Delete.
type Query struct {
	c      *Client
	table  string
	params url.Values
}

// From starts a query against a named collection.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select sets the column projection, e.g. "id, title, event_date".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", strings.ReplaceAll(columns, " ", ""))
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Gte filters rows where column is greater than or equal to value.
func (q *Query) Gte(column, value string) *Query {
	q.params.Add(column, "gte."+value)
	return q
}

// Order sorts by column, ascending or descending.
func (q *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	q.params.Set("order", column+"."+direction)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Get executes a select and decodes the rows into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	resp, err := q.do(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &RequestError{Method: http.MethodGet, Table: q.table, Err: fmt.Errorf("decode rows: %w", err)}
	}
	return nil
}

// Insert adds rows. rows may be a single value or a slice; the backend
// assigns ids, which are not read back here.
func (q *Query) Insert(ctx context.Context, rows any) error {
	resp, err := q.do(ctx, http.MethodPost, rows)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Update applies a partial or full row update to every row matching the
// query's filters.
func (q *Query) Update(ctx context.Context, fields any) error {
	resp, err := q.do(ctx, http.MethodPatch, fields)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Delete removes every row matching the query's filters. Matching zero rows
// is still a success; the backend does not distinguish the two.
func (q *Query) Delete(ctx context.Context) error {
	resp, err := q.do(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (q *Query) do(ctx context.Context, method string, payload any) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", q.c.baseURL, url.PathEscape(q.table))
	if len(q.params) > 0 {
		endpoint += "?" + q.params.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &RequestError{Method: method, Table: q.table, Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &RequestError{Method: method, Table: q.table, Err: err}
	}

	token, err := q.c.auth.bearerToken(ctx)
	if err != nil {
		return nil, &RequestError{Method: method, Table: q.table, Err: err}
	}
	req.Header.Set("apikey", q.c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := q.c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Method: method, Table: q.table, Err: err}
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		q.c.logger.Warn().Str("method", method).Str("table", q.table).Int("status", resp.StatusCode).Msg("table operation rejected")
		return nil, &RequestError{Method: method, Table: q.table, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	return resp, nil
}
