package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin/internal/adapters/http/perf"
	"schooladmin/internal/domain/roster"
)

// DefaultTimeout bounds each backend call when no client is supplied.
const DefaultTimeout = 10 * time.Second

// DefaultSlowUpstream is the threshold above which upstream calls log at WARN.
const DefaultSlowUpstream = 500 * time.Millisecond

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// RequestIDHeader carries a per-call id so backend logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// ListResult is a decoded list response.
type ListResult struct {
	Total   int
	Records []roster.Raw
}

// Client talks to one roster collection of the admin backend,
// e.g. http://127.0.0.1:8000/admin/courses.
type Client struct {
	base      string
	kind      roster.Kind
	http      *http.Client
	collector *perf.Collector
	slow      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCollector records every call in the perf collector.
func WithCollector(col *perf.Collector) Option {
	return func(c *Client) { c.collector = col }
}

// WithSlowThreshold sets when a call is logged as slow.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.slow = d
		}
	}
}

// New creates a Client for kind under baseURL.
// PRE: baseURL is an absolute http(s) URL; kind is valid
// POST: Returns a client addressing <baseURL>/admin/<kind>
func New(baseURL string, kind roster.Kind, opts ...Option) (*Client, error) {
	if !kind.Valid() {
		return nil, roster.ErrUnknownKind
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}
	c := &Client{
		base: u.String() + "/admin/" + kind.Plural(),
		kind: kind,
		http: &http.Client{Timeout: DefaultTimeout},
		slow: DefaultSlowUpstream,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Kind returns the collection this client addresses.
func (c *Client) Kind() roster.Kind { return c.kind }

// URL returns the collection URL.
func (c *Client) URL() string { return c.base }

// List fetches the whole collection.
// PRE: none
// POST: Accepts {"total": n, "<plural>": [...]} or a bare array. A missing
// collection key yields an empty list; a missing total falls back to the
// number of records.
func (c *Client) List(ctx context.Context) (ListResult, error) {
	body, err := c.do(ctx, OpList, http.MethodGet, c.base, nil)
	if err != nil {
		return ListResult{}, err
	}
	res, err := decodeList(body, c.kind)
	if err != nil {
		return ListResult{}, &FetchError{Op: OpList, Kind: c.kind, URL: c.base, Err: fmt.Errorf("%w: %v", ErrMalformedBody, err)}
	}
	return res, nil
}

// Update sends a partial update and returns the record the backend echoes.
// PRE: id non-empty; patch holds wire keys
// POST: Returns the full updated record; an empty body yields a nil Raw
func (c *Client) Update(ctx context.Context, id roster.ID, patch roster.Raw) (roster.Raw, error) {
	target := c.recordURL(id)
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, &FetchError{Op: OpUpdate, Kind: c.kind, URL: target, Err: err}
	}
	body, err := c.do(ctx, OpUpdate, http.MethodPatch, target, payload)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var rec roster.Raw
	if err := decodeJSON(body, &rec); err != nil {
		return nil, &FetchError{Op: OpUpdate, Kind: c.kind, URL: target, Err: fmt.Errorf("%w: %v", ErrMalformedBody, err)}
	}
	return rec, nil
}

// Remove deletes a record. The response body is ignored.
func (c *Client) Remove(ctx context.Context, id roster.ID) error {
	_, err := c.do(ctx, OpRemove, http.MethodDelete, c.recordURL(id), nil)
	return err
}

func (c *Client) recordURL(id roster.ID) string {
	return c.base + "/" + url.PathEscape(id.String())
}

// do runs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &FetchError{Op: op, Kind: c.kind, URL: target, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		c.collector.Observe(perf.KindUpstream, method+" "+c.kind.Plural(), status, start)
		attrs := []any{
			"request_id", reqID,
			"method", method,
			"url", target,
			"status", status,
			"duration_ms", float64(elapsed.Microseconds()) / 1000.0,
		}
		if elapsed >= c.slow {
			slog.Warn("slow_upstream", attrs...)
		} else {
			slog.Debug("upstream", attrs...)
		}
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Kind: c.kind, URL: target, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Op: op, Kind: c.kind, URL: target, StatusCode: status, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &FetchError{Op: op, Kind: c.kind, URL: target, StatusCode: status, Err: ErrUnexpectedStatus}
	}
	return body, nil
}

func decodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

func decodeList(body []byte, kind roster.Kind) (ListResult, error) {
	var doc any
	if err := decodeJSON(body, &doc); err != nil {
		return ListResult{}, err
	}
	switch v := doc.(type) {
	case []any:
		recs, err := toRaws(v)
		return ListResult{Total: len(recs), Records: recs}, err
	case map[string]any:
		var recs []roster.Raw
		if items, ok := v[kind.Plural()]; ok && items != nil {
			arr, ok := items.([]any)
			if !ok {
				return ListResult{}, fmt.Errorf("%q is not an array", kind.Plural())
			}
			var err error
			if recs, err = toRaws(arr); err != nil {
				return ListResult{}, err
			}
		}
		if recs == nil {
			recs = []roster.Raw{}
		}
		total := len(recs)
		if n, ok := v["total"].(json.Number); ok {
			if t, err := n.Int64(); err == nil {
				total = int(t)
			}
		}
		return ListResult{Total: total, Records: recs}, nil
	}
	return ListResult{}, fmt.Errorf("unexpected document type %T", doc)
}

func toRaws(items []any) ([]roster.Raw, error) {
	out := make([]roster.Raw, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d is %T, not an object", i, item)
		}
		out = append(out, roster.Raw(m))
	}
	return out, nil
}
