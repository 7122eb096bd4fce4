// Package remote is a small client for the hosted backend's REST tables
// (PostgREST dialect).
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Filter is a PostgREST horizontal filter, e.g. user_id=eq.42.
type Filter struct {
	Column   string
	Operator string
	Value    string
}

func Eq(column, value string) Filter {
	return Filter{Column: column, Operator: "eq", Value: value}
}

// Query selects rows from a table.
type Query struct {
	Columns string
	Filters []Filter
	Order   string
	Desc    bool
	Limit   int
}

func (q Query) values() url.Values {
	v := filterValues(q.Filters)
	cols := q.Columns
	if cols == "" {
		cols = "*"
	}
	v.Set("select", cols)
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		v.Set("order", q.Order+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Limit))
	}
	return v
}

func filterValues(filters []Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		v.Add(f.Column, f.Operator+"."+f.Value)
	}
	return v
}

type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient builds a client for the project at baseURL. accessToken is the
// signed-in user's JWT; when empty the API key is used as bearer token.
func NewClient(baseURL, apiKey, accessToken string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if accessToken == "" {
		accessToken = apiKey
	}
	return &Client{
		apiKey:      apiKey,
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Select decodes the matching rows into out, which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	data, err := c.doRequest(ctx, http.MethodGet, table, q.values(), nil)
	if err != nil {
		return fmt.Errorf("selecting from %s: %w", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s rows: %w", table, err)
	}
	return nil
}

// Insert creates row and decodes the stored representation into out, which
// must be a pointer to a slice.
func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	data, err := c.doRequest(ctx, http.MethodPost, table, nil, row)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing inserted %s row: %w", table, err)
	}
	return nil
}

// Update patches every row matching filters and decodes the updated rows into out.
func (c *Client) Update(ctx context.Context, table string, filters []Filter, patch any, out any) error {
	if len(filters) == 0 {
		return fmt.Errorf("updating %s: refusing unfiltered update", table)
	}
	data, err := c.doRequest(ctx, http.MethodPatch, table, filterValues(filters), patch)
	if err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing updated %s rows: %w", table, err)
	}
	return nil
}

// Delete removes every row matching filters.
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("deleting from %s: refusing unfiltered delete", table)
	}
	if _, err := c.doRequest(ctx, http.MethodDelete, table, filterValues(filters), nil); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

// doRequest makes a single attempt; failed calls are not retried.
func (c *Client) doRequest(ctx context.Context, method, table string, query url.Values, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	path := "/rest/v1/" + url.PathEscape(table)
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	c.logger.Debug("backend API request", "method", method, "path", path, "query", query.Encode())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend API transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("backend API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("backend API request failed", "method", method, "path", path, "status", resp.StatusCode, "response", truncate(string(respBody), 200))
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(body))}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
