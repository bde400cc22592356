// Package airtable implements repository.Table over the Airtable REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mission-control/internal/config"
	"mission-control/internal/errors"
	"mission-control/internal/repository"
)

const (
	defaultBaseURL   = "https://api.airtable.com"
	defaultRateLimit = 5.0
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 4096
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	BaseID     string
	TableName  string
	APIToken   string
	RateLimit  float64 // requests per second
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// OptionsFromConfig copies the table section of cfg.
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger) Options {
	return Options{
		BaseURL:   cfg.Table.BaseURL,
		BaseID:    cfg.Table.BaseID,
		TableName: cfg.Table.TableName,
		APIToken:  cfg.Table.APIToken,
		RateLimit: cfg.Table.RateLimit,
		Timeout:   cfg.Table.Timeout,
		Logger:    logger,
	}
}

// Client talks to one Airtable table. Requests are rate limited client-side
// and never retried.
type Client struct {
	endpoint   string
	apiToken   string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

var _ repository.Table = (*Client)(nil)

// New creates a client for opts.BaseID / opts.TableName.
func New(opts Options) (*Client, error) {
	if opts.BaseID == "" || opts.TableName == "" {
		return nil, errors.NewInvalidInputError("table", opts.TableName, "base id and table name are required")
	}
	if opts.APIToken == "" {
		return nil, errors.NewInvalidInputError("api_token", nil, "api token is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:   baseURL + "/v0/" + url.PathEscape(opts.BaseID) + "/" + url.PathEscape(opts.TableName),
		apiToken:   opts.APIToken,
		timeout:    timeout,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		logger:     logger.Named("airtable"),
	}, nil
}

type apiRecord struct {
	ID          string            `json:"id"`
	CreatedTime string            `json:"createdTime"`
	Fields      repository.Fields `json:"fields"`
}

type listResponse struct {
	Records []apiRecord `json:"records"`
	Offset  string      `json:"offset"`
}

type writeRequest struct {
	Fields   repository.Fields `json:"fields"`
	Typecast bool              `json:"typecast"`
}

// List fetches every page of the table.
func (c *Client) List(ctx context.Context) ([]repository.Record, error) {
	var records []repository.Record
	offset := ""
	for page := 1; ; page++ {
		target := c.endpoint
		if offset != "" {
			target += "?" + url.Values{"offset": {offset}}.Encode()
		}

		var resp listResponse
		if err := c.do(ctx, "list", http.MethodGet, target, nil, &resp); err != nil {
			return nil, err
		}
		for _, rec := range resp.Records {
			records = append(records, rec.toRecord())
		}

		c.logger.Debug("listed page", zap.Int("page", page), zap.Int("records", len(resp.Records)))
		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}
}

// Create posts a new record with typecast enabled.
func (c *Client) Create(ctx context.Context, fields repository.Fields) (repository.Record, error) {
	var rec apiRecord
	body := writeRequest{Fields: fields, Typecast: true}
	if err := c.do(ctx, "create", http.MethodPost, c.endpoint, body, &rec); err != nil {
		return repository.Record{}, err
	}
	return rec.toRecord(), nil
}

// Update patches the given fields of record id.
func (c *Client) Update(ctx context.Context, id string, fields repository.Fields) (repository.Record, error) {
	var rec apiRecord
	body := writeRequest{Fields: fields, Typecast: true}
	if err := c.do(ctx, "update", http.MethodPatch, c.recordURL(id), body, &rec); err != nil {
		return repository.Record{}, err
	}
	return rec.toRecord(), nil
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.recordURL(id), nil, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) recordURL(id string) string {
	return c.endpoint + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.FromContext(op, errors.NewStorageError(op, fmt.Errorf("rate limiter: %w", err)))
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.NewInvalidInputError("fields", nil, err.Error())
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.NewStorageError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.FromContext(op, errors.NewStorageError(op, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("table request",
		zap.String("op", op),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(op, target, resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.FromContext(op, errors.NewStorageError(op, fmt.Errorf("decode response: %w", err)))
	}
	return nil
}

// APIError is the error body Airtable returns. The error member is either an
// object with type and message or a bare type string.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable %d %s", e.Status, e.Type)
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Type: http.StatusText(status)}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	var bare string
	switch {
	case json.Unmarshal(envelope.Error, &detail) == nil:
		if detail.Type != "" {
			apiErr.Type = detail.Type
		}
		apiErr.Message = detail.Message
	case json.Unmarshal(envelope.Error, &bare) == nil:
		apiErr.Type = bare
	}
	return apiErr
}

func statusError(op, target string, status int, raw []byte) error {
	apiErr := parseAPIError(status, raw)
	if status == http.StatusNotFound {
		id := target[strings.LastIndex(target, "/")+1:]
		notFound := errors.NewNotFoundError("record", id)
		notFound.Cause = apiErr
		return notFound
	}
	return errors.NewStorageError(op, apiErr).
		WithContext("status", status).
		WithContext("airtable_type", apiErr.Type)
}

func (r apiRecord) toRecord() repository.Record {
	fields := r.Fields
	if fields == nil {
		fields = repository.Fields{}
	}
	created, _ := time.Parse(time.RFC3339, r.CreatedTime)
	return repository.Record{ID: r.ID, Fields: fields, CreatedTime: created}
}
