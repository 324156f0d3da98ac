package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alecap92/fcrm-automations/pkg/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Client talks to the automations backend. Requests carry a bearer token,
// and transport-level failures are retried up to three times with linear
// backoff. Non-2xx responses are never retried; they decode into *APIError.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	attempts   int
	backoff    time.Duration
}

// New creates a backend client for the given base URL and bearer token.
func New(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With("module", "client"),
		tracer:     noop.NewTracerProvider().Tracer("client"),
		attempts:   defaultAttempts,
		backoff:    defaultBackoff,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetTracer enables span creation around every request.
func (c *Client) SetTracer(tracer trace.Tracer) {
	c.tracer = tracer
}

// ListOptions filter and paginate the automation list.
type ListOptions struct {
	Status models.AutomationStatus
	Search string
	Page   int
	Limit  int
}

// AutomationList is one page of automations plus the total match count.
type AutomationList struct {
	Data  []models.Automation `json:"data"`
	Total int                 `json:"total"`
}

type automationEnvelope struct {
	Data models.Automation `json:"data"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type executeResponse struct {
	ExecutionID string `json:"executionId"`
}

type nodeTypesEnvelope struct {
	Data []models.NodeType `json:"data"`
}

type modulesEnvelope struct {
	Data []models.ModuleEvent `json:"data"`
}

// ListAutomations fetches a page of automations.
func (c *Client) ListAutomations(ctx context.Context, opts ListOptions) (*AutomationList, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}

	if opts.Search != "" {
		query.Set("search", opts.Search)
	}

	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var list AutomationList
	if err := c.do(ctx, http.MethodGet, "/automations", query, nil, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// GetAutomation fetches one automation by id.
func (c *Client) GetAutomation(ctx context.Context, id string) (*models.Automation, error) {
	var envelope automationEnvelope
	if err := c.do(ctx, http.MethodGet, "/automations/"+id, nil, nil, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// CreateAutomation persists a new automation; the backend assigns its id.
func (c *Client) CreateAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error) {
	var created models.Automation
	if err := c.do(ctx, http.MethodPost, "/automations", nil, automation, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateAutomation saves changes to an existing automation.
func (c *Client) UpdateAutomation(ctx context.Context, id string, automation *models.Automation) (*models.Automation, error) {
	var updated models.Automation
	if err := c.do(ctx, http.MethodPut, "/automations/"+id, nil, automation, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteAutomation removes an automation.
func (c *Client) DeleteAutomation(ctx context.Context, id string) error {
	var resp deleteResponse

	return c.do(ctx, http.MethodDelete, "/automations/"+id, nil, nil, &resp)
}

// ToggleAutomation flips an automation between active and inactive and
// returns the updated resource.
func (c *Client) ToggleAutomation(ctx context.Context, id string) (*models.Automation, error) {
	var toggled models.Automation
	if err := c.do(ctx, http.MethodPost, "/automations/"+id+"/toggle", nil, nil, &toggled); err != nil {
		return nil, err
	}

	return &toggled, nil
}

// ExecuteAutomation triggers a manual run and returns the execution id.
func (c *Client) ExecuteAutomation(ctx context.Context, id string, input map[string]any) (string, error) {
	if input == nil {
		input = map[string]any{}
	}

	var resp executeResponse
	if err := c.do(ctx, http.MethodPost, "/automations/"+id+"/execute", nil, input, &resp); err != nil {
		return "", err
	}

	return resp.ExecutionID, nil
}

// NodeTypes fetches the node palette catalog.
func (c *Client) NodeTypes(ctx context.Context) ([]models.NodeType, error) {
	var envelope nodeTypesEnvelope
	if err := c.do(ctx, http.MethodGet, "/automations/nodes/types", nil, nil, &envelope); err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

// Modules fetches the trigger module/event catalog.
func (c *Client) Modules(ctx context.Context) ([]models.ModuleEvent, error) {
	var envelope modulesEnvelope
	if err := c.do(ctx, http.MethodGet, "/automations/modules", nil, nil, &envelope); err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	))
	defer span.End()

	var payload []byte

	if body != nil {
		var err error

		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err

			c.logger.Warn("request failed, retrying",
				"method", method, "path", path, "attempt", attempt, "error", err)

			continue
		}

		err = c.decodeResponse(resp, out)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		return err
	}

	err := fmt.Errorf("request failed after %d attempts: %w", c.attempts, lastErr)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

func (c *Client) decodeResponse(resp *http.Response, out any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
