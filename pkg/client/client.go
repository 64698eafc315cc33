package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// Client is the Niyog API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ApplicationPage is one page of applications. After is empty on the last
// page.
type ApplicationPage struct {
	Results []domain.Application
	After   string
}

// ClassifyResult is the evaluator output for a posted timeline.
type ClassifyResult struct {
	pipeline.State
	Stages []pipeline.StageView `json:"stages"`
}

// ListApplications fetches a page of applications, optionally filtered by
// status.
func (c *Client) ListApplications(ctx context.Context, status string, limit int, after string) (*ApplicationPage, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if after != "" {
		params.Set("after", after)
	}

	var resp struct {
		Results []domain.Application `json:"results"`
		Paging  *struct {
			Next *struct {
				After string `json:"after"`
			} `json:"next"`
		} `json:"paging"`
	}
	if err := c.get(ctx, "/api/v1/applications?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("client.ListApplications: %w", err)
	}

	page := &ApplicationPage{Results: resp.Results}
	if resp.Paging != nil && resp.Paging.Next != nil {
		page.After = resp.Paging.Next.After
	}
	return page, nil
}

// GetApplication fetches a single application by ID.
func (c *Client) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	if err := c.get(ctx, "/api/v1/applications/"+url.PathEscape(id), &app); err != nil {
		return nil, fmt.Errorf("client.GetApplication: %w", err)
	}
	return &app, nil
}

// AdvanceApplication completes the next stage of an application.
func (c *Client) AdvanceApplication(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	if err := c.post(ctx, "/api/v1/applications/"+url.PathEscape(id)+"/advance", nil, &app); err != nil {
		return nil, fmt.Errorf("client.AdvanceApplication: %w", err)
	}
	return &app, nil
}

// Classify evaluates a timeline without storing it.
func (c *Client) Classify(ctx context.Context, timeline []pipeline.TimelineEntry, status pipeline.Status) (*ClassifyResult, error) {
	body := struct {
		Timeline []pipeline.TimelineEntry `json:"timeline"`
		Status   pipeline.Status          `json:"status"`
	}{Timeline: timeline, Status: status}

	var out ClassifyResult
	if err := c.post(ctx, "/api/v1/pipeline/classify", body, &out); err != nil {
		return nil, fmt.Errorf("client.Classify: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message       string `json:"message"`
			Category      string `json:"category"`
			CorrelationID string `json:"correlationId"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return &HTTPError{
				StatusCode:    resp.StatusCode,
				Category:      apiErr.Category,
				Message:       apiErr.Message,
				CorrelationID: apiErr.CorrelationID,
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
