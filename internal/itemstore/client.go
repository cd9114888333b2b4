package itemstore

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

	"modq/internal/config"
	"modq/internal/review"
)

const userAgent = "modq/0.1.0"

// Client is the review API surface the reviewer components consume.
type Client interface {
	// ListPending returns pending items oldest-first starting at offset,
	// with the authoritative pending total.
	ListPending(ctx context.Context, limit, offset int) (PendingPage, error)
	// PendingTotal returns only the authoritative pending count.
	PendingTotal(ctx context.Context) (int, error)
	// GetItem returns the full content and risk annotation of one item.
	GetItem(ctx context.Context, id string) (*review.Item, error)
	// Decide resolves a pending item. Conflicts surface as
	// review.ErrAlreadyResolved, missing items as review.ErrNotFound.
	Decide(ctx context.Context, id string, outcome review.Outcome, reason string) (*review.Item, error)
}

// HTTPClient talks to a modqd instance over its HTTP API.
type HTTPClient struct {
	baseURL   string
	token     string
	decidedBy string
	client    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client from reviewer configuration.
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.Reviewer.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.Reviewer.ServerURL, "/"),
		token:     cfg.Reviewer.APIToken,
		decidedBy: cfg.Reviewer.Name,
		client:    &http.Client{Timeout: timeout},
	}
}

// ListPending implements Client.
func (c *HTTPClient) ListPending(ctx context.Context, limit, offset int) (PendingPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var page PendingPage
	if err := c.getJSON(ctx, "/api/review/pending?"+query.Encode(), &page); err != nil {
		return PendingPage{}, err
	}
	return page, nil
}

// PendingTotal implements Client.
func (c *HTTPClient) PendingTotal(ctx context.Context) (int, error) {
	var total TotalResponse
	if err := c.getJSON(ctx, "/api/review/total", &total); err != nil {
		return 0, err
	}
	return total.TotalCount, nil
}

// GetItem implements Client.
func (c *HTTPClient) GetItem(ctx context.Context, id string) (*review.Item, error) {
	var resp ItemResponse
	if err := c.getJSON(ctx, "/api/review/items/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return resp.Item.ToItem(), nil
}

// Decide implements Client.
func (c *HTTPClient) Decide(ctx context.Context, id string, outcome review.Outcome, reason string) (*review.Item, error) {
	reqBody := DecisionRequest{
		Outcome:   string(outcome),
		Reason:    reason,
		DecidedBy: c.decidedBy,
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode decision: %w", err)
	}

	path := "/api/review/items/" + url.PathEscape(id) + "/decision"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build decision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrUnavailable, err)
	}
	defer drain(resp)

	var decision DecisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, fmt.Errorf("%w: decode decision response: %v", review.ErrUnavailable, err)
	}
	if !decision.OK {
		return nil, fmt.Errorf("decide %s: %w", id, review.CodeError(decision.ErrorCode))
	}
	return decision.Item.ToItem(), nil
}

// Submit sends new content into the pending queue. Used by the CLI submit
// command, not by the reviewer window itself.
func (c *HTTPClient) Submit(ctx context.Context, sub SubmissionRequest) (*review.Item, error) {
	encoded, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/review/submissions", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", review.ErrUnavailable, err)
	}
	defer drain(resp)

	if err := statusError(resp); err != nil {
		return nil, err
	}
	var itemResp ItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&itemResp); err != nil {
		return nil, fmt.Errorf("%w: decode submission response: %v", review.ErrUnavailable, err)
	}
	return itemResp.Item.ToItem(), nil
}

// ClearResolved removes approved and rejected items older than the given
// number of days. Zero days removes all resolved items.
func (c *HTTPClient) ClearResolved(ctx context.Context, days int) (int, error) {
	path := fmt.Sprintf("/api/review/clear?days=%d", days)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build clear request: %w", err)
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", review.ErrUnavailable, err)
	}
	defer drain(resp)

	if err := statusError(resp); err != nil {
		return 0, err
	}
	var cleared ClearResponse
	if err := json.NewDecoder(resp.Body).Decode(&cleared); err != nil {
		return 0, fmt.Errorf("%w: decode clear response: %v", review.ErrUnavailable, err)
	}
	return cleared.Removed, nil
}

// Status returns the daemon status plus its database diagnostics.
func (c *HTTPClient) Status(ctx context.Context) (StatusResponse, error) {
	var status StatusResponse
	if err := c.getJSON(ctx, "/api/status", &status); err != nil {
		return StatusResponse{}, err
	}
	return status, nil
}

// TestNotification asks the daemon to send a test notification through
// its configured channel.
func (c *HTTPClient) TestNotification(ctx context.Context) (NotifyTestResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications/test", nil)
	if err != nil {
		return NotifyTestResponse{}, fmt.Errorf("build notification request: %w", err)
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return NotifyTestResponse{}, fmt.Errorf("%w: %v", review.ErrUnavailable, err)
	}
	defer drain(resp)

	if err := statusError(resp); err != nil {
		return NotifyTestResponse{}, err
	}
	var result NotifyTestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return NotifyTestResponse{}, fmt.Errorf("%w: decode notification response: %v", review.ErrUnavailable, err)
	}
	return result, nil
}

// Stats returns aggregate queue counts.
func (c *HTTPClient) Stats(ctx context.Context) (StatsResponse, error) {
	var stats StatsResponse
	if err := c.getJSON(ctx, "/api/review/stats", &stats); err != nil {
		return StatsResponse{}, err
	}
	return stats, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", review.ErrUnavailable, err)
	}
	defer drain(resp)

	if err := statusError(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode response: %v", review.ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) decorate(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return review.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return review.ErrAlreadyResolved
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: server returned %d: %s", review.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	default:
		return nil
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
