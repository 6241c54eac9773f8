package backend

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

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"socialdesk/internal/logging"
	"socialdesk/internal/metrics"
	"socialdesk/internal/model"
)

// Client defines the backend calls the console uses. Every method performs
// exactly one HTTP request; there is no retry and no caching.
type Client interface {
	Stats(ctx context.Context) (model.Stats, error)

	ListPosts(ctx context.Context) ([]model.Post, error)
	SchedulePost(ctx context.Context, req model.SchedulePostRequest) (model.ScheduleResult, error)
	UpdatePost(ctx context.Context, postID string, req model.UpdatePostRequest) (model.Post, error)
	CancelPost(ctx context.Context, postID, platform string) (string, error)

	ListPendingComments(ctx context.Context) ([]model.Comment, error)
	RespondToComment(ctx context.Context, commentID, text string) (string, error)

	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, eventID string) (model.Event, error)
	CreateEvent(ctx context.Context, req model.EventRequest) (model.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req model.EventRequest) (model.Event, error)
	DeleteEvent(ctx context.Context, eventID string) (string, error)

	ListAIResponses(ctx context.Context) ([]model.AIResponse, error)
	CreateAIResponse(ctx context.Context, req model.AIResponseRequest) (model.AIResponse, error)

	MonitorComments(ctx context.Context, req model.MonitorRequest) (model.MonitorResult, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RPS <= 0 disables the outbound limiter.
	RPS   float64
	Burst int
}

// HTTPClient is a JSON client for the scheduling backend.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	newID      func() string
}

func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newLimiter(opts.RPS, opts.Burst),
		newID:      uuid.NewString,
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, "stats", http.MethodGet, "/stats", nil, &out)
	return out, err
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	if err := c.do(ctx, "list_posts", http.MethodGet, "/scheduled-posts", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *HTTPClient) SchedulePost(ctx context.Context, req model.SchedulePostRequest) (model.ScheduleResult, error) {
	var out model.ScheduleResult
	err := c.do(ctx, "schedule_post", http.MethodPost, "/schedule-post", req, &out)
	return out, err
}

func (c *HTTPClient) UpdatePost(ctx context.Context, postID string, req model.UpdatePostRequest) (model.Post, error) {
	var out model.Post
	err := c.do(ctx, "update_post", http.MethodPut, "/scheduled-posts/"+url.PathEscape(postID), req, &out)
	return out, err
}

func (c *HTTPClient) CancelPost(ctx context.Context, postID, platform string) (string, error) {
	path := "/scheduled-posts/" + url.PathEscape(postID) + "?platform=" + url.QueryEscape(platform)
	var out model.MessageResponse
	err := c.do(ctx, "cancel_post", http.MethodDelete, path, nil, &out)
	return out.Message, err
}

func (c *HTTPClient) ListPendingComments(ctx context.Context) ([]model.Comment, error) {
	var out []model.Comment
	if err := c.do(ctx, "list_pending_comments", http.MethodGet, "/pending-comments", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *HTTPClient) RespondToComment(ctx context.Context, commentID, text string) (string, error) {
	var out model.MessageResponse
	err := c.do(ctx, "respond_comment", http.MethodPost, "/comments/"+url.PathEscape(commentID)+"/respond",
		model.RespondRequest{ResponseText: text}, &out)
	return out.Message, err
}

func (c *HTTPClient) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := c.do(ctx, "list_events", http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *HTTPClient) GetEvent(ctx context.Context, eventID string) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, "get_event", http.MethodGet, "/events/"+url.PathEscape(eventID), nil, &out)
	return out, err
}

func (c *HTTPClient) CreateEvent(ctx context.Context, req model.EventRequest) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, "create_event", http.MethodPost, "/events", req, &out)
	return out, err
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, eventID string, req model.EventRequest) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, "update_event", http.MethodPut, "/events/"+url.PathEscape(eventID), req, &out)
	return out, err
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, eventID string) (string, error) {
	var out model.MessageResponse
	err := c.do(ctx, "delete_event", http.MethodDelete, "/events/"+url.PathEscape(eventID), nil, &out)
	return out.Message, err
}

func (c *HTTPClient) ListAIResponses(ctx context.Context) ([]model.AIResponse, error) {
	var out []model.AIResponse
	if err := c.do(ctx, "list_ai_responses", http.MethodGet, "/ai-responses", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *HTTPClient) CreateAIResponse(ctx context.Context, req model.AIResponseRequest) (model.AIResponse, error) {
	var out model.AIResponse
	err := c.do(ctx, "create_ai_response", http.MethodPost, "/ai-responses", req, &out)
	return out, err
}

func (c *HTTPClient) MonitorComments(ctx context.Context, req model.MonitorRequest) (model.MonitorResult, error) {
	var out model.MonitorResult
	err := c.do(ctx, "monitor_comments", http.MethodPost, "/monitor/comments", req, &out)
	return out, err
}

// do performs one request. body (if non-nil) is sent as JSON; a 2xx response
// body is decoded into out. An empty 2xx body leaves out untouched.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	reqID := c.newID()
	defer func() {
		metrics.ObserveAPI(op, start, err)
		fields := map[string]any{"op": op, "method": method, "path": path, "request_id": reqID, "ms": time.Since(start).Milliseconds()}
		if err != nil {
			fields["error"] = err.Error()
			logging.Warn("api_call_failed", fields)
			return
		}
		logging.Debug("api_call", fields)
	}()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", fallbackMessage(op), err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", fallbackMessage(op), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &transportError{op: op, err: err}
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{op: op, err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{op: op, err: err}
	}
	if resp.StatusCode >= 400 {
		return newAPIError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode: %w", fallbackMessage(op), err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
