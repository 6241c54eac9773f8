package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("transport failure")

// APIError is a non-success HTTP response. Its message is the body's
// "detail" field when present, otherwise a per-operation fallback.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallbackMessage(e.Op)
}

type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v", fallbackMessage(e.op), e.err)
}

func (e *transportError) Unwrap() []error { return []error{ErrTransport, e.err} }

func newAPIError(op string, status int, body []byte) *APIError {
	e := &APIError{Op: op, Status: status}
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		// FastAPI sends either a string or a list of validation problems.
		switch d := payload.Detail.(type) {
		case string:
			e.Detail = strings.TrimSpace(d)
		case []any:
			e.Detail = joinValidationDetail(d)
		}
	}
	return e
}

func joinValidationDetail(items []any) string {
	var parts []string
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if msg, ok := m["msg"].(string); ok && msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

var fallbacks = map[string]string{
	"stats":                 "Failed to load statistics",
	"list_posts":            "Failed to load scheduled posts",
	"schedule_post":         "Failed to schedule post",
	"update_post":           "Failed to edit post",
	"cancel_post":           "Failed to cancel post",
	"list_pending_comments": "Failed to load pending comments",
	"respond_comment":       "Failed to send response",
	"list_events":           "Failed to fetch events",
	"get_event":             "Failed to fetch event",
	"create_event":          "Failed to create event",
	"update_event":          "Failed to update event",
	"delete_event":          "Failed to delete event",
	"list_ai_responses":     "Failed to load AI responses",
	"create_ai_response":    "Failed to create AI response",
	"monitor_comments":      "Failed to run comment monitor",
}

func fallbackMessage(op string) string {
	if m, ok := fallbacks[op]; ok {
		return m
	}
	return "Request failed"
}

// StatusCode returns the HTTP status of err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
