package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialdesk/internal/model"
)

// helper to create a client against a fake backend router
func newTestClient(t *testing.T, r *mux.Router) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	c := NewHTTPClient(Options{BaseURL: ts.URL + "/", Token: "tok"})
	c.httpClient = ts.Client()
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListPostsDecodesAndSendsHeaders(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/scheduled-posts", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"post_id": "p1", "platform": "devto", "scheduled_time": "2025-03-14 08:30:00 IST+0530", "content_preview": "hello", "campaign_tag": "launch", "status": "Scheduled"},
		})
	}).Methods(http.MethodGet)
	c := newTestClient(t, r)

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, model.Post{ID: "p1", Platform: "devto", ScheduledTime: "2025-03-14 08:30:00 IST+0530", ContentPreview: "hello", CampaignTag: "launch", Status: "Scheduled"}, posts[0])
}

func TestListReturnsEmptyNotNilOnNullBody(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, "null")
	})
	c := newTestClient(t, r)
	events, err := c.ListEvents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestErrorDetailExtraction(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/schedule-post", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Prompt is too vague"})
	}).Methods(http.MethodPost)
	r.HandleFunc("/scheduled-posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "no detail here"})
	}).Methods(http.MethodPut)
	r.HandleFunc("/scheduled-posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}).Methods(http.MethodDelete)
	r.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]any{{"msg": "field required"}, {"msg": "bad date"}}})
	}).Methods(http.MethodPost)
	c := newTestClient(t, r)
	ctx := context.Background()

	_, err := c.SchedulePost(ctx, model.SchedulePostRequest{Prompt: "x", Platforms: []string{"devto"}})
	require.Error(t, err)
	assert.Equal(t, "Prompt is too vague", err.Error())
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	content := "new"
	_, err = c.UpdatePost(ctx, "p1", model.UpdatePostRequest{NewContent: &content})
	require.Error(t, err)
	assert.Equal(t, "Failed to edit post", err.Error())

	_, err = c.CancelPost(ctx, "p1", "devto")
	require.Error(t, err)
	assert.Equal(t, "Failed to cancel post", err.Error())
	assert.False(t, errors.Is(err, ErrTransport))

	_, err = c.CreateEvent(ctx, model.NewEventRequest())
	require.Error(t, err)
	assert.Equal(t, "field required; bad date", err.Error())
}

func TestTransportFailureIsMarked(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	c := NewHTTPClient(Options{BaseURL: url})

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "Failed to load statistics")
}

func TestUpdatePostOmitsUnsetFields(t *testing.T) {
	var got map[string]any
	r := mux.NewRouter()
	r.HandleFunc("/scheduled-posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "p 1", mux.Vars(req)["id"])
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"post_id": "p 1", "content_preview": "later"})
	}).Methods(http.MethodPut)
	c := newTestClient(t, r)

	when := "2025-03-14T03:00:00Z"
	post, err := c.UpdatePost(context.Background(), "p 1", model.UpdatePostRequest{NewTime: &when})
	require.NoError(t, err)
	assert.Equal(t, "later", post.ContentPreview)
	assert.Equal(t, map[string]any{"new_time": when}, got)
}

func TestCancelPostSendsPlatformQuery(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/scheduled-posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "twitter", req.URL.Query().Get("platform"))
		writeJSON(w, http.StatusOK, map[string]any{"message": "cancelled"})
	}).Methods(http.MethodDelete)
	c := newTestClient(t, r)

	msg, err := c.CancelPost(context.Background(), "p1", "twitter")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", msg)
}

func TestRespondAndMonitorBodies(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/comments/{id}/respond", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "thanks!", body["response_text"])
		assert.Equal(t, "c9", mux.Vars(req)["id"])
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)
	r.HandleFunc("/monitor/comments", func(w http.ResponseWriter, req *http.Request) {
		var body model.MonitorRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, model.MonitorRequest{PostID: "p1", Platform: "devto", PlatformPostID: "42"}, body)
		writeJSON(w, http.StatusOK, map[string]any{"new_comments": 2})
	}).Methods(http.MethodPost)
	c := newTestClient(t, r)
	ctx := context.Background()

	msg, err := c.RespondToComment(ctx, "c9", "thanks!")
	require.NoError(t, err)
	assert.Empty(t, msg)

	res, err := c.MonitorComments(ctx, model.MonitorRequest{PostID: "p1", Platform: "devto", PlatformPostID: "42"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res["new_comments"])
}

func TestScheduleResultDecoding(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/schedule-post", func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"immediate":false,
			"scheduled_posts":{"devto":{"post_id":"a","content":"c","scheduled_time":"2025-03-14 08:30:00 IST+0530"}},
			"event_matching":{"matched_event_title":"Launch","confidence":0.82,"reasoning":"same product"}}`)
	}).Methods(http.MethodPost)
	c := newTestClient(t, r)

	res, err := c.SchedulePost(context.Background(), model.SchedulePostRequest{Prompt: "x", Platforms: []string{"devto"}})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Immediate)
	assert.Equal(t, "a", res.ScheduledPosts["devto"].PostID)
	require.NotNil(t, res.EventMatching)
	assert.InDelta(t, 0.82, res.EventMatching.Confidence, 1e-9)
}
