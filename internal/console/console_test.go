package console

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialdesk/internal/backend"
	"socialdesk/internal/model"
	"socialdesk/internal/notify"
	"socialdesk/internal/poll"
	"socialdesk/internal/store/journal"
)

type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	stats     model.Stats
	posts     []model.Post
	comments  []model.Comment
	events    []model.Event
	templates []model.AIResponse
	result    model.ScheduleResult

	errs map[string]error

	lastUpdate  model.UpdatePostRequest
	lastRespond string
	lastCancel  [2]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}, errs: map[string]error{}}
}

func (f *fakeClient) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) Stats(ctx context.Context) (model.Stats, error) {
	return f.stats, f.hit("stats")
}

func (f *fakeClient) ListPosts(ctx context.Context) ([]model.Post, error) {
	if err := f.hit("list_posts"); err != nil {
		return nil, err
	}
	return f.posts, nil
}

func (f *fakeClient) SchedulePost(ctx context.Context, req model.SchedulePostRequest) (model.ScheduleResult, error) {
	if err := f.hit("schedule_post"); err != nil {
		return model.ScheduleResult{}, err
	}
	return f.result, nil
}

func (f *fakeClient) UpdatePost(ctx context.Context, id string, req model.UpdatePostRequest) (model.Post, error) {
	f.lastUpdate = req
	return model.Post{ID: id}, f.hit("update_post")
}

func (f *fakeClient) CancelPost(ctx context.Context, id, platform string) (string, error) {
	f.lastCancel = [2]string{id, platform}
	return "cancelled", f.hit("cancel_post")
}

func (f *fakeClient) ListPendingComments(ctx context.Context) ([]model.Comment, error) {
	if err := f.hit("list_pending_comments"); err != nil {
		return nil, err
	}
	return f.comments, nil
}

func (f *fakeClient) RespondToComment(ctx context.Context, id, text string) (string, error) {
	f.lastRespond = text
	return "sent", f.hit("respond_comment")
}

func (f *fakeClient) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := f.hit("list_events"); err != nil {
		return nil, err
	}
	return f.events, nil
}

func (f *fakeClient) GetEvent(ctx context.Context, id string) (model.Event, error) {
	return model.Event{ID: id}, f.hit("get_event")
}

func (f *fakeClient) CreateEvent(ctx context.Context, req model.EventRequest) (model.Event, error) {
	return model.Event{ID: "new", Title: req.Title, Date: req.Date, Time: req.Time}, f.hit("create_event")
}

func (f *fakeClient) UpdateEvent(ctx context.Context, id string, req model.EventRequest) (model.Event, error) {
	return model.Event{ID: id, Title: req.Title, Date: req.Date, Time: req.Time}, f.hit("update_event")
}

func (f *fakeClient) DeleteEvent(ctx context.Context, id string) (string, error) {
	return "deleted", f.hit("delete_event")
}

func (f *fakeClient) ListAIResponses(ctx context.Context) ([]model.AIResponse, error) {
	if err := f.hit("list_ai_responses"); err != nil {
		return nil, err
	}
	return f.templates, nil
}

func (f *fakeClient) CreateAIResponse(ctx context.Context, req model.AIResponseRequest) (model.AIResponse, error) {
	return model.AIResponse{ResponseID: "r9", TriggerType: req.TriggerType, ResponseText: req.ResponseText}, f.hit("create_ai_response")
}

func (f *fakeClient) MonitorComments(ctx context.Context, req model.MonitorRequest) (model.MonitorResult, error) {
	return model.MonitorResult{}, f.hit("monitor_comments")
}

var _ backend.Client = (*fakeClient)(nil)

type memJournal struct{ entries []journal.Entry }

var _ journal.Recorder = (*memJournal)(nil)

func (m *memJournal) Record(ctx context.Context, e journal.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

// harness executes commands synchronously. Timer messages are parked instead
// of fed back so polling never loops.
type harness struct {
	t        *testing.T
	page     Page
	ticks    []poll.TickMsg
	expiries []notify.ExpiredMsg
}

func immediateTick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func testEnv(c backend.Client) Env {
	return Env{
		Client:   c,
		Location: time.UTC,
		Tick:     immediateTick,
		Now:      func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	h.deliver(cmd())
}

// collect executes cmd and returns its messages without delivering them.
func (h *harness) collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, h.collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (h *harness) deliver(msg tea.Msg) {
	switch m := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range m {
			h.run(c)
		}
	case poll.TickMsg:
		h.ticks = append(h.ticks, m)
	case notify.ExpiredMsg:
		h.expiries = append(h.expiries, m)
	default:
		h.run(h.page.Update(m))
	}
}

func errorNote(t *testing.T, p Page) string {
	t.Helper()
	n := p.Notification()
	require.NotNil(t, n)
	assert.Equal(t, notify.Error, n.Severity)
	return n.Message
}

func successNote(t *testing.T, p Page) string {
	t.Helper()
	n := p.Notification()
	require.NotNil(t, n)
	assert.Equal(t, notify.Success, n.Severity)
	return n.Message
}

func TestUnmountedResultsAreDropped(t *testing.T) {
	c := newFakeClient()
	c.posts = []model.Post{{ID: "p1", ScheduledTime: "2025-03-14T15:30:00Z"}}
	p := NewScheduledPosts(testEnv(c))
	h := &harness{t: t, page: p}

	msgs := h.collect(p.Mount())
	p.Unmount()
	for _, m := range msgs {
		h.deliver(m)
	}
	assert.Empty(t, p.Posts())
	assert.Nil(t, p.Notification())
	assert.False(t, p.Polling())
}

func TestResultsFromEarlierMountAreDropped(t *testing.T) {
	c := newFakeClient()
	c.posts = []model.Post{{ID: "old"}}
	p := NewScheduledPosts(testEnv(c))
	h := &harness{t: t, page: p}

	stale := h.collect(p.Mount())
	p.Unmount()

	c.posts = []model.Post{{ID: "new"}}
	h.run(p.Mount())
	for _, m := range stale {
		h.deliver(m)
	}
	require.Len(t, p.Posts(), 1)
	assert.Equal(t, "new", p.Posts()[0].ID)
}

func TestPollTickRefreshesWhileMounted(t *testing.T) {
	c := newFakeClient()
	p := NewPendingComments(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	require.Len(t, h.ticks, 1)
	assert.Equal(t, 1, c.count("list_pending_comments"))

	tick := h.ticks[0]
	h.ticks = nil
	h.run(p.Update(tick))
	assert.Equal(t, 2, c.count("list_pending_comments"))
	require.Len(t, h.ticks, 1, "tick re-armed")

	p.Unmount()
	assert.Nil(t, p.Update(h.ticks[0]))
	assert.Equal(t, 2, c.count("list_pending_comments"))
}

func TestNegativeIntervalDisablesPolling(t *testing.T) {
	env := testEnv(newFakeClient())
	env.PollInterval = -1
	p := NewDashboard(env)
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	assert.Empty(t, h.ticks)
	assert.False(t, p.Polling())
}

func TestNotificationExpiryOnlyClearsItsOwn(t *testing.T) {
	c := newFakeClient()
	c.errs["list_events"] = &backend.APIError{Op: "list_events", Status: 500}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	require.Len(t, h.expiries, 1)
	first := h.expiries[0]

	h.run(p.Refresh())
	require.Len(t, h.expiries, 2)
	p.Update(first)
	assert.NotNil(t, p.Notification(), "older expiry must not clear the newer notification")
	p.Update(h.expiries[1])
	assert.Nil(t, p.Notification())
}

func TestActionsAreJournaled(t *testing.T) {
	c := newFakeClient()
	j := &memJournal{}
	env := testEnv(c)
	env.Journal = j
	p := NewEvents(env)
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	c.errs["delete_event"] = &backend.APIError{Op: "delete_event", Status: 404, Detail: "Event not found"}
	p.RequestRemove(model.Event{ID: "e1"})
	h.run(p.ConfirmRemove())

	require.Len(t, j.entries, 1, "refreshes are not journaled")
	e := j.entries[0]
	assert.Equal(t, "delete_event", e.Action)
	assert.Equal(t, "e1", e.EntityID)
	assert.False(t, e.OK)
	assert.Equal(t, "Event not found", e.Message)
	assert.Equal(t, "tui", e.Source)
}
