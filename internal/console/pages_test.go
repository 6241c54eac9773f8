package console

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialdesk/internal/backend"
	"socialdesk/internal/model"
)

func TestBlankReplyNeverReachesBackend(t *testing.T) {
	c := newFakeClient()
	p := NewPendingComments(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginEdit("c1")
	p.SetDraft("   ")
	h.run(p.CommitEdit("c1"))
	assert.Zero(t, c.count("respond_comment"))
	assert.Equal(t, "Please enter a response", errorNote(t, p))
	_, _, ok := p.Editing()
	assert.True(t, ok)
}

func TestReplySuccessRefreshes(t *testing.T) {
	c := newFakeClient()
	c.comments = []model.Comment{{ID: "c1", Text: "when is the next meetup?"}}
	p := NewPendingComments(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	require.Len(t, p.Comments(), 1)

	p.BeginEdit("c1")
	p.SetDraft("Next Tuesday!")
	c.comments = nil
	h.run(p.CommitEdit("c1"))

	assert.Equal(t, "Next Tuesday!", c.lastRespond)
	assert.Equal(t, 2, c.count("list_pending_comments"))
	assert.Empty(t, p.Comments())
	assert.Equal(t, "Response sent successfully", successNote(t, p))
	_, _, ok := p.Editing()
	assert.False(t, ok)
}

func TestReplyFailureKeepsText(t *testing.T) {
	c := newFakeClient()
	c.errs["respond_comment"] = fmt.Errorf("Failed to send response: %w", backend.ErrTransport)
	p := NewPendingComments(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginEdit("c1")
	p.SetDraft("thanks")
	h.run(p.CommitEdit("c1"))
	assert.Contains(t, errorNote(t, p), "Failed to send response")
	id, text, ok := p.Editing()
	assert.True(t, ok)
	assert.Equal(t, "c1", id)
	assert.Equal(t, "thanks", text)
}

func validEventForm() model.EventRequest {
	f := model.NewEventRequest()
	f.Title = "Go meetup"
	f.Date = "2025-04-01"
	f.Time = "18:30"
	return f
}

func TestEventsCreateAppends(t *testing.T) {
	c := newFakeClient()
	c.events = []model.Event{{ID: "e1", Title: "Launch"}}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginCreate()
	p.SetCreateForm(validEventForm())
	h.run(p.SubmitCreate())

	require.Len(t, p.Events(), 2)
	assert.Equal(t, "Go meetup", p.Events()[1].Title)
	f, open := p.CreateForm()
	assert.False(t, open)
	assert.Equal(t, model.NewEventRequest(), f)
	assert.Equal(t, 1, c.count("list_events"), "events patch locally")
	assert.Equal(t, "Event created successfully", successNote(t, p))
}

func TestEventsCreateInvalidKeepsForm(t *testing.T) {
	c := newFakeClient()
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginCreate()
	f := validEventForm()
	f.Date = "04/01/2025"
	p.SetCreateForm(f)
	h.run(p.SubmitCreate())
	assert.Zero(t, c.count("create_event"))
	errorNote(t, p)
	got, open := p.CreateForm()
	assert.True(t, open)
	assert.Equal(t, f, got)
}

func TestEventsUpdateReplacesInPlace(t *testing.T) {
	c := newFakeClient()
	c.events = []model.Event{
		{ID: "e1", Title: "Launch", Date: "2025-03-20 00:00:00", Time: "10:00:00"},
		{ID: "e2", Title: "Retro", Date: "2025-03-21", Time: "16:00"},
	}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginEdit(p.Events()[0])
	_, draft, ok := p.Editing()
	require.True(t, ok)
	assert.Equal(t, "2025-03-20", draft.Date)
	assert.Equal(t, "10:00", draft.Time)

	draft.Title = "Launch party"
	draft.Time = "11:00"
	p.SetDraft(draft)
	h.run(p.CommitEdit("e1"))

	require.Len(t, p.Events(), 2)
	assert.Equal(t, "e1", p.Events()[0].ID)
	assert.Equal(t, "Launch party", p.Events()[0].Title)
	assert.Equal(t, "Retro", p.Events()[1].Title)
	_, _, ok = p.Editing()
	assert.False(t, ok)
	assert.Equal(t, "Event updated successfully", successNote(t, p))
}

func TestEventsTitleOnlyEditKeepsBackendTime(t *testing.T) {
	c := newFakeClient()
	c.events = []model.Event{{ID: "e1", Title: "Launch", Date: "2025-03-20", Time: "10:00:00", IsRecorded: "No"}}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.BeginEdit(p.Events()[0])
	_, draft, _ := p.Editing()
	draft.Title = "Launch party"
	p.SetDraft(draft)
	h.run(p.CommitEdit("e1"))

	assert.Equal(t, 1, c.count("update_event"))
	assert.Equal(t, "Launch party", p.Events()[0].Title)
	assert.Equal(t, "Event updated successfully", successNote(t, p))
}

func TestEventsDeleteSingleCall(t *testing.T) {
	c := newFakeClient()
	c.events = []model.Event{{ID: "e1", Title: "Launch"}, {ID: "e2", Title: "Retro"}}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.RequestRemove(p.Events()[0])
	assert.Equal(t, "Launch", p.PendingRemoval().Label)
	h.run(p.ConfirmRemove())
	assert.Nil(t, p.ConfirmRemove(), "second confirm without a new request is a no-op")

	assert.Equal(t, 1, c.count("delete_event"))
	assert.Equal(t, 1, c.count("list_events"))
	require.Len(t, p.Events(), 1)
	assert.Equal(t, "e2", p.Events()[0].ID)
}

func TestEventsDeleteFailureKeepsItem(t *testing.T) {
	c := newFakeClient()
	c.events = []model.Event{{ID: "e1"}}
	c.errs["delete_event"] = &backend.APIError{Op: "delete_event", Status: 500}
	p := NewEvents(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.RequestRemove(p.Events()[0])
	h.run(p.ConfirmRemove())
	assert.Len(t, p.Events(), 1)
	assert.Equal(t, "Failed to delete event", errorNote(t, p))
}

func TestSchedulePostFlow(t *testing.T) {
	c := newFakeClient()
	c.result = model.ScheduleResult{
		Success: true,
		ScheduledPosts: map[string]model.ScheduledPost{
			"twitter": {PostID: "t1", Content: "short"},
			"devto":   {PostID: "d1", Content: "long"},
		},
	}
	p := NewSchedulePost(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	assert.Equal(t, []string{"devto"}, p.Form().Platforms)

	p.TogglePlatform("twitter")
	p.SetPrompt("Announce the meetup next Tuesday")
	cmd := p.Submit()
	require.NotNil(t, cmd)
	assert.True(t, p.Submitting())
	assert.Nil(t, p.Submit(), "double submit is ignored")
	h.run(cmd)

	assert.Equal(t, 1, c.count("schedule_post"))
	assert.False(t, p.Submitting())
	require.NotNil(t, p.Result())
	assert.Equal(t, []string{"devto", "twitter"}, p.Result().Platforms())
	assert.Empty(t, p.Form().Prompt)
	assert.Equal(t, "Post scheduled successfully", successNote(t, p))

	p.NewPost()
	assert.Nil(t, p.Result())
	assert.Equal(t, []string{"devto"}, p.Form().Platforms)
}

func TestSchedulePostValidation(t *testing.T) {
	c := newFakeClient()
	p := NewSchedulePost(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())

	p.SetPrompt("  ")
	h.run(p.Submit())
	errorNote(t, p)

	p.SetPrompt("hello")
	p.TogglePlatform("devto")
	assert.Empty(t, p.Form().Platforms)
	h.run(p.Submit())
	errorNote(t, p)
	assert.Zero(t, c.count("schedule_post"))
}

func TestSchedulePostFailureKeepsPrompt(t *testing.T) {
	c := newFakeClient()
	c.errs["schedule_post"] = &backend.APIError{Op: "schedule_post", Status: 500, Detail: "LLM unavailable"}
	p := NewSchedulePost(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	p.SetPrompt("hello")
	h.run(p.Submit())
	assert.Equal(t, "LLM unavailable", errorNote(t, p))
	assert.Equal(t, "hello", p.Form().Prompt)
	assert.Nil(t, p.Result())
}

func TestSchedulePostUnsuccessfulResultKeepsForm(t *testing.T) {
	c := newFakeClient()
	c.result = model.ScheduleResult{Success: false, Message: "Could not understand prompt"}
	p := NewSchedulePost(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	p.SetPrompt("sometime maybe")
	h.run(p.Submit())

	assert.Equal(t, 1, c.count("schedule_post"))
	assert.Nil(t, p.Result())
	assert.False(t, p.Submitting())
	assert.Equal(t, "sometime maybe", p.Form().Prompt)
	assert.Equal(t, "Could not understand prompt", errorNote(t, p))

	c.result = model.ScheduleResult{}
	h.run(p.Submit())
	assert.Nil(t, p.Result())
	assert.Equal(t, "Failed to schedule post", errorNote(t, p))
}

func TestTemplatesCreate(t *testing.T) {
	c := newFakeClient()
	c.templates = []model.AIResponse{{ResponseID: "r1", TriggerType: "question"}}
	p := NewTemplates(testEnv(c))
	h := &harness{t: t, page: p}
	h.run(p.Mount())
	require.Len(t, p.Templates(), 1)

	p.BeginCreate()
	p.SetForm(model.AIResponseRequest{TriggerType: "praise", ResponseText: "Thank you!"})
	h.run(p.SubmitCreate())
	require.Len(t, p.Templates(), 2)
	assert.Equal(t, "r9", p.Templates()[1].ResponseID)
	_, open := p.Form()
	assert.False(t, open)
}
