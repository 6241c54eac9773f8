package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/model"
	"socialdesk/internal/notify"
)

const (
	actListTemplates  = "list_ai_responses"
	actCreateTemplate = "create_ai_response"
)

// Templates lists the canned AI response templates and creates new ones.
type Templates struct {
	base
	list     list[model.AIResponse]
	creating bool
	form     model.AIResponseRequest
}

func NewTemplates(env Env) *Templates {
	return &Templates{base: newBase(env, PageTemplates, false)}
}

func (t *Templates) Mount() tea.Cmd {
	return tea.Batch(t.mount(), t.Refresh())
}

func (t *Templates) Refresh() tea.Cmd {
	t.list.loading = true
	c := t.env.Client
	return t.fetch(actListTemplates, func(ctx context.Context) (any, error) {
		return c.ListAIResponses(ctx)
	})
}

func (t *Templates) Update(msg tea.Msg) tea.Cmd {
	res, cmd := t.route(msg, t.Refresh)
	if res == nil {
		return cmd
	}
	switch res.action {
	case actListTemplates:
		return loaded(&t.base, res, &t.list, "Failed to load response templates")
	case actCreateTemplate:
		if res.err != nil {
			return t.fail(res.err)
		}
		r, _ := res.value.(model.AIResponse)
		t.list.items = append(t.list.items, r)
		t.creating = false
		t.form = model.AIResponseRequest{}
		return t.notify("Template created successfully", notify.Success)
	}
	return nil
}

func (t *Templates) Templates() []model.AIResponse { return t.list.items }
func (t *Templates) Loading() bool { return t.list.loading }

func (t *Templates) BeginCreate() {
	t.creating = true
	t.form = model.AIResponseRequest{}
}

func (t *Templates) CancelCreate() { t.creating = false }

func (t *Templates) SetForm(f model.AIResponseRequest) { t.form = f }

func (t *Templates) Form() (model.AIResponseRequest, bool) { return t.form, t.creating }

func (t *Templates) SubmitCreate() tea.Cmd {
	req := t.form
	if err := req.Validate(); err != nil {
		return t.fail(err)
	}
	c := t.env.Client
	return t.act(actCreateTemplate, "", func(ctx context.Context) (any, error) {
		return c.CreateAIResponse(ctx, req)
	})
}
