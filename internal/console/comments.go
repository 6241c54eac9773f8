package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/model"
	"socialdesk/internal/notify"
)

const (
	actListComments = "list_pending_comments"
	actRespond      = "respond_comment"
)

// PendingComments lists comments awaiting a reply and lets the operator answer
// one at a time.
type PendingComments struct {
	base
	list  list[model.Comment]
	reply editor[string]
}

func NewPendingComments(env Env) *PendingComments {
	return &PendingComments{base: newBase(env, PagePendingComments, true)}
}

func (p *PendingComments) Mount() tea.Cmd {
	return tea.Batch(p.mount(), p.Refresh())
}

func (p *PendingComments) Refresh() tea.Cmd {
	p.list.loading = true
	c := p.env.Client
	return p.fetch(actListComments, func(ctx context.Context) (any, error) {
		return c.ListPendingComments(ctx)
	})
}

func (p *PendingComments) Update(msg tea.Msg) tea.Cmd {
	res, cmd := p.route(msg, p.Refresh)
	if res == nil {
		return cmd
	}
	switch res.action {
	case actListComments:
		return loaded(&p.base, res, &p.list, "Error loading pending comments")
	case actRespond:
		if res.err != nil {
			return p.fail(res.err)
		}
		if p.reply.editing(res.id) {
			p.reply.clear()
		}
		return tea.Batch(p.notify("Response sent successfully", notify.Success), p.Refresh())
	}
	return nil
}

func (p *PendingComments) Comments() []model.Comment { return p.list.items }
func (p *PendingComments) Loading() bool { return p.list.loading }

// BeginEdit opens the reply box for a comment with an empty buffer.
func (p *PendingComments) BeginEdit(id string) { p.reply.begin(id, "") }

func (p *PendingComments) CancelEdit() { p.reply.clear() }

func (p *PendingComments) SetDraft(text string) {
	if p.reply.active {
		p.reply.buf = text
	}
}

// Editing returns the comment id with an open reply box and its text.
func (p *PendingComments) Editing() (string, string, bool) {
	return p.reply.id, p.reply.buf, p.reply.active
}

// CommitEdit posts the buffered reply. A blank reply never reaches the backend.
func (p *PendingComments) CommitEdit(id string) tea.Cmd {
	if !p.reply.editing(id) {
		return nil
	}
	req := model.RespondRequest{ResponseText: p.reply.buf}
	if req.Validate() != nil {
		return p.notify("Please enter a response", notify.Error)
	}
	c := p.env.Client
	return p.act(actRespond, id, func(ctx context.Context) (any, error) {
		return c.RespondToComment(ctx, id, req.ResponseText)
	})
}
