package console

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/analytics"
	"socialdesk/internal/metrics"
	"socialdesk/internal/model"
	"socialdesk/internal/notify"
)

const actStats = "stats"

// Dashboard shows the aggregate counters next to the posts and pending
// comments collections. Posts keep backend order here.
type Dashboard struct {
	base
	stats        *model.Stats
	statsLoading bool
	board        postBoard
	comments     list[model.Comment]
}

func NewDashboard(env Env) *Dashboard {
	d := &Dashboard{base: newBase(env, PageDashboard, true)}
	d.board = postBoard{b: &d.base}
	return d
}

func (d *Dashboard) Mount() tea.Cmd {
	return tea.Batch(d.mount(), d.Refresh())
}

func (d *Dashboard) Unmount() {
	d.base.Unmount()
	d.board.pending = nil
}

// Refresh reloads stats, posts and comments independently.
func (d *Dashboard) Refresh() tea.Cmd {
	c := d.env.Client
	d.statsLoading = true
	d.comments.loading = true
	return tea.Batch(
		d.fetch(actStats, func(ctx context.Context) (any, error) { return c.Stats(ctx) }),
		d.board.refresh(),
		d.fetch(actListComments, func(ctx context.Context) (any, error) { return c.ListPendingComments(ctx) }),
	)
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	res, cmd := d.route(msg, d.Refresh)
	if res == nil {
		return cmd
	}
	if cmd, ok := d.board.apply(res); ok {
		return cmd
	}
	switch res.action {
	case actStats:
		d.statsLoading = false
		metrics.IncRefresh(d.name, res.err == nil)
		if res.err != nil {
			d.stats = nil
			return d.notify("Error loading statistics", notify.Error)
		}
		s, _ := res.value.(model.Stats)
		d.stats = &s
		metrics.PendingComments.Set(float64(s.PendingComments))
	case actListComments:
		return loaded(&d.base, res, &d.comments, "Error loading pending comments")
	}
	return nil
}

// Stats returns the last loaded counters, or nil.
func (d *Dashboard) Stats() *model.Stats { return d.stats }

func (d *Dashboard) Loading() bool {
	return d.statsLoading || d.board.list.loading || d.comments.loading
}

func (d *Dashboard) Posts() []model.Post { return d.board.list.items }

func (d *Dashboard) Comments() []model.Comment { return d.comments.items }

func (d *Dashboard) BeginEdit(post model.Post) { d.board.beginEdit(post) }
func (d *Dashboard) CancelEdit() { d.board.edit.clear() }
func (d *Dashboard) SetDraft(dr PostDraft) { d.board.setDraft(dr) }
func (d *Dashboard) CommitEdit(id string) tea.Cmd { return d.board.commitEdit(id) }

func (d *Dashboard) Editing() (string, PostDraft, bool) {
	return d.board.edit.id, d.board.edit.buf, d.board.edit.active
}

func (d *Dashboard) RequestRemove(post model.Post) { d.board.requestRemove(post) }
func (d *Dashboard) ConfirmRemove() tea.Cmd { return d.board.confirmRemove() }
func (d *Dashboard) DismissRemove() { d.board.pending = nil }
func (d *Dashboard) PendingRemoval() *Removal { return d.board.pending }

// Breakdown summarises the loaded collections.
type Breakdown struct {
	ByPlatform       []analytics.Count
	ByStatus         []analytics.Count
	ByClassification []analytics.Count
	NextDay          int
}

func (d *Dashboard) Breakdown() Breakdown {
	return Breakdown{
		ByPlatform:       analytics.PostsByPlatform(d.board.list.items),
		ByStatus:         analytics.PostsByStatus(d.board.list.items),
		ByClassification: analytics.CommentsByClassification(d.comments.items),
		NextDay:          analytics.UpcomingWithin(d.board.list.items, d.env.Now(), 24*time.Hour),
	}
}
