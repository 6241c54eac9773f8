package console

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/model"
	"socialdesk/internal/notify"
	"socialdesk/internal/schedule"
)

// PostDraft is the edit buffer of a scheduled post. Time is in the
// datetime-local form produced by schedule.EditableLocal.
type PostDraft struct {
	Content string
	Time    string
}

// Removal is a destructive action awaiting confirmation.
type Removal struct {
	ID       string
	Platform string
	Label    string
}

const (
	actListPosts  = "list_posts"
	actEditPost   = "edit_post"
	actCancelPost = "cancel_post"
)

// postBoard is the posts collection with its edit and cancel flows, shared by
// the dashboard and the scheduled posts page.
type postBoard struct {
	b       *base
	list    list[model.Post]
	edit    editor[PostDraft]
	pending *Removal
}

func (pb *postBoard) refresh() tea.Cmd {
	pb.list.loading = true
	c := pb.b.env.Client
	return pb.b.fetch(actListPosts, func(ctx context.Context) (any, error) {
		return c.ListPosts(ctx)
	})
}

func (pb *postBoard) beginEdit(p model.Post) {
	pb.edit.begin(p.ID, PostDraft{
		Content: p.ContentPreview,
		Time:    schedule.EditableLocal(p.ScheduledTime, pb.b.env.Location),
	})
}

func (pb *postBoard) setDraft(d PostDraft) {
	if pb.edit.active {
		pb.edit.buf = d
	}
}

// commitEdit sends the fields that differ from the seeded buffer.
func (pb *postBoard) commitEdit(id string) tea.Cmd {
	if !pb.edit.editing(id) {
		return nil
	}
	var req model.UpdatePostRequest
	d := pb.edit.buf
	if d.Content != pb.edit.orig.Content {
		content := d.Content
		req.NewContent = &content
	}
	if d.Time != pb.edit.orig.Time {
		when, err := schedule.CanonicalFromEditable(d.Time, pb.b.env.Location)
		if err != nil {
			return pb.b.notify("Invalid scheduled time", notify.Error)
		}
		req.NewTime = &when
	}
	if req.Validate() != nil {
		pb.edit.clear()
		return pb.b.notify("No changes to save", notify.Info)
	}
	c := pb.b.env.Client
	return pb.b.act(actEditPost, id, func(ctx context.Context) (any, error) {
		return c.UpdatePost(ctx, id, req)
	})
}

func (pb *postBoard) requestRemove(p model.Post) {
	pb.pending = &Removal{ID: p.ID, Platform: p.Platform, Label: p.ContentPreview}
}

func (pb *postBoard) confirmRemove() tea.Cmd {
	if pb.pending == nil {
		return nil
	}
	r := *pb.pending
	pb.pending = nil
	c := pb.b.env.Client
	return pb.b.act(actCancelPost, r.ID, func(ctx context.Context) (any, error) {
		return c.CancelPost(ctx, r.ID, r.Platform)
	})
}

// apply settles a posts result. The bool reports whether res was a posts
// action at all.
func (pb *postBoard) apply(res *resultMsg) (tea.Cmd, bool) {
	switch res.action {
	case actListPosts:
		return loaded(pb.b, res, &pb.list, "Error loading scheduled posts"), true
	case actEditPost:
		if res.err != nil {
			return pb.b.fail(res.err), true
		}
		if pb.edit.editing(res.id) {
			pb.edit.clear()
		}
		return tea.Batch(pb.b.notify("Post updated successfully", notify.Success), pb.refresh()), true
	case actCancelPost:
		if res.err != nil {
			return pb.b.fail(res.err), true
		}
		return tea.Batch(pb.b.notify("Post cancelled successfully", notify.Success), pb.refresh()), true
	}
	return nil, false
}

// ScheduledPosts lists every post newest first, with edit and cancel.
type ScheduledPosts struct {
	base
	board    postBoard
	selected string
}

func NewScheduledPosts(env Env) *ScheduledPosts {
	p := &ScheduledPosts{base: newBase(env, PageScheduledPosts, true)}
	p.board = postBoard{b: &p.base}
	loc := p.env.Location
	p.board.list.order = func(posts []model.Post) { NewestFirst(posts, loc) }
	return p
}

func (p *ScheduledPosts) Mount() tea.Cmd {
	return tea.Batch(p.mount(), p.Refresh())
}

func (p *ScheduledPosts) Unmount() {
	p.base.Unmount()
	p.board.pending = nil
}

func (p *ScheduledPosts) Refresh() tea.Cmd { return p.board.refresh() }

func (p *ScheduledPosts) Update(msg tea.Msg) tea.Cmd {
	res, cmd := p.route(msg, p.Refresh)
	if res == nil {
		return cmd
	}
	cmd, _ = p.board.apply(res)
	switch {
	case res.action == actListPosts && p.Selected() == nil:
		p.selected = ""
	case res.err == nil && res.id == p.selected && (res.action == actEditPost || res.action == actCancelPost):
		p.selected = ""
	}
	return cmd
}

func (p *ScheduledPosts) Posts() []model.Post { return p.board.list.items }
func (p *ScheduledPosts) Loading() bool { return p.board.list.loading }

// Select marks the post shown in the detail pane.
func (p *ScheduledPosts) Select(id string) { p.selected = id }

// Selected returns the detail pane's post. The pane closes once its post is
// edited, cancelled or gone from the list.
func (p *ScheduledPosts) Selected() *model.Post {
	return findPost(p.board.list.items, p.selected)
}

func (p *ScheduledPosts) BeginEdit(post model.Post) { p.board.beginEdit(post) }
func (p *ScheduledPosts) CancelEdit() { p.board.edit.clear() }
func (p *ScheduledPosts) SetDraft(d PostDraft) { p.board.setDraft(d) }
func (p *ScheduledPosts) CommitEdit(id string) tea.Cmd { return p.board.commitEdit(id) }

// Editing returns the post id in edit mode and its buffer.
func (p *ScheduledPosts) Editing() (string, PostDraft, bool) {
	return p.board.edit.id, p.board.edit.buf, p.board.edit.active
}

// RequestRemove asks for confirmation before cancelling post.
func (p *ScheduledPosts) RequestRemove(post model.Post) { p.board.requestRemove(post) }
func (p *ScheduledPosts) ConfirmRemove() tea.Cmd { return p.board.confirmRemove() }
func (p *ScheduledPosts) DismissRemove() { p.board.pending = nil }
func (p *ScheduledPosts) PendingRemoval() *Removal { return p.board.pending }

func findPost(posts []model.Post, id string) *model.Post {
	if id == "" {
		return nil
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i]
		}
	}
	return nil
}

// NewestFirst sorts posts in place by scheduled time descending, reading
// zone-less times in loc. Unparseable times sink to the end in their original
// order.
func NewestFirst(posts []model.Post, loc *time.Location) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, ei := schedule.Parse(posts[i].ScheduledTime, loc)
		tj, ej := schedule.Parse(posts[j].ScheduledTime, loc)
		switch {
		case ei != nil:
			return false
		case ej != nil:
			return true
		}
		return ti.After(tj)
	})
}
