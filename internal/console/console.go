// Package console holds the page controllers behind the terminal console. Each
// controller owns its collections, its edit and confirmation state, one
// notification surface and, where the page polls, a refresher.
//
// Controllers are driven from a single bubbletea update loop. Backend calls run
// inside tea.Cmd functions and come back as messages tagged with the page name
// and the mount epoch they were issued under; anything arriving for an unmounted
// page or an older mount is dropped.
package console

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/backend"
	"socialdesk/internal/logging"
	"socialdesk/internal/metrics"
	"socialdesk/internal/notify"
	"socialdesk/internal/poll"
	"socialdesk/internal/store/journal"
)

// Page names, also used as route keys and metric labels.
const (
	PageDashboard       = "dashboard"
	PageScheduledPosts  = "scheduled-posts"
	PagePendingComments = "pending-comments"
	PageEvents          = "events"
	PageSchedulePost    = "schedule-post"
	PageTemplates       = "templates"
)

// Env carries what every controller needs.
type Env struct {
	Client       backend.Client
	Journal      journal.Recorder // optional
	Location     *time.Location
	PollInterval time.Duration
	NotifyTTL    time.Duration
	CallTimeout  time.Duration
	Source       string

	// Now and Tick default to time.Now and tea.Tick.
	Now  func() time.Time
	Tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func (e Env) withDefaults() Env {
	if e.Location == nil {
		e.Location = time.Local
	}
	if e.PollInterval == 0 {
		e.PollInterval = poll.DefaultInterval
	}
	if e.NotifyTTL <= 0 {
		e.NotifyTTL = notify.DefaultTTL
	}
	if e.CallTimeout <= 0 {
		e.CallTimeout = 30 * time.Second
	}
	if e.Source == "" {
		e.Source = "tui"
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Tick == nil {
		e.Tick = tea.Tick
	}
	return e
}

// Page is the surface the TUI drives.
type Page interface {
	Name() string
	Mount() tea.Cmd
	Unmount()
	Mounted() bool
	Update(msg tea.Msg) tea.Cmd
	Notification() *notify.Notification
}

// resultMsg is the outcome of one backend call.
type resultMsg struct {
	page   string
	epoch  uint64
	action string
	id     string
	value  any
	err    error
}

var epochs atomic.Uint64

type base struct {
	env     Env
	name    string
	epoch   uint64
	mounted bool
	notes   *notify.Surface
	poller  *poll.Refresher
}

func newBase(env Env, name string, polled bool) base {
	env = env.withDefaults()
	b := base{env: env, name: name, notes: notify.New(env.NotifyTTL)}
	b.notes.SetClock(env.Now, env.Tick)
	if polled {
		b.poller = poll.New(name, env.PollInterval)
		b.poller.Tick = env.Tick
	}
	return b
}

func (b *base) Name() string { return b.name }

func (b *base) Mounted() bool { return b.mounted }

func (b *base) Notification() *notify.Notification { return b.notes.Current() }

// Polling reports whether the page's refresher is armed.
func (b *base) Polling() bool { return b.poller != nil && b.poller.Running() }

func (b *base) mount() tea.Cmd {
	b.epoch = epochs.Add(1)
	b.mounted = true
	if b.poller != nil {
		return b.poller.Start()
	}
	return nil
}

// Unmount stops polling and clears the notification. Calls still in flight
// complete but their results are discarded.
func (b *base) Unmount() {
	b.mounted = false
	b.epoch = epochs.Add(1)
	if b.poller != nil {
		b.poller.Stop()
	}
	b.notes.Close()
}

func (b *base) notify(message string, sev notify.Severity) tea.Cmd {
	return b.notes.Notify(message, sev)
}

func (b *base) fail(err error) tea.Cmd { return b.notify(err.Error(), notify.Error) }

// fetch runs a read against the backend.
func (b *base) fetch(action string, fn func(ctx context.Context) (any, error)) tea.Cmd {
	return b.call(action, "", false, fn)
}

// act runs a mutation and records its outcome in the journal.
func (b *base) act(action, id string, fn func(ctx context.Context) (any, error)) tea.Cmd {
	return b.call(action, id, true, fn)
}

func (b *base) call(action, id string, journaled bool, fn func(ctx context.Context) (any, error)) tea.Cmd {
	env, page, epoch := b.env, b.name, b.epoch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), env.CallTimeout)
		defer cancel()
		v, err := fn(ctx)
		if journaled {
			record(ctx, env, action, id, err)
		}
		return resultMsg{page: page, epoch: epoch, action: action, id: id, value: v, err: err}
	}
}

func record(ctx context.Context, env Env, action, id string, err error) {
	fields := map[string]any{"action": action, "id": id, "source": env.Source}
	msg := "ok"
	if err != nil {
		msg = err.Error()
		fields["error"] = msg
		logging.Warn("console_action_failed", fields)
	} else {
		logging.Info("console_action", fields)
	}
	if env.Journal == nil {
		return
	}
	e := journal.Entry{TS: env.Now().UTC(), Source: env.Source, Action: action, EntityID: id, OK: err == nil, Message: msg}
	if jerr := env.Journal.Record(ctx, e); jerr != nil {
		logging.Warn("journal_record_failed", map[string]any{"action": action, "error": jerr.Error()})
	}
}

// route handles the messages common to every page. It returns the result
// message when msg is a backend outcome that belongs to the current mount.
func (b *base) route(msg tea.Msg, refresh func() tea.Cmd) (*resultMsg, tea.Cmd) {
	switch m := msg.(type) {
	case notify.ExpiredMsg:
		b.notes.Expire(m)
	case poll.TickMsg:
		if b.poller == nil || !b.poller.Accept(m) {
			return nil, nil
		}
		return nil, tea.Batch(refresh(), b.poller.Next())
	case resultMsg:
		if m.page != b.name || !b.mounted || m.epoch != b.epoch {
			return nil, nil
		}
		return &m, nil
	}
	return nil, nil
}

// loaded settles a collection refresh: failures empty the collection and raise
// message as an error notification.
func loaded[T any](b *base, res *resultMsg, l *list[T], message string) tea.Cmd {
	l.loading = false
	metrics.IncRefresh(b.name, res.err == nil)
	if res.err != nil {
		l.replace(nil)
		return b.notify(message, notify.Error)
	}
	items, _ := res.value.([]T)
	l.replace(items)
	return nil
}

// list is an ordered collection owned by one page.
type list[T any] struct {
	items   []T
	loading bool
	order   func([]T)
}

func (l *list[T]) replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	if l.order != nil {
		l.order(cp)
	}
	l.items = cp
}

// editor tracks at most one item in edit mode and its working buffer.
type editor[B any] struct {
	active bool
	id     string
	orig   B
	buf    B
}

func (e *editor[B]) begin(id string, buf B) {
	e.active, e.id, e.orig, e.buf = true, id, buf, buf
}

func (e *editor[B]) clear() {
	var zero B
	e.active, e.id, e.orig, e.buf = false, "", zero, zero
}

func (e *editor[B]) editing(id string) bool { return e.active && e.id == id }
