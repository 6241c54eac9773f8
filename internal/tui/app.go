// Package tui is the interactive console: a bubbletea program that routes
// between the console pages, forwards every message to the mounted page and
// renders its state.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/console"
	"socialdesk/internal/logging"
	"socialdesk/internal/model"
	"socialdesk/internal/theme"
)

const lastPageKey = "console:last_page"

// routes in key order: "1" opens the first one.
var routes = []string{
	console.PageDashboard,
	console.PageSchedulePost,
	console.PageScheduledPosts,
	console.PagePendingComments,
	console.PageEvents,
	console.PageTemplates,
}

var routeTitles = map[string]string{
	console.PageDashboard:       "Dashboard",
	console.PageSchedulePost:    "Schedule",
	console.PageScheduledPosts:  "Posts",
	console.PagePendingComments: "Comments",
	console.PageEvents:          "Events",
	console.PageTemplates:       "Templates",
}

// StateStore remembers the last open page between runs.
type StateStore interface {
	LoadState(ctx context.Context, key string) (string, error)
	SaveState(ctx context.Context, key, value string) error
}

type Options struct {
	Env   console.Env
	State StateStore // optional
	Start string     // route to open; empty uses the remembered one
}

type remover interface {
	PendingRemoval() *console.Removal
	ConfirmRemove() tea.Cmd
	DismissRemove()
}

type refresher interface{ Refresh() tea.Cmd }

type Model struct {
	env   console.Env
	state StateStore

	dashboard *console.Dashboard
	compose   *console.SchedulePost
	posts     *console.ScheduledPosts
	comments  *console.PendingComments
	events    *console.Events
	templates *console.Templates
	pages     map[string]console.Page

	active  string
	cursor  map[string]int
	form    *form
	spinner spinner.Model
}

func New(opts Options) *Model {
	env := opts.Env
	m := &Model{
		env:       env,
		state:     opts.State,
		dashboard: console.NewDashboard(env),
		compose:   console.NewSchedulePost(env),
		posts:     console.NewScheduledPosts(env),
		comments:  console.NewPendingComments(env),
		events:    console.NewEvents(env),
		templates: console.NewTemplates(env),
		cursor:    map[string]int{},
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.pages = map[string]console.Page{
		console.PageDashboard:       m.dashboard,
		console.PageSchedulePost:    m.compose,
		console.PageScheduledPosts:  m.posts,
		console.PagePendingComments: m.comments,
		console.PageEvents:          m.events,
		console.PageTemplates:       m.templates,
	}
	m.active = m.startRoute(opts.Start)
	return m
}

func (m *Model) startRoute(requested string) string {
	if _, ok := m.pages[requested]; ok {
		return requested
	}
	if m.state != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if v, err := m.state.LoadState(ctx, lastPageKey); err == nil {
			if _, ok := m.pages[v]; ok {
				return v
			}
		}
	}
	return console.PageSchedulePost
}

func (m *Model) now() time.Time {
	if m.env.Now != nil {
		return m.env.Now()
	}
	return time.Now()
}

// Active returns the mounted route.
func (m *Model) Active() string { return m.active }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.pages[m.active].Mount(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncForm()
		return m, cmd
	}
	cmd := m.pages[m.active].Update(msg)
	m.syncForm()
	return m, cmd
}

func (m *Model) syncForm() {
	if m.form != nil && m.form.done != nil && m.form.done() {
		m.form = nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.pages[m.active].Unmount()
	return tea.Quit
}

// switchTo unmounts the current page and mounts name.
func (m *Model) switchTo(name string) tea.Cmd {
	if name == m.active {
		return nil
	}
	m.form = nil
	m.pages[m.active].Unmount()
	m.active = name
	logging.Debug("console_route", map[string]any{"page": name})
	return tea.Batch(m.pages[name].Mount(), m.saveRoute(name))
}

func (m *Model) saveRoute(name string) tea.Cmd {
	if m.state == nil {
		return nil
	}
	st := m.state
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := st.SaveState(ctx, lastPageKey, name); err != nil {
			logging.Warn("console_state_save_failed", map[string]any{"error": err.Error()})
		}
		return nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.form != nil {
		switch key {
		case "esc":
			if m.form.cancel != nil {
				m.form.cancel(m.form.values())
			}
			m.form = nil
			return nil
		case "tab", "down":
			m.form.next()
			return nil
		case "shift+tab", "up":
			m.form.prev()
			return nil
		case "enter":
			return m.form.submit(m.form.values())
		}
		return m.form.update(msg)
	}
	if r, ok := m.pages[m.active].(remover); ok && r.PendingRemoval() != nil {
		switch key {
		case "y":
			return r.ConfirmRemove()
		case "n", "esc":
			r.DismissRemove()
		}
		return nil
	}

	switch key {
	case "q":
		return m.quit()
	case "1", "2", "3", "4", "5", "6":
		return m.switchTo(routes[int(key[0]-'1')])
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "r":
		if r, ok := m.pages[m.active].(refresher); ok {
			return r.Refresh()
		}
	case "e":
		return m.beginEdit()
	case "x", "d":
		m.requestRemove()
	case "enter":
		return m.open()
	case "n":
		return m.create()
	case "esc":
		if m.active == console.PageScheduledPosts {
			m.posts.Select("")
		}
	}
	return nil
}

func (m *Model) itemCount() int {
	switch m.active {
	case console.PageDashboard:
		return len(m.dashboard.Posts())
	case console.PageScheduledPosts:
		return len(m.posts.Posts())
	case console.PagePendingComments:
		return len(m.comments.Comments())
	case console.PageEvents:
		return len(m.events.Events())
	case console.PageTemplates:
		return len(m.templates.Templates())
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	n := m.itemCount()
	c := m.cursor[m.active] + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursor[m.active] = c
}

// at returns the cursor index clamped to n items, or -1 when empty.
func (m *Model) at(n int) int {
	if n == 0 {
		return -1
	}
	c := m.cursor[m.active]
	if c >= n {
		c = n - 1
	}
	return c
}

type postEditor interface {
	BeginEdit(model.Post)
	CancelEdit()
	SetDraft(console.PostDraft)
	CommitEdit(string) tea.Cmd
	Editing() (string, console.PostDraft, bool)
	RequestRemove(model.Post)
}

func (m *Model) postPage() (postEditor, []model.Post) {
	switch m.active {
	case console.PageDashboard:
		return m.dashboard, m.dashboard.Posts()
	case console.PageScheduledPosts:
		return m.posts, m.posts.Posts()
	}
	return nil, nil
}

func (m *Model) beginEdit() tea.Cmd {
	if pe, posts := m.postPage(); pe != nil {
		i := m.at(len(posts))
		if i < 0 {
			return nil
		}
		m.editPost(pe, posts[i])
		return nil
	}
	switch m.active {
	case console.PagePendingComments:
		m.replyToComment()
	case console.PageEvents:
		m.editEvent()
	case console.PageSchedulePost:
		m.openCompose()
	}
	return nil
}

func (m *Model) editPost(pe postEditor, post model.Post) {
	pe.BeginEdit(post)
	_, d, _ := pe.Editing()
	id := post.ID
	m.form = newForm("Edit post", []string{"Content", "Time (YYYY-MM-DDTHH:MM)"}, []string{d.Content, d.Time})
	m.form.submit = func(v []string) tea.Cmd {
		pe.SetDraft(console.PostDraft{Content: v[0], Time: v[1]})
		return pe.CommitEdit(id)
	}
	m.form.cancel = func([]string) { pe.CancelEdit() }
	m.form.done = func() bool {
		cur, _, ok := pe.Editing()
		return !ok || cur != id
	}
}

func (m *Model) replyToComment() {
	cs := m.comments.Comments()
	i := m.at(len(cs))
	if i < 0 {
		return
	}
	id := cs[i].ID
	m.comments.BeginEdit(id)
	m.form = newForm("Reply to "+cs[i].UserName, []string{"Response"}, nil)
	m.form.submit = func(v []string) tea.Cmd {
		m.comments.SetDraft(v[0])
		return m.comments.CommitEdit(id)
	}
	m.form.cancel = func([]string) { m.comments.CancelEdit() }
	m.form.done = func() bool {
		cur, _, ok := m.comments.Editing()
		return !ok || cur != id
	}
}

var eventLabels = []string{"Title", "Date (YYYY-MM-DD)", "Time (HH:MM)", "Description", "Registration link", "Recorded (Yes/No)"}

func eventValues(r model.EventRequest) []string {
	return []string{r.Title, r.Date, r.Time, r.Description, r.RegistrationLink, r.IsRecorded}
}

func eventRequest(v []string) model.EventRequest {
	return model.EventRequest{
		Title:            strings.TrimSpace(v[0]),
		Date:             strings.TrimSpace(v[1]),
		Time:             strings.TrimSpace(v[2]),
		Description:      v[3],
		RegistrationLink: strings.TrimSpace(v[4]),
		IsRecorded:       strings.TrimSpace(v[5]),
	}
}

func (m *Model) editEvent() {
	evs := m.events.Events()
	i := m.at(len(evs))
	if i < 0 {
		return
	}
	id := evs[i].ID
	m.events.BeginEdit(evs[i])
	_, draft, _ := m.events.Editing()
	m.form = newForm("Edit event", eventLabels, eventValues(draft))
	m.form.submit = func(v []string) tea.Cmd {
		m.events.SetDraft(eventRequest(v))
		return m.events.CommitEdit(id)
	}
	m.form.cancel = func([]string) { m.events.CancelEdit() }
	m.form.done = func() bool {
		cur, _, ok := m.events.Editing()
		return !ok || cur != id
	}
}

func (m *Model) openCompose() {
	if m.compose.Result() != nil {
		return
	}
	f := m.compose.Form()
	m.form = newForm("Schedule a post", []string{"Prompt", "Platforms (comma separated)"}, []string{f.Prompt, strings.Join(f.Platforms, ",")})
	apply := func(v []string) {
		m.compose.SetPrompt(v[0])
		want := map[string]bool{}
		for _, p := range strings.Split(v[1], ",") {
			want[strings.ToLower(strings.TrimSpace(p))] = true
		}
		have := map[string]bool{}
		for _, p := range m.compose.Form().Platforms {
			have[p] = true
		}
		for _, p := range model.KnownPlatforms {
			if want[p] != have[p] {
				m.compose.TogglePlatform(p)
			}
		}
	}
	m.form.submit = func(v []string) tea.Cmd {
		apply(v)
		return m.compose.Submit()
	}
	m.form.cancel = apply
	m.form.done = func() bool { return m.compose.Result() != nil }
}

func (m *Model) requestRemove() {
	if pe, posts := m.postPage(); pe != nil {
		if i := m.at(len(posts)); i >= 0 {
			pe.RequestRemove(posts[i])
		}
		return
	}
	if m.active == console.PageEvents {
		evs := m.events.Events()
		if i := m.at(len(evs)); i >= 0 {
			m.events.RequestRemove(evs[i])
		}
	}
}

func (m *Model) open() tea.Cmd {
	switch m.active {
	case console.PageScheduledPosts:
		ps := m.posts.Posts()
		if i := m.at(len(ps)); i >= 0 {
			m.posts.Select(ps[i].ID)
		}
	case console.PagePendingComments:
		m.replyToComment()
	case console.PageEvents:
		m.editEvent()
	case console.PageSchedulePost:
		if m.compose.Result() != nil {
			m.compose.NewPost()
		}
		m.openCompose()
	}
	return nil
}

func (m *Model) create() tea.Cmd {
	switch m.active {
	case console.PageEvents:
		m.events.BeginCreate()
		f, _ := m.events.CreateForm()
		m.form = newForm("New event", eventLabels, eventValues(f))
		m.form.submit = func(v []string) tea.Cmd {
			m.events.SetCreateForm(eventRequest(v))
			return m.events.SubmitCreate()
		}
		m.form.cancel = func([]string) { m.events.CancelCreate() }
		m.form.done = func() bool {
			_, open := m.events.CreateForm()
			return !open
		}
	case console.PageTemplates:
		m.templates.BeginCreate()
		m.form = newForm("New response template", []string{"Trigger type", "Keyword match", "Response text"}, nil)
		m.form.submit = func(v []string) tea.Cmd {
			m.templates.SetForm(model.AIResponseRequest{TriggerType: strings.TrimSpace(v[0]), KeywordMatch: strings.TrimSpace(v[1]), ResponseText: v[2]})
			return m.templates.SubmitCreate()
		}
		m.form.cancel = func([]string) { m.templates.CancelCreate() }
		m.form.done = func() bool {
			_, open := m.templates.Form()
			return !open
		}
	case console.PageSchedulePost:
		m.compose.NewPost()
		m.openCompose()
	}
	return nil
}

// Run starts the console on the alternate screen and blocks until it quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}

func tabBar(active string) string {
	var parts []string
	for i, r := range routes {
		label := string(rune('1'+i)) + " " + routeTitles[r]
		if r == active {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
