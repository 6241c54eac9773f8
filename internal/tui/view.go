package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"socialdesk/internal/analytics"
	"socialdesk/internal/console"
	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
	"socialdesk/internal/theme"
	"socialdesk/internal/util"
)

const previewWidth = 60

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(tabBar(m.active))
	b.WriteString("\n\n")

	switch m.active {
	case console.PageDashboard:
		b.WriteString(m.viewDashboard())
	case console.PageSchedulePost:
		b.WriteString(m.viewCompose())
	case console.PageScheduledPosts:
		b.WriteString(m.viewPosts())
	case console.PagePendingComments:
		b.WriteString(m.viewComments())
	case console.PageEvents:
		b.WriteString(m.viewEvents())
	case console.PageTemplates:
		b.WriteString(m.viewTemplates())
	}

	if m.form != nil {
		b.WriteString("\n" + m.form.view() + "\n")
	}
	if r, ok := m.pages[m.active].(remover); ok && r.PendingRemoval() != nil {
		b.WriteString("\n" + theme.Warning.Render(confirmPrompt(m.active, r.PendingRemoval())) + "\n")
	}
	if n := theme.Notification(m.pages[m.active].Notification()); n != "" {
		b.WriteString("\n" + n + "\n")
	}
	b.WriteString(theme.HelpBar.Render("1-6 pages · ↑/↓ move · r refresh · e edit · x cancel/delete · n new · enter open · q quit"))
	return b.String()
}

func confirmPrompt(page string, r *console.Removal) string {
	label := util.Preview(r.Label, 40)
	if page == console.PageEvents {
		return fmt.Sprintf("Delete event %q? (y/n)", label)
	}
	return fmt.Sprintf("Cancel post %q on %s? (y/n)", label, model.PlatformName(r.Platform))
}

func (m *Model) loadingLine(loading bool) string {
	if !loading {
		return ""
	}
	return m.spinner.View() + " Loading...\n"
}

func (m *Model) row(i int, text string) string {
	if i == m.at(m.itemCount()) {
		return theme.Selected.Render("› "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (m *Model) postRow(i int, p model.Post) string {
	when := schedule.FormatDisplay(p.ScheduledTime, m.env.Location)
	until := schedule.TimeUntil(p.ScheduledTime, m.now())
	line := fmt.Sprintf("%-9s %-22s %-9s %s  %s", model.PlatformName(p.Platform), when, until, theme.Status(p.Status), util.Preview(p.ContentPreview, previewWidth))
	return m.row(i, line)
}

func (m *Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.loadingLine(m.dashboard.Loading()))
	if s := m.dashboard.Stats(); s != nil {
		cards := []string{
			statCard("Total posts", s.TotalPosts),
			statCard("Scheduled", s.ScheduledPosts),
			statCard("Published", s.PublishedPosts),
			statCard("Comments", s.TotalComments),
			statCard("Pending", s.PendingComments),
			statCard("Events", s.TotalEvents),
		}
		b.WriteString(strings.Join(cards, " "))
		b.WriteString("\n\n")
	}
	bd := m.dashboard.Breakdown()
	b.WriteString(theme.Muted.Render("By platform: ") + counts(bd.ByPlatform, model.PlatformName) + "\n")
	b.WriteString(theme.Muted.Render("By status: ") + counts(bd.ByStatus, nil) + "\n")
	b.WriteString(theme.Muted.Render("Comments: ") + counts(bd.ByClassification, nil) + "\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Due in the next 24h: %d", bd.NextDay)) + "\n\n")

	b.WriteString(theme.Bold.Render("Scheduled posts") + "\n")
	for i, p := range m.dashboard.Posts() {
		b.WriteString(m.postRow(i, p))
	}
	b.WriteString("\n" + theme.Bold.Render("Pending comments") + "\n")
	for _, c := range m.dashboard.Comments() {
		b.WriteString("  " + commentLine(c) + "\n")
	}
	return b.String()
}

func statCard(label string, n int) string {
	return theme.Card.Render(theme.Muted.Render(label) + "\n" + theme.Bold.Render(humanize.Comma(int64(n))))
}

func counts(cs []analytics.Count, name func(string) string) string {
	if len(cs) == 0 {
		return theme.Muted.Render("none")
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		k := c.Key
		if name != nil {
			k = name(k)
		}
		parts[i] = fmt.Sprintf("%s %d", k, c.N)
	}
	return strings.Join(parts, " · ")
}

func commentLine(c model.Comment) string {
	return fmt.Sprintf("%-12s %-9s %-10s %s", util.Truncate(c.UserName, 12), model.PlatformName(c.Platform), c.Classification, util.Preview(c.Text, previewWidth))
}

func (m *Model) viewPosts() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Scheduled posts"))
	b.WriteString("\n")
	b.WriteString(m.loadingLine(m.posts.Loading()))
	posts := m.posts.Posts()
	if len(posts) == 0 && !m.posts.Loading() {
		b.WriteString(theme.Muted.Render("No scheduled posts.") + "\n")
	}
	for i, p := range posts {
		b.WriteString(m.postRow(i, p))
	}
	if sel := m.posts.Selected(); sel != nil {
		var d strings.Builder
		d.WriteString(theme.Bold.Render(model.PlatformName(sel.Platform)+" · "+sel.ID) + "\n")
		d.WriteString(schedule.FormatDisplay(sel.ScheduledTime, m.env.Location) + "\n")
		if sel.CampaignTag != "" {
			d.WriteString(theme.Muted.Render("Campaign: "+sel.CampaignTag) + "\n")
		}
		if sel.EventTitle != "" {
			d.WriteString(theme.Muted.Render("Event: "+sel.EventTitle) + "\n")
		}
		d.WriteString("\n" + sel.ContentPreview)
		b.WriteString("\n" + theme.Card.Render(d.String()) + "\n")
	}
	return b.String()
}

func (m *Model) viewComments() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Pending comments"))
	b.WriteString("\n")
	b.WriteString(m.loadingLine(m.comments.Loading()))
	cs := m.comments.Comments()
	if len(cs) == 0 && !m.comments.Loading() {
		b.WriteString(theme.Muted.Render("No comments waiting for a reply.") + "\n")
	}
	for i, c := range cs {
		b.WriteString(m.row(i, commentLine(c)))
	}
	return b.String()
}

func (m *Model) viewEvents() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Events"))
	b.WriteString("\n")
	b.WriteString(m.loadingLine(m.events.Loading()))
	evs := m.events.Events()
	if len(evs) == 0 && !m.events.Loading() {
		b.WriteString(theme.Muted.Render("No events yet. Press n to create one.") + "\n")
	}
	for i, e := range evs {
		line := fmt.Sprintf("%-17s %-30s %s", schedule.EventDisplay(e.Date, e.Time), util.Truncate(e.Title, 30), util.Preview(e.Description, 40))
		if e.IsRecorded == "Yes" {
			line += theme.Accent.Render(" [recorded]")
		}
		b.WriteString(m.row(i, line))
	}
	return b.String()
}

func (m *Model) viewTemplates() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Response templates"))
	b.WriteString("\n")
	b.WriteString(m.loadingLine(m.templates.Loading()))
	for i, t := range m.templates.Templates() {
		kw := t.KeywordMatch
		if kw == "" {
			kw = "-"
		}
		b.WriteString(m.row(i, fmt.Sprintf("%-14s %-16s %s", t.TriggerType, util.Truncate(kw, 16), util.Preview(t.ResponseText, previewWidth))))
	}
	return b.String()
}

func (m *Model) viewCompose() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Schedule a post"))
	b.WriteString("\n")
	if m.compose.Submitting() {
		b.WriteString(m.spinner.View() + " Generating posts...\n")
	}
	r := m.compose.Result()
	if r == nil {
		f := m.compose.Form()
		names := make([]string, len(f.Platforms))
		for i, p := range f.Platforms {
			names[i] = model.PlatformName(p)
		}
		prompt := f.Prompt
		if prompt == "" {
			prompt = theme.Muted.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("Prompt: %s\nPlatforms: %s\n", prompt, strings.Join(names, ", ")))
		b.WriteString(theme.Muted.Render(fmt.Sprintf("%d/%d characters · enter to edit", len([]rune(f.Prompt)), model.MaxPromptLength)) + "\n")
		return b.String()
	}
	return b.String() + resultView(*r, m)
}

func resultView(r model.ScheduleResult, m *Model) string {
	var b strings.Builder
	head := "Scheduled"
	if r.Immediate {
		head = "Published immediately"
	}
	b.WriteString(theme.Bold.Render(head) + "\n")
	if r.Message != "" {
		b.WriteString(theme.Muted.Render(r.Message) + "\n")
	}
	for _, p := range r.Platforms() {
		sp := r.ScheduledPosts[p]
		var c strings.Builder
		c.WriteString(theme.Bold.Render(model.PlatformName(p)))
		if sp.ScheduledTime != "" {
			c.WriteString("  " + theme.Muted.Render(schedule.FormatDisplay(sp.ScheduledTime, m.env.Location)))
		}
		c.WriteString("\n" + sp.Content)
		b.WriteString(theme.Card.Render(c.String()) + "\n")
	}
	if r.Event != nil && r.Event.Title != "" {
		b.WriteString(theme.Muted.Render("Event: ") + r.Event.Title + " " + r.Event.Date + "\n")
	}
	if em := r.EventMatching; em != nil && em.MatchedEventTitle != "" {
		b.WriteString(fmt.Sprintf("Matched event: %s (%.0f%% confidence)\n", em.MatchedEventTitle, em.Confidence*100))
		if em.Reasoning != "" {
			b.WriteString(theme.Muted.Render(em.Reasoning) + "\n")
		}
	}
	b.WriteString(theme.Muted.Render("n or enter for a new post") + "\n")
	return b.String()
}
