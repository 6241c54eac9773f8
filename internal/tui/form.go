package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/theme"
)

type field struct {
	label string
	input textinput.Model
}

// form is the modal input block for edits, replies and create dialogs. It stays
// open until done reports that the page left its editing state, so a failed
// submit keeps what the operator typed.
type form struct {
	title  string
	fields []field
	focus  int
	submit func(values []string) tea.Cmd
	cancel func(values []string)
	done   func() bool
}

func newForm(title string, labels, values []string) *form {
	f := &form{title: title}
	for i, l := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 2000
		in.Cursor.SetMode(cursor.CursorStatic)
		if i < len(values) {
			in.SetValue(values[i])
		}
		f.fields = append(f.fields, field{label: l, input: in})
	}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

func (f *form) values() []string {
	out := make([]string, len(f.fields))
	for i, fl := range f.fields {
		out[i] = fl.input.Value()
	}
	return out
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(theme.Bold.Render(f.title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := theme.Muted.Render(fl.label + ": ")
		if i == f.focus {
			label = theme.Accent.Render("› " + fl.label + ": ")
		}
		b.WriteString(label + fl.input.View() + "\n")
	}
	b.WriteString(theme.Muted.Render("tab next field · enter save · esc cancel"))
	return theme.Card.Render(b.String())
}
