package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/model"
	"socialdesk/internal/notify"
)

const (
	actListEvents  = "list_events"
	actCreateEvent = "create_event"
	actUpdateEvent = "update_event"
	actDeleteEvent = "delete_event"
)

// Events manages the event catalogue. Unlike the posts pages it does not poll,
// and it patches its collection locally after each mutation instead of
// refetching.
type Events struct {
	base
	list     list[model.Event]
	edit     editor[model.EventRequest]
	creating bool
	form     model.EventRequest
	pending  *Removal
}

func NewEvents(env Env) *Events {
	return &Events{base: newBase(env, PageEvents, false), form: model.NewEventRequest()}
}

func (e *Events) Mount() tea.Cmd {
	return tea.Batch(e.mount(), e.Refresh())
}

func (e *Events) Unmount() {
	e.base.Unmount()
	e.pending = nil
}

func (e *Events) Refresh() tea.Cmd {
	e.list.loading = true
	c := e.env.Client
	return e.fetch(actListEvents, func(ctx context.Context) (any, error) {
		return c.ListEvents(ctx)
	})
}

func (e *Events) Update(msg tea.Msg) tea.Cmd {
	res, cmd := e.route(msg, e.Refresh)
	if res == nil {
		return cmd
	}
	switch res.action {
	case actListEvents:
		return loaded(&e.base, res, &e.list, "Failed to fetch events")
	case actCreateEvent:
		if res.err != nil {
			return e.fail(res.err)
		}
		ev, _ := res.value.(model.Event)
		e.list.items = append(e.list.items, ev)
		e.creating = false
		e.form = model.NewEventRequest()
		return e.notify("Event created successfully", notify.Success)
	case actUpdateEvent:
		if res.err != nil {
			return e.fail(res.err)
		}
		ev, _ := res.value.(model.Event)
		if ev.ID == "" {
			ev.ID = res.id
		}
		for i := range e.list.items {
			if e.list.items[i].ID == res.id {
				e.list.items[i] = ev
			}
		}
		if e.edit.editing(res.id) {
			e.edit.clear()
		}
		return e.notify("Event updated successfully", notify.Success)
	case actDeleteEvent:
		if res.err != nil {
			return e.fail(res.err)
		}
		kept := e.list.items[:0:0]
		for _, ev := range e.list.items {
			if ev.ID != res.id {
				kept = append(kept, ev)
			}
		}
		e.list.items = kept
		return e.notify("Event deleted successfully", notify.Success)
	}
	return nil
}

func (e *Events) Events() []model.Event { return e.list.items }
func (e *Events) Loading() bool { return e.list.loading }

// BeginCreate opens the create form with default values.
func (e *Events) BeginCreate() {
	e.creating = true
	e.form = model.NewEventRequest()
}

func (e *Events) CancelCreate() {
	e.creating = false
	e.form = model.NewEventRequest()
}

func (e *Events) SetCreateForm(f model.EventRequest) { e.form = f }

// CreateForm returns the create form and whether it is open.
func (e *Events) CreateForm() (model.EventRequest, bool) { return e.form, e.creating }

// SubmitCreate validates the form and creates the event. The form is kept
// intact on failure.
func (e *Events) SubmitCreate() tea.Cmd {
	req := e.form
	if err := req.Validate(); err != nil {
		return e.fail(err)
	}
	c := e.env.Client
	return e.act(actCreateEvent, "", func(ctx context.Context) (any, error) {
		return c.CreateEvent(ctx, req)
	})
}

func (e *Events) BeginEdit(ev model.Event) { e.edit.begin(ev.ID, model.EventRequestFrom(ev)) }
func (e *Events) CancelEdit() { e.edit.clear() }

func (e *Events) SetDraft(f model.EventRequest) {
	if e.edit.active {
		e.edit.buf = f
	}
}

func (e *Events) Editing() (string, model.EventRequest, bool) {
	return e.edit.id, e.edit.buf, e.edit.active
}

func (e *Events) CommitEdit(id string) tea.Cmd {
	if !e.edit.editing(id) {
		return nil
	}
	req := e.edit.buf
	if err := req.Validate(); err != nil {
		return e.fail(err)
	}
	c := e.env.Client
	return e.act(actUpdateEvent, id, func(ctx context.Context) (any, error) {
		return c.UpdateEvent(ctx, id, req)
	})
}

func (e *Events) RequestRemove(ev model.Event) {
	e.pending = &Removal{ID: ev.ID, Label: ev.Title}
}

func (e *Events) DismissRemove() { e.pending = nil }
func (e *Events) PendingRemoval() *Removal { return e.pending }

// ConfirmRemove issues the single DELETE for the pending event.
func (e *Events) ConfirmRemove() tea.Cmd {
	if e.pending == nil {
		return nil
	}
	id := e.pending.ID
	e.pending = nil
	c := e.env.Client
	return e.act(actDeleteEvent, id, func(ctx context.Context) (any, error) {
		return c.DeleteEvent(ctx, id)
	})
}
