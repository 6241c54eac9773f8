package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/model"
	"socialdesk/internal/notify"
)

const actSchedulePost = "schedule_post"

// SchedulePost is the prompt form that asks the backend to draft and schedule
// posts. After a successful submit it shows the result until NewPost.
type SchedulePost struct {
	base
	form       model.SchedulePostRequest
	submitting bool
	result     *model.ScheduleResult
}

func NewSchedulePost(env Env) *SchedulePost {
	return &SchedulePost{base: newBase(env, PageSchedulePost, false), form: defaultScheduleForm()}
}

func defaultScheduleForm() model.SchedulePostRequest {
	return model.SchedulePostRequest{Platforms: []string{"devto"}}
}

func (s *SchedulePost) Mount() tea.Cmd {
	s.submitting = false
	return s.mount()
}

func (s *SchedulePost) Update(msg tea.Msg) tea.Cmd {
	res, cmd := s.route(msg, func() tea.Cmd { return nil })
	if res == nil || res.action != actSchedulePost {
		return cmd
	}
	s.submitting = false
	if res.err != nil {
		return s.fail(res.err)
	}
	r, _ := res.value.(model.ScheduleResult)
	s.result = &r
	s.form.Prompt = ""
	return s.notify("Post scheduled successfully", notify.Success)
}

func (s *SchedulePost) Form() model.SchedulePostRequest { return s.form }
func (s *SchedulePost) SetPrompt(p string) { s.form.Prompt = p }
func (s *SchedulePost) Submitting() bool { return s.submitting }

// Result is the last successful schedule result, or nil while in form mode.
func (s *SchedulePost) Result() *model.ScheduleResult { return s.result }

// TogglePlatform adds or removes a platform, keeping display order.
func (s *SchedulePost) TogglePlatform(platform string) {
	on := make(map[string]bool, len(s.form.Platforms))
	for _, p := range s.form.Platforms {
		on[p] = true
	}
	on[platform] = !on[platform]
	var out []string
	for _, p := range model.KnownPlatforms {
		if on[p] {
			out = append(out, p)
		}
	}
	s.form.Platforms = out
}

// Submit validates the form and sends it. Submitting again while a request is
// outstanding is a no-op.
func (s *SchedulePost) Submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	req := s.form
	if err := req.Validate(); err != nil {
		return s.fail(err)
	}
	s.submitting = true
	s.result = nil
	c := s.env.Client
	return s.act(actSchedulePost, "", func(ctx context.Context) (any, error) {
		r, err := c.SchedulePost(ctx, req)
		if err == nil {
			err = r.Err()
		}
		return r, err
	})
}

// NewPost returns to an empty form.
func (s *SchedulePost) NewPost() {
	s.result = nil
	s.form = defaultScheduleForm()
}
