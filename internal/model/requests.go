package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxPromptLength bounds the natural-language schedule prompt, in runes.
const MaxPromptLength = 500

// SchedulePostRequest asks the backend to draft and schedule posts.
type SchedulePostRequest struct {
	Prompt    string   `json:"prompt"`
	Platforms []string `json:"platforms"`
}

func (r SchedulePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.By(notBlank), validation.RuneLength(0, MaxPromptLength)),
		validation.Field(&r.Platforms, validation.Required, validation.Each(validation.In(platformValues()...))),
	)
}

// UpdatePostRequest carries only the fields that changed.
type UpdatePostRequest struct {
	NewContent *string `json:"new_content,omitempty"`
	NewTime    *string `json:"new_time,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	if r.NewContent == nil && r.NewTime == nil {
		return errors.New("nothing to update")
	}
	return nil
}

// RespondRequest is the body of POST /comments/{id}/respond.
type RespondRequest struct {
	ResponseText string `json:"response_text"`
}

func (r RespondRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResponseText, validation.By(notBlank)),
	)
}

// EventRequest is used for both create and update of events.
type EventRequest struct {
	Title            string `json:"title"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Description      string `json:"description"`
	RegistrationLink string `json:"registration_link"`
	IsRecorded       string `json:"is_recorded"`
}

// NewEventRequest returns an empty form with the backend's default flag.
func NewEventRequest() EventRequest { return EventRequest{IsRecorded: "No"} }

// EventRequestFrom seeds an edit form from an existing event. The backend may
// send "2025-03-14 00:00:00" style dates and "10:00:00" style times; only the
// first token is editable and seconds are dropped.
func EventRequestFrom(e Event) EventRequest {
	return EventRequest{
		Title:            e.Title,
		Date:             firstToken(e.Date),
		Time:             clockHM(firstToken(e.Time)),
		Description:      e.Description,
		RegistrationLink: e.RegistrationLink,
		IsRecorded:       e.IsRecorded,
	}
}

func (r EventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(notBlank)),
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Time, validation.Required, validation.By(clockValue)),
		validation.Field(&r.RegistrationLink, is.URL),
		validation.Field(&r.IsRecorded, validation.In("Yes", "No")),
	)
}

// AIResponseRequest creates a response template.
type AIResponseRequest struct {
	TriggerType  string `json:"TriggerType"`
	KeywordMatch string `json:"KeywordMatch"`
	ResponseText string `json:"ResponseText"`
}

func (r AIResponseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TriggerType, validation.By(notBlank)),
		validation.Field(&r.ResponseText, validation.By(notBlank)),
	)
}

// MonitorRequest triggers a manual comment sweep for one published post.
type MonitorRequest struct {
	PostID         string `json:"post_id"`
	Platform       string `json:"platform"`
	PlatformPostID string `json:"platform_post_id"`
}

func (r MonitorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required),
		validation.Field(&r.Platform, validation.Required, validation.In(platformValues()...)),
		validation.Field(&r.PlatformPostID, validation.Required),
	)
}

// MessageResponse is the confirmation body of deletes and responds.
type MessageResponse struct {
	Message string `json:"message"`
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func platformValues() []interface{} {
	out := make([]interface{}, len(KnownPlatforms))
	for i, p := range KnownPlatforms {
		out[i] = p
	}
	return out
}

// clockHM trims an HH:MM:SS value to HH:MM; anything else is returned as is.
func clockHM(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04")
	}
	return s
}

// clockValue accepts HH:MM and HH:MM:SS.
func clockValue(value interface{}) error {
	s, _ := value.(string)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return errors.New("must be a time as HH:MM")
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
