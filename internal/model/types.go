package model

import (
	"errors"
	"sort"
)

// Post statuses as reported by the backend.
const (
	PostScheduled = "Scheduled"
	PostPublished = "Published"
	PostFailed    = "Failed"
)

// Comment response statuses.
const (
	CommentPending   = "Pending"
	CommentResponded = "Responded"
	CommentFailed    = "Failed"
)

// Post is a scheduled social media post. ScheduledTime is kept exactly as the
// backend sent it; see package schedule for parsing.
type Post struct {
	ID             string `json:"post_id"`
	Platform       string `json:"platform"`
	ScheduledTime  string `json:"scheduled_time"`
	ContentPreview string `json:"content_preview"`
	CampaignTag    string `json:"campaign_tag"`
	EventTitle     string `json:"event_title,omitempty"`
	Status         string `json:"status"`
}

// Comment is an ingested comment on one of our posts.
type Comment struct {
	ID             string `json:"comment_id"`
	PostID         string `json:"post_id"`
	Platform       string `json:"platform"`
	UserName       string `json:"user_name"`
	Text           string `json:"comment_text"`
	Classification string `json:"classification"`
	Timestamp      string `json:"timestamp"`
	ResponseStatus string `json:"response_status"`
}

// Event is a campaign event posts can be matched against.
type Event struct {
	ID               string `json:"event_id"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Description      string `json:"description"`
	RegistrationLink string `json:"registration_link,omitempty"`
	IsRecorded       string `json:"is_recorded"`
}

// Stats is the dashboard snapshot.
type Stats struct {
	TotalPosts      int `json:"total_posts"`
	ScheduledPosts  int `json:"scheduled_posts"`
	PublishedPosts  int `json:"published_posts"`
	TotalComments   int `json:"total_comments"`
	PendingComments int `json:"pending_comments"`
	TotalEvents     int `json:"total_events"`
}

// AIResponse is a canned reply template the backend uses for comments.
type AIResponse struct {
	ResponseID   string `json:"ResponseID"`
	TriggerType  string `json:"TriggerType"`
	KeywordMatch string `json:"KeywordMatch"`
	ResponseText string `json:"ResponseText"`
}

// ScheduledPost is one platform entry of a schedule result.
type ScheduledPost struct {
	PostID        string `json:"post_id"`
	Content       string `json:"content"`
	ScheduledTime string `json:"scheduled_time"`
}

// EventSummary is the event the backend generated or attached to a post.
type EventSummary struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// EventMatch explains which existing event the prompt was matched to.
type EventMatch struct {
	MatchedEventTitle string  `json:"matched_event_title,omitempty"`
	Confidence        float64 `json:"confidence,omitempty"`
	Reasoning         string  `json:"reasoning,omitempty"`
}

// ScheduleResult is the response of POST /schedule-post.
type ScheduleResult struct {
	Success        bool                     `json:"success"`
	Immediate      bool                     `json:"immediate"`
	Message        string                   `json:"message,omitempty"`
	ScheduledPosts map[string]ScheduledPost `json:"scheduled_posts,omitempty"`
	Event          *EventSummary            `json:"event,omitempty"`
	EventMatching  *EventMatch              `json:"event_matching,omitempty"`
}

// Err reports a result the backend answered with success false. The backend's
// message is used when it sent one.
func (r ScheduleResult) Err() error {
	if r.Success {
		return nil
	}
	if r.Message != "" {
		return errors.New(r.Message)
	}
	return errors.New("Failed to schedule post")
}

// Platforms returns the platform keys of the result in display order.
func (r ScheduleResult) Platforms() []string {
	out := make([]string, 0, len(r.ScheduledPosts))
	for _, p := range KnownPlatforms {
		if _, ok := r.ScheduledPosts[p]; ok {
			out = append(out, p)
		}
	}
	var extra []string
	for p := range r.ScheduledPosts {
		if !IsKnownPlatform(p) {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// MonitorResult is whatever the manual comment monitor reports back.
type MonitorResult map[string]any
