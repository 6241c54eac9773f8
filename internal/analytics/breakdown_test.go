package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialdesk/internal/model"
)

func samplePosts() []model.Post {
	return []model.Post{
		{ID: "1", Platform: "twitter", Status: "scheduled", ScheduledTime: "2025-03-14T15:30:00Z"},
		{ID: "2", Platform: "devto", Status: "scheduled", ScheduledTime: "2025-03-14T18:00:00Z"},
		{ID: "3", Platform: "twitter", Status: "published", ScheduledTime: "2025-03-13T09:00:00Z"},
		{ID: "4", Platform: "linkedin", Status: "scheduled", ScheduledTime: "someday"},
	}
}

func TestPostsByPlatform(t *testing.T) {
	got := PostsByPlatform(samplePosts())
	require.Len(t, got, 3)
	assert.Equal(t, Count{Key: "twitter", N: 2}, got[0])
	// ties are ordered by key
	assert.Equal(t, "devto", got[1].Key)
	assert.Equal(t, "linkedin", got[2].Key)
}

func TestPostsByStatus(t *testing.T) {
	got := PostsByStatus(samplePosts())
	assert.Equal(t, []Count{{Key: "scheduled", N: 3}, {Key: "published", N: 1}}, got)
}

func TestCommentsByClassification(t *testing.T) {
	got := CommentsByClassification([]model.Comment{
		{Classification: "question"}, {Classification: ""}, {Classification: "question"},
	})
	assert.Equal(t, []Count{{Key: "question", N: 2}, {Key: "unclassified", N: 1}}, got)
	assert.Empty(t, CommentsByClassification(nil))
}

func TestUpcomingWithin(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, UpcomingWithin(samplePosts(), now, 24*time.Hour))
	assert.Equal(t, 1, UpcomingWithin(samplePosts(), now, 4*time.Hour))
}

func TestPostsPerDay(t *testing.T) {
	m := PostsPerDay(samplePosts(), time.UTC)
	days := SortedDays(m)
	require.Len(t, days, 2)
	assert.Equal(t, 13, days[0].Day())
	assert.Equal(t, 2, m[days[1]])
}
