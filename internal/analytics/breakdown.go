// Package analytics derives the dashboard breakdowns from the collections the
// console already holds. Nothing here talks to the backend.
package analytics

import (
	"sort"
	"time"

	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
)

// Count is one labelled tally.
type Count struct {
	Key string
	N   int
}

// PostsByPlatform tallies posts per platform, largest first.
func PostsByPlatform(posts []model.Post) []Count {
	keys := make([]string, len(posts))
	for i, p := range posts {
		keys[i] = p.Platform
	}
	return tally(keys)
}

func PostsByStatus(posts []model.Post) []Count {
	keys := make([]string, len(posts))
	for i, p := range posts {
		keys[i] = p.Status
	}
	return tally(keys)
}

// CommentsByClassification tallies comments by the backend's classifier label.
// Unlabelled comments are counted under "unclassified".
func CommentsByClassification(comments []model.Comment) []Count {
	keys := make([]string, len(comments))
	for i, c := range comments {
		keys[i] = c.Classification
		if keys[i] == "" {
			keys[i] = "unclassified"
		}
	}
	return tally(keys)
}

// UpcomingWithin counts posts whose scheduled time falls in [now, now+window).
// Posts with an unparseable time are skipped.
func UpcomingWithin(posts []model.Post, now time.Time, window time.Duration) int {
	end := now.Add(window)
	n := 0
	for _, p := range posts {
		t, err := schedule.Parse(p.ScheduledTime, time.UTC)
		if err != nil {
			continue
		}
		if !t.Before(now) && t.Before(end) {
			n++
		}
	}
	return n
}

// PostsPerDay buckets posts by calendar day in loc.
func PostsPerDay(posts []model.Post, loc *time.Location) map[time.Time]int {
	buckets := make(map[time.Time]int)
	for _, p := range posts {
		t, err := schedule.Parse(p.ScheduledTime, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		buckets[time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)]++
	}
	return buckets
}

// SortedDays returns the bucket keys in ascending order.
func SortedDays(m map[time.Time]int) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

func tally(keys []string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, k := range keys {
		if i, ok := idx[k]; ok {
			out[i].N++
			continue
		}
		idx[k] = len(out)
		out = append(out, Count{Key: k, N: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Key < out[j].Key
	})
	return out
}
