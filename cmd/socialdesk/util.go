package main

import (
	"time"

	"github.com/dustin/go-humanize"

	"socialdesk/internal/console"
	"socialdesk/internal/model"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

func comma(n int) string { return humanize.Comma(int64(n)) }

func sortedPosts(posts []model.Post, loc *time.Location) []model.Post {
	out := append([]model.Post(nil), posts...)
	console.NewestFirst(out, loc)
	return out
}
