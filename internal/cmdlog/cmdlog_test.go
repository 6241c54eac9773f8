package cmdlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialdesk/internal/logging"
	"socialdesk/internal/store/journal"
)

func TestRecordWritesJournal(t *testing.T) {
	logging.Setup(logging.Options{Discard: true})
	db, err := journal.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, Record(ctx, db, "posts_edit", "p1", func() error { return nil }))
	boom := errors.New("Post not found")
	assert.ErrorIs(t, Record(ctx, db, "events_delete", "e9", func() error { return boom }), boom)

	got, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byAction := map[string]journal.Entry{}
	for _, e := range got {
		byAction[e.Action] = e
	}
	assert.True(t, byAction["posts_edit"].OK)
	assert.Equal(t, "cli", byAction["posts_edit"].Source)
	assert.False(t, byAction["events_delete"].OK)
	assert.Equal(t, "Post not found", byAction["events_delete"].Message)
}

func TestRunWithoutJournal(t *testing.T) {
	assert.NoError(t, Run("stats", func() error { return nil }))
}

type entryLog []journal.Entry

func (l *entryLog) Record(ctx context.Context, e journal.Entry) error {
	*l = append(*l, e)
	return nil
}

func TestRecordUsesJournalRecorder(t *testing.T) {
	var rec journal.Recorder = &entryLog{}
	require.NoError(t, Record(context.Background(), rec, "respond_comment", "c1", func() error { return nil }))
	got := *rec.(*entryLog)
	require.Len(t, got, 1)
	assert.Equal(t, "respond_comment", got[0].Action)
	assert.Equal(t, "cli", got[0].Source)
	assert.True(t, got[0].OK)
}
