// Package jobs runs the headless watch loop: the console's polling refresh
// without a terminal UI, reporting comments that arrived since the last pass.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialdesk/internal/logging"
	"socialdesk/internal/metrics"
	"socialdesk/internal/model"
	"socialdesk/internal/schedule"
)

const cursorKey = "watch:last_ts"

// Source is the slice of the backend client a watch pass needs.
type Source interface {
	Stats(ctx context.Context) (model.Stats, error)
	ListPendingComments(ctx context.Context) ([]model.Comment, error)
}

// StateStore persists the watch cursor between runs.
type StateStore interface {
	LoadState(ctx context.Context, key string) (string, error)
	SaveState(ctx context.Context, key, value string) error
}

// Snapshot is what one pass observed.
type Snapshot struct {
	Since   time.Time
	At      time.Time
	Stats   model.Stats
	Pending []model.Comment
	// Fresh holds pending comments timestamped after Since. Comments whose
	// timestamp cannot be parsed are always treated as fresh.
	Fresh []model.Comment
}

// WatchOnce fetches stats and pending comments and advances the cursor. The
// first pass looks back over horizon.
func WatchOnce(ctx context.Context, src Source, store StateStore, horizon time.Duration, now time.Time) (Snapshot, error) {
	snap := Snapshot{Since: now.Add(-horizon), At: now}
	if store != nil {
		if v, err := store.LoadState(ctx, cursorKey); err == nil && v != "" {
			if ts, err2 := time.Parse(time.RFC3339Nano, v); err2 == nil {
				snap.Since = ts
			}
		}
	}
	start := time.Now()
	stats, err := src.Stats(ctx)
	if err != nil {
		metrics.IncRefresh("watch", false)
		return snap, err
	}
	pending, err := src.ListPendingComments(ctx)
	if err != nil {
		metrics.IncRefresh("watch", false)
		return snap, err
	}
	metrics.IncRefresh("watch", true)
	metrics.PendingComments.Set(float64(stats.PendingComments))
	snap.Stats = stats
	snap.Pending = pending
	for _, c := range pending {
		ts, err := schedule.Parse(c.Timestamp, time.UTC)
		if err != nil || ts.After(snap.Since) {
			snap.Fresh = append(snap.Fresh, c)
		}
	}
	if store != nil {
		if err := store.SaveState(ctx, cursorKey, now.UTC().Format(time.RFC3339Nano)); err != nil {
			logging.Warn("watch_cursor_save_failed", map[string]any{"error": err.Error()})
		}
	}
	logging.Info("watch_once", map[string]any{
		"since": snap.Since, "pending": len(pending), "fresh": len(snap.Fresh), "took_ms": time.Since(start).Milliseconds(),
	})
	return snap, nil
}

// ErrInterval is returned for a non-positive loop interval.
var ErrInterval = errors.New("watch interval must be positive")

// RunWatchLoop runs fn immediately and then on every interval until ctx is
// cancelled. A failing pass is logged and the loop carries on.
func RunWatchLoop(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInterval, interval)
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	if err := fn(ctx); err != nil {
		logging.Error("watch_once_error", map[string]any{"error": err.Error()})
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("watch_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if err := fn(ctx); err != nil {
				logging.Error("watch_once_error", map[string]any{"error": err.Error()})
			}
		}
	}
}
