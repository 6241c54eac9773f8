// Package cmdlog wraps one-shot CLI commands with metrics, a log line and,
// when a journal is open, a journal entry.
package cmdlog

import (
	"context"
	"time"

	"socialdesk/internal/logging"
	"socialdesk/internal/metrics"
	"socialdesk/internal/store/journal"
)

func Run(cmd string, f func() error) error {
	return Record(context.Background(), nil, cmd, "", f)
}

// Record runs f like Run and stores its outcome under cmd in rec. A nil rec
// skips the journal.
func Record(ctx context.Context, rec journal.Recorder, cmd, entityID string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	fields := map[string]any{"took_ms": time.Since(start).Milliseconds()}
	if entityID != "" {
		fields["id"] = entityID
	}
	msg := "ok"
	if err != nil {
		metrics.IncCommandError(cmd)
		msg = err.Error()
		fields["error"] = msg
		logging.Error(cmd+"_error", fields)
	} else {
		logging.Info(cmd+"_ok", fields)
	}
	if rec != nil {
		e := journal.Entry{Source: "cli", Action: cmd, EntityID: entityID, OK: err == nil, Message: msg}
		if jerr := rec.Record(ctx, e); jerr != nil {
			logging.Warn("journal_record_failed", map[string]any{"action": cmd, "error": jerr.Error()})
		}
	}
	return err
}
