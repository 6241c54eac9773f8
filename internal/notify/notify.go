// Package notify is the single-slot, self-expiring status line each console
// page owns. A new notification replaces the previous one; expiry is driven by
// a tick message carrying the sequence number it was armed for, so replacing or
// closing a notification cancels its pending clear.
package notify

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"socialdesk/internal/metrics"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3500 * time.Millisecond

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Notification is one visible message.
type Notification struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
	seq       uint64
}

// ExpiredMsg asks the owning surface to clear notification Seq.
type ExpiredMsg struct{ Seq uint64 }

// sequence numbers are unique across surfaces so a stray expiry routed to the
// wrong page can never clear that page's notification.
var seqCounter atomic.Uint64

// Surface holds at most one notification.
type Surface struct {
	ttl     time.Duration
	now     func() time.Time
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	current *Notification
}

func New(ttl time.Duration) *Surface {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Surface{ttl: ttl, now: time.Now, tick: tea.Tick}
}

// SetClock replaces the time source and the timer factory; nil keeps the
// current one.
func (s *Surface) SetClock(now func() time.Time, tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) {
	if now != nil {
		s.now = now
	}
	if tick != nil {
		s.tick = tick
	}
}

// Notify replaces the current notification and returns the command that
// expires it.
func (s *Surface) Notify(message string, sev Severity) tea.Cmd {
	seq := seqCounter.Add(1)
	s.current = &Notification{Message: message, Severity: sev, ExpiresAt: s.now().Add(s.ttl), seq: seq}
	metrics.IncNotification(string(sev))
	return s.tick(s.ttl, func(time.Time) tea.Msg { return ExpiredMsg{Seq: seq} })
}

// Current returns the visible notification, or nil. A notification past its
// expiry is hidden even if its ExpiredMsg has not arrived yet.
func (s *Surface) Current() *Notification {
	if s.current == nil {
		return nil
	}
	if !s.now().Before(s.current.ExpiresAt) {
		s.current = nil
		return nil
	}
	n := *s.current
	return &n
}

// Expire handles an ExpiredMsg. It reports whether the message belonged to the
// notification currently shown.
func (s *Surface) Expire(msg ExpiredMsg) bool {
	if s.current == nil || s.current.seq != msg.Seq {
		return false
	}
	s.current = nil
	return true
}

// Close drops the current notification; any in-flight expiry becomes a no-op.
func (s *Surface) Close() { s.current = nil }
