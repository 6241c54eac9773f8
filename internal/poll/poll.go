// Package poll drives the fixed-interval refresh of a console page.
package poll

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is how often a mounted page re-fetches its collections.
const DefaultInterval = 30 * time.Second

// TickMsg fires when a refresher's interval elapses.
type TickMsg struct {
	Page string
	Gen  uint64
}

var genCounter atomic.Uint64

// Refresher re-arms a tick every Interval while running. Stopping it bumps the
// generation, so ticks already in flight are ignored. There is no backoff and
// no de-duplication against a refresh that is still outstanding.
type Refresher struct {
	Page     string
	Interval time.Duration
	// Tick builds the timer command; tests swap it for an immediate one.
	Tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	gen     uint64
	running bool
}

func New(page string, interval time.Duration) *Refresher {
	return &Refresher{Page: page, Interval: interval, Tick: tea.Tick}
}

// Start begins polling. An interval <= 0 leaves the refresher idle.
func (r *Refresher) Start() tea.Cmd {
	r.gen = genCounter.Add(1)
	r.running = r.Interval > 0
	return r.Next()
}

// Next arms the following tick.
func (r *Refresher) Next() tea.Cmd {
	if !r.running {
		return nil
	}
	page, gen := r.Page, r.gen
	return r.Tick(r.Interval, func(time.Time) tea.Msg { return TickMsg{Page: page, Gen: gen} })
}

// Accept reports whether msg belongs to the current polling run.
func (r *Refresher) Accept(msg TickMsg) bool {
	return r.running && msg.Page == r.Page && msg.Gen == r.gen
}

func (r *Refresher) Stop() {
	r.running = false
	r.gen = genCounter.Add(1)
}

func (r *Refresher) Running() bool { return r.running }
