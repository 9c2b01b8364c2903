package emucam

import "time"

// Clock drives session timing: the startup latency and the frame ticker.
// The default wall clock delegates to the runtime timers; tests can install
// a manual clock with WithClock and step framesets deterministically.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker a session uses.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (wallClock) NewTicker(d time.Duration) Ticker { return &wallTicker{time.NewTicker(d)} }

type wallTicker struct {
	t *time.Ticker
}

func (t *wallTicker) Chan() <-chan time.Time { return t.t.C }

func (t *wallTicker) Stop() { t.t.Stop() }
