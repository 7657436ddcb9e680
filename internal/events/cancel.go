package events

import (
	"sync"
	"sync/atomic"
)

// CancelFlag carries two independent signals under one handle, both
// safe to use from the zero value:
//
//   - Cancel/Cancelled is a monotone false->true boolean the walker polls
//     at each result step to stop visiting new directories early. Setting
//     it does not imply anyone stopped reading the event channel: a
//     SIGINT-driven cancel during --print still lets the walker emit its
//     final SearchDone, which --print is still around to receive.
//   - Abandon/Done is a separate close-once broadcast for "nothing will
//     ever read the event channel again" (the TUI quitting). Producers
//     blocked on a channel send select on Done() so an abandoned send
//     wakes up and exits instead of leaking until process exit.
type CancelFlag struct {
	flag atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

// Cancel sets the flag. Safe to call more than once or concurrently. It
// does not close Done; see Abandon for that.
func (c *CancelFlag) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool {
	return c.flag.Load()
}

// Abandon closes Done, signalling that the event-channel consumer is gone
// for good. Safe to call more than once or concurrently.
func (c *CancelFlag) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		c.done = make(chan struct{})
	}
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// Done returns a channel that is closed once Abandon has been called.
func (c *CancelFlag) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		c.done = make(chan struct{})
	}
	return c.done
}
