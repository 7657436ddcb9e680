// Package purge implements the bounded delete worker pool: it accepts
// dispatch requests for PathItems discovered by the walker, guards against
// double-dispatch of the same path, and performs the actual recursive
// removal off of the caller's goroutine.
package purge

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/projclean/projclean/internal/events"
)

// Pool is a bounded pool of delete workers. Workers never block the walker
// and never share state with it beyond the event channel passed to New.
type Pool struct {
	events chan<- events.Event
	cancel *events.CancelFlag
	sem    chan struct{}

	mu       sync.Mutex
	inFlight map[uint64]struct{}
	wg       sync.WaitGroup
}

// New returns a Pool reporting PathDeleted/Error on emit, with concurrency
// bounded to runtime.GOMAXPROCS(0). cancel.Done() lets a worker abandon an
// outcome send once the consumer is gone, instead of blocking forever.
func New(emit chan<- events.Event, cancel *events.CancelFlag) *Pool {
	return &Pool{
		events:   emit,
		cancel:   cancel,
		sem:      make(chan struct{}, runtime.GOMAXPROCS(0)),
		inFlight: make(map[uint64]struct{}),
	}
}

// Dispatch requests removal of item. If item is not in the Normal state, or
// its size was never measured, the request is silently ignored. Otherwise
// the path is handed to a worker; the caller passes the item while it is
// still Normal and marks its own copy Deleting afterwards. Dispatch returns
// immediately: when every worker slot is busy the request waits for a slot
// on its own goroutine. The caller observes completion via the event stream.
func (p *Pool) Dispatch(item events.PathItem) {
	if item.State != events.Normal || item.Size == nil {
		return
	}

	key := pathKey(item.AbsPath)

	p.mu.Lock()
	if _, dup := p.inFlight[key]; dup {
		p.mu.Unlock()
		return
	}
	p.inFlight[key] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		defer func() {
			p.mu.Lock()
			delete(p.inFlight, key)
			p.mu.Unlock()
		}()

		p.remove(item.AbsPath)
	}()
}

// DispatchAll requests removal of every item in items whose state is
// Normal. This is the "delete all" bulk operation of the spec: it is
// equivalent to calling Dispatch once per currently-Normal item.
func (p *Pool) DispatchAll(items []events.PathItem) {
	for _, item := range items {
		p.Dispatch(item)
	}
}

// Wait blocks until every dispatched delete has completed and reported its
// outcome on the event channel. It does not close the channel.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) remove(path string) {
	if err := os.RemoveAll(path); err != nil {
		p.emit(events.NewError(fmt.Sprintf("delete %s: %v", path, err)))
		return
	}
	p.emit(events.NewPathDeleted(path))
}

// emit reports an outcome, or drops it if the consumer has abandoned the
// channel (cancel.Done closed by cancel.Abandon) rather than blocking this
// worker forever.
func (p *Pool) emit(e events.Event) {
	select {
	case p.events <- e:
	case <-p.cancel.Done():
	}
}

// pathKey hashes an absolute path into the in-flight dedup set. xxh3 is
// non-cryptographic and fast, which is all this needs: the dedup set only
// has to protect against the same consumer dispatching the same path twice
// before the first dispatch completes, not against adversarial collisions.
func pathKey(absPath string) uint64 {
	return xxh3.HashString(absPath)
}
