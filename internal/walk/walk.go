// Package walk implements the parallel, project-aware directory traversal:
// it runs the Matcher over every visited directory, prunes subtrees at
// matched triggers, resolves nested purge paths, applies the age/size
// filters, and emits results on the shared event stream.
package walk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/projclean/projclean/internal/config"
	"github.com/projclean/projclean/internal/events"
	"github.com/projclean/projclean/internal/match"
	"github.com/projclean/projclean/internal/size"
)

// ScanError reports an unrecoverable walker failure, such as a resolved
// target path that cannot be expressed relative to the scan root. It is
// the Go realization of spec.md's ScanError taxonomy member.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Walker performs one scan of a directory tree under a shared
// configuration, emitting events as targets are discovered.
type Walker struct {
	cfg    *config.Config
	events chan<- events.Event
	cancel *events.CancelFlag
}

// New returns a Walker that reports to emit and observes cancel.
func New(cfg *config.Config, emit chan<- events.Event, cancel *events.CancelFlag) *Walker {
	return &Walker{cfg: cfg, events: emit, cancel: cancel}
}

// Walk traverses the tree rooted at root. It always emits exactly one
// SearchDone as its final event, whether the scan ran to completion, was
// cancelled, or aborted on a ScanError. The returned error, when non-nil,
// is always a *ScanError.
func (w *Walker) Walk(ctx context.Context, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		scanErr := &ScanError{Path: root, Err: err}
		w.emit(events.NewError(scanErr.Error()))
		w.emit(events.NewSearchDone())
		return scanErr
	}

	if _, err := os.ReadDir(absRoot); err != nil {
		scanErr := &ScanError{Path: absRoot, Err: err}
		w.emit(events.NewError(scanErr.Error()))
		w.emit(events.NewSearchDone())
		return scanErr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	g.Go(func() error { return w.visitDir(gctx, g, absRoot, absRoot) })

	scanErr := g.Wait()

	if scanErr != nil {
		var se *ScanError
		if !errors.As(scanErr, &se) {
			se = &ScanError{Path: absRoot, Err: scanErr}
		}
		w.emit(events.NewError(se.Error()))
		w.emit(events.NewSearchDone())
		return se
	}
	w.emit(events.NewSearchDone())
	return nil
}

// visitDir runs the Matcher over one directory's sibling list, emits
// results for matched triggers, and fans out one goroutine per
// non-matched, non-excluded subdirectory while the group has a free slot,
// visiting the subdirectory inline on the current goroutine otherwise (a
// blocking g.Go here could wait forever on slots held by its own
// ancestors). Symlinked directory entries are
// never descended into: os.DirEntry.IsDir() reports false for a symlink
// regardless of what it points to, so the default "do not follow
// symlinks" policy falls out of using DirEntry.Type() directly rather than
// a policy the walker has to enforce itself.
func (w *Walker) visitDir(ctx context.Context, g *errgroup.Group, root, dir string) error {
	if w.cancel.Cancelled() {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	m := match.New(w.cfg)
	for _, e := range entries {
		m.Ingest(e.Name(), e.Type().IsRegular())
	}
	decisions := m.Finalize()

	for _, e := range entries {
		if w.cancel.Cancelled() {
			return nil
		}

		name := e.Name()
		if target, ok := decisions[name]; ok {
			if err := w.resolveAndEmit(root, dir, target); err != nil {
				return err
			}
			continue
		}

		if e.IsDir() && !w.cfg.IsExcluded(name) {
			child := filepath.Join(dir, name)
			visit := func() error { return w.visitDir(ctx, g, root, child) }
			if !g.TryGo(visit) {
				if err := visit(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// resolveAndEmit resolves every purge path carried by a matched trigger,
// applies the age/size filters, and emits AddPath for each survivor.
func (w *Walker) resolveAndEmit(root, dir string, target match.Target) error {
	for _, purgePath := range target.PurgePaths {
		full := filepath.Join(dir, filepath.FromSlash(purgePath))

		info, err := os.Stat(full)
		if err != nil {
			continue
		}

		ageDays := ceilingDays(time.Since(info.ModTime()))
		if w.cfg.Age != nil && !w.cfg.Age.Satisfies(ageDays) {
			continue
		}

		bytes := size.Sum(context.Background(), full)
		if w.cfg.Size != nil && !w.cfg.Size.Satisfies(bytes) {
			continue
		}

		rel, err := filepath.Rel(root, full)
		if err != nil {
			return &ScanError{Path: full, Err: err}
		}

		w.emit(events.NewAddPath(events.PathItem{
			AbsPath: full,
			RelPath: filepath.ToSlash(rel),
			RuleID:  target.RuleID,
			Age:     durationPtr(time.Duration(ageDays) * 24 * time.Hour),
			Size:    int64Ptr(bytes),
			State:   events.Normal,
		}))
	}
	return nil
}

// ceilingDays converts a duration into whole ceiling-days, so that
// "-t +30" means strictly older than 30 whole days.
func ceilingDays(d time.Duration) int64 {
	days := d.Hours() / 24
	return int64(math.Ceil(days))
}

// emit sends e on the shared event channel, or drops it if the consumer has
// abandoned it (cancel.Done closed by cancel.Abandon). Without the select, a
// quit TUI could leave this goroutine blocked forever on a full channel that
// nothing is ever going to drain again.
func (w *Walker) emit(e events.Event) {
	select {
	case w.events <- e:
	case <-w.cancel.Done():
	}
}

func durationPtr(d time.Duration) *time.Duration { return &d }
func int64Ptr(n int64) *int64                    { return &n }
