package cli

import (
	"fmt"
	"os"

	"github.com/projclean/projclean/internal/events"
	"github.com/projclean/projclean/internal/purge"
)

// runDeleteAll drains AddPath events until SearchDone, printing each found
// path to standard output, dispatches every collected item to the delete
// pool in one batch, and reports each outcome as it arrives: a successful
// removal as a "deleted: <path>" line on standard output, a failure on
// standard error. This realizes spec.md §4.6's "delete all
// bulk operation... exposed to a non-interactive sink that drains AddPath
// events and dispatches each directly."
func runDeleteAll(ch <-chan events.Event, pool *purge.Pool) error {
	var pending []events.PathItem
	var dispatched bool
	var outcomes int

	for e := range ch {
		if item, ok := e.IsAddPath(); ok {
			fmt.Println(item.AbsPath)
			if !dispatched {
				pending = append(pending, item)
			}
			continue
		}

		if e.IsSearchDone() && !dispatched {
			dispatched = true
			pool.DispatchAll(pending)
			if len(pending) == 0 {
				return nil
			}
			continue
		}

		if path, ok := e.IsPathDeleted(); ok {
			fmt.Printf("deleted: %s\n", path)
			outcomes++
		} else if msg, ok := e.IsError(); ok {
			fmt.Fprintln(os.Stderr, msg)
			if dispatched {
				outcomes++
			}
		}

		if dispatched && outcomes >= len(pending) {
			return nil
		}
	}
	return nil
}
