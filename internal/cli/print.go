package cli

import (
	"fmt"
	"os"

	"github.com/projclean/projclean/internal/events"
)

// runPrint drains the event channel and prints each discovered path's
// absolute form, one per line, until SearchDone. It is the non-interactive
// analogue of the TUI list view named by spec.md §6's -P/--print flag.
func runPrint(ch <-chan events.Event) error {
	for e := range ch {
		if item, ok := e.IsAddPath(); ok {
			fmt.Println(item.AbsPath)
			continue
		}
		if msg, ok := e.IsError(); ok {
			fmt.Fprintln(os.Stderr, msg)
			continue
		}
		if e.IsSearchDone() {
			return nil
		}
	}
	return nil
}
