// Package humanize formats byte counts the way the scan result list
// displays them: a short, unit-suffixed approximation rather than a
// precise figure.
package humanize

import "fmt"

var units = [...]byte{'T', 'G', 'M', 'K'}

// Bytes renders n using the largest unit for which n is at least one whole
// unit, with one decimal place below 10 of that unit and none at or above
// it (e.g. "3.4M", "87M", "512K"). Zero renders as "0"; anything smaller
// than 1024 bytes renders as "<n>B".
func Bytes(n uint64) string {
	if n == 0 {
		return "0"
	}

	for i, u := range units {
		marker := uint64(1)
		for range len(units) - i {
			marker *= 1024
		}

		if n >= marker {
			if n/marker < 10 {
				return fmt.Sprintf("%.1f%c", float64(n)/float64(marker), u)
			}
			return fmt.Sprintf("%d%c", n/marker, u)
		}
	}

	return fmt.Sprintf("%dB", n)
}
