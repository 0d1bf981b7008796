package services

import (
	"cmp"
	"slices"
	"strings"
)

// Sort orders results in place.
//
// Keys, in order: length of the textual IP (absent sorts as 0, so results
// without an address come first, then IPv4, then IPv6), provider name, and
// elapsed time ascending. An untimed result (zero Elapsed) sorts before a
// timed one. The sort is stable.
//
// The length key does not tell a failed result apart from a successful one
// that carried no address; both sort as 0.
func Sort(results []Result) {
	slices.SortStableFunc(results, compareResults)
}

func compareResults(a, b Result) int {
	return cmp.Or(
		cmp.Compare(ipTextLen(a), ipTextLen(b)),
		strings.Compare(a.Provider, b.Provider),
		cmp.Compare(a.Elapsed, b.Elapsed),
	)
}

func ipTextLen(r Result) int {
	if !r.IP.IsValid() {
		return 0
	}
	return len(r.IP.String())
}
