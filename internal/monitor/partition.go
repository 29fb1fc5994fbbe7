package monitor

import "fmt"

// Range is a half-open span [Start, End) of table indices owned by one worker.
type Range struct {
	Start int
	End   int
}

// Len returns the number of nodes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Partition splits n nodes into min(n, workers) contiguous ranges whose
// sizes differ by at most one. Larger ranges come first.
func Partition(n, workers int) []Range {
	if n <= 0 || workers <= 0 {
		return nil
	}

	k := min(n, workers)
	base, extra := n/k, n%k

	ranges := make([]Range, k)
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}
	return ranges
}

// ValidateRanges checks that ranges cover every index in [0, n) exactly once.
// The Poller relies on this to write samples without locks.
func ValidateRanges(ranges []Range, n int) error {
	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}

	for w, r := range ranges {
		if r.Start < 0 || r.End > n || r.Start >= r.End {
			return fmt.Errorf("range %d [%d,%d) is empty or outside [0,%d)", w, r.Start, r.End, n)
		}
		for i := r.Start; i < r.End; i++ {
			if owner[i] != -1 {
				return fmt.Errorf("index %d is owned by ranges %d and %d", i, owner[i], w)
			}
			owner[i] = w
		}
	}

	for i, w := range owner {
		if w == -1 {
			return fmt.Errorf("index %d is not covered by any range", i)
		}
	}
	return nil
}
