package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// MemInfo is the subset of /proc/meminfo the engine reads, in kilobytes.
// These are instantaneous values, not cumulative counters.
type MemInfo struct {
	Total   uint64
	Free    uint64
	Buffers uint64
	Cached  uint64
}

// Used returns Total minus Free, Buffers and Cached, floored at zero.
func (m MemInfo) Used() uint64 {
	reclaimable := m.Free + m.Buffers + m.Cached
	if reclaimable >= m.Total {
		return 0
	}
	return m.Total - reclaimable
}

const (
	seenTotal uint8 = 1 << iota
	seenFree
	seenBuffers
	seenCached

	seenAll = seenTotal | seenFree | seenBuffers | seenCached
)

// MemInfoScanner accumulates meminfo keys line by line. Keys may arrive in
// any order; scanning is complete once Cached has been seen.
type MemInfoScanner struct {
	info MemInfo
	seen uint8
}

// Feed offers one line to the scanner and reports whether the block is
// complete. Lines that are not "<Key>: <integer> [kB]" are ignored.
func (s *MemInfoScanner) Feed(line string) bool {
	key, rest, ok := strings.Cut(line, ":")
	if !ok {
		return false
	}
	key = strings.TrimSpace(key)

	var dst *uint64
	var bit uint8
	switch key {
	case "MemTotal":
		dst, bit = &s.info.Total, seenTotal
	case "MemFree":
		dst, bit = &s.info.Free, seenFree
	case "Buffers":
		dst, bit = &s.info.Buffers, seenBuffers
	case "Cached":
		dst, bit = &s.info.Cached, seenCached
	default:
		return false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}
	v, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return false
	}
	*dst = v
	s.seen |= bit

	return bit == seenCached
}

// Result returns the accumulated values, or ErrNoData naming the keys that
// never appeared.
func (s *MemInfoScanner) Result() (MemInfo, error) {
	if s.seen == seenAll {
		return s.info, nil
	}
	var missing []string
	for _, k := range []struct {
		bit  uint8
		name string
	}{
		{seenTotal, "MemTotal"},
		{seenFree, "MemFree"},
		{seenBuffers, "Buffers"},
		{seenCached, "Cached"},
	} {
		if s.seen&k.bit == 0 {
			missing = append(missing, k.name)
		}
	}
	return MemInfo{}, fmt.Errorf("%w: meminfo missing %s", ErrNoData, strings.Join(missing, ", "))
}
