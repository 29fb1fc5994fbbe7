// Package parsers turns the text of Linux kernel pseudo-files into counters.
//
// Every parser here is stateless and tolerant of extra fields: it fails only
// when the minimum fields it needs cannot be extracted.
package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoData is returned when a line or block does not carry the fields a
// parser needs.
var ErrNoData = errors.New("no data")

// CPUTicks holds the aggregate CPU time counters from the first /proc/stat
// line. Units are opaque kernel ticks; only deltas are meaningful.
type CPUTicks struct {
	User   uint64
	Nice   uint64
	System uint64
	Idle   uint64
}

// Busy returns the non-idle ticks.
func (c CPUTicks) Busy() uint64 {
	return c.User + c.Nice + c.System
}

// Total returns busy plus idle ticks.
func (c CPUTicks) Total() uint64 {
	return c.Busy() + c.Idle
}

// ParseCPULine parses a line of the form "cpu  <user> <nice> <system> <idle> ...".
// The label is not interpreted. Fields after idle (iowait, irq, ...) are ignored.
func ParseCPULine(line string) (CPUTicks, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return CPUTicks{}, fmt.Errorf("%w: cpu line has %d fields, want at least 5", ErrNoData, len(fields))
	}

	var vals [4]uint64
	for i := range vals {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return CPUTicks{}, fmt.Errorf("%w: cpu field %d: %v", ErrNoData, i+1, err)
		}
		vals[i] = v
	}

	return CPUTicks{
		User:   vals[0],
		Nice:   vals[1],
		System: vals[2],
		Idle:   vals[3],
	}, nil
}
