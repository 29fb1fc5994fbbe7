package monitor

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/ctop/internal/monitor/parsers"
)

// ErrInterfaceNotFound means the network block was read to the end without
// a line for the requested interface.
var ErrInterfaceNotFound = parsers.ErrInterfaceNotFound

// netLandmark appears in the first /proc/net/dev header line and nowhere in
// /proc/stat or /proc/meminfo.
const netLandmark = "Transmit"

// maxLineSize bounds a single line. The intr line of /proc/stat grows with
// the number of interrupt sources and passes 64 KiB on large hosts.
const maxLineSize = 4 << 20

// Snapshot is everything read from one remote stream.
type Snapshot struct {
	CPU    parsers.CPUTicks
	Mem    parsers.MemInfo
	Net    parsers.NetCounters
	Schema parsers.NetSchema
}

// Counters returns the snapshot as the engine's raw counter state.
func (s *Snapshot) Counters() Counters {
	return Counters{CPU: s.CPU, Mem: s.Mem, Net: s.Net}
}

type blockState int

const (
	seekingCPU blockState = iota
	seekingMemory
	seekingNetHeader
	readingNetSchema
	seekingNetData
	done
)

func (s blockState) String() string {
	switch s {
	case seekingCPU:
		return "seeking cpu"
	case seekingMemory:
		return "seeking memory"
	case seekingNetHeader:
		return "seeking network header"
	case readingNetSchema:
		return "reading network schema"
	case seekingNetData:
		return "seeking network data"
	case done:
		return "done"
	default:
		return "unknown"
	}
}

// snapshotParser walks the concatenated stat/meminfo/net-dev output one
// line at a time. Each state consumes lines until its block boundary.
type snapshotParser struct {
	iface string
	state blockState
	mem   parsers.MemInfoScanner
	snap  Snapshot
}

// ParseSnapshot reads r until the counters for iface are found. It stops
// reading as soon as it is done; the caller drains and closes the stream.
//
// Content problems wrap parsers.ErrNoData or ErrInterfaceNotFound. Any other
// error came from reading r.
func ParseSnapshot(r io.Reader, iface string) (*Snapshot, error) {
	p := &snapshotParser{iface: iface}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for p.state != done && scanner.Scan() {
		if err := p.feed(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if p.state != done {
		return nil, p.truncated()
	}
	return &p.snap, nil
}

func (p *snapshotParser) feed(line string) error {
	switch p.state {
	case seekingCPU:
		if strings.TrimSpace(line) == "" {
			return nil
		}
		cpu, err := parsers.ParseCPULine(line)
		if err != nil {
			return err
		}
		p.snap.CPU = cpu
		p.state = seekingMemory

	case seekingMemory:
		if !p.mem.Feed(line) {
			return nil
		}
		mem, err := p.mem.Result()
		if err != nil {
			return err
		}
		p.snap.Mem = mem
		p.state = seekingNetHeader

	case seekingNetHeader:
		if strings.Contains(line, netLandmark) {
			p.state = readingNetSchema
		}

	case readingNetSchema:
		p.snap.Schema = parsers.DetectNetSchema(line)
		p.state = seekingNetData

	case seekingNetData:
		name, counters, err := parsers.ParseNetDevLine(line, p.snap.Schema)
		if name != p.iface {
			return nil
		}
		if err != nil {
			return err
		}
		p.snap.Net = counters
		p.state = done
	}
	return nil
}

// truncated explains why the stream ended in the current state.
func (p *snapshotParser) truncated() error {
	switch p.state {
	case seekingCPU:
		return fmt.Errorf("%w: empty output", parsers.ErrNoData)
	case seekingMemory:
		_, err := p.mem.Result()
		if err == nil {
			err = fmt.Errorf("%w: meminfo block ended early", parsers.ErrNoData)
		}
		return err
	case seekingNetHeader:
		return fmt.Errorf("%w: no %q header in network block", parsers.ErrNoData, netLandmark)
	case readingNetSchema:
		return fmt.Errorf("%w: network header cut short", parsers.ErrNoData)
	default:
		return fmt.Errorf("%w: %s", ErrInterfaceNotFound, p.iface)
	}
}

// isContentError reports whether err describes bad stream content rather
// than a failure to read the stream.
func isContentError(err error) bool {
	return stderrors.Is(err, parsers.ErrNoData) || stderrors.Is(err, ErrInterfaceNotFound)
}
