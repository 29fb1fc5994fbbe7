package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInterfaceNotFound is returned when the queried interface has no data
// line in the block. It is distinct from a malformed block.
var ErrInterfaceNotFound = errors.New("interface not found")

// NetSchema identifies one of the historical /proc/net/dev layouts.
type NetSchema int

const (
	// NetSchemaLegacy has 11 packet-level fields and no byte counters.
	NetSchemaLegacy NetSchema = 1
	// NetSchemaBytes has 13 fields: rx bytes..frame, tx bytes..carrier.
	NetSchemaBytes NetSchema = 2
	// NetSchemaCompressed has 16 fields including multicast and compressed.
	NetSchemaCompressed NetSchema = 3
)

// String returns a short label for the layout.
func (s NetSchema) String() string {
	switch s {
	case NetSchemaLegacy:
		return "v1"
	case NetSchemaBytes:
		return "v2"
	case NetSchemaCompressed:
		return "v3"
	default:
		return "unknown"
	}
}

// FieldCount is the number of numeric fields a data line carries.
func (s NetSchema) FieldCount() int {
	switch s {
	case NetSchemaCompressed:
		return 16
	case NetSchemaBytes:
		return 13
	default:
		return 11
	}
}

// txBytesIndex is the position of tx bytes among the numeric fields, or -1
// when the layout has no byte counters.
func (s NetSchema) txBytesIndex() int {
	switch s {
	case NetSchemaCompressed:
		return 8
	case NetSchemaBytes:
		return 6
	default:
		return -1
	}
}

// DetectNetSchema classifies the column header line of /proc/net/dev.
// Checked in order: "compressed", then "bytes", else legacy.
func DetectNetSchema(header string) NetSchema {
	if strings.Contains(header, "compressed") {
		return NetSchemaCompressed
	}
	if strings.Contains(header, "bytes") {
		return NetSchemaBytes
	}
	return NetSchemaLegacy
}

// NetCounters are the cumulative byte counters of one interface.
type NetCounters struct {
	RxBytes uint64
	TxBytes uint64
}

// SplitInterfaceName separates the interface name from the counters of a
// data line. The name is terminated by ':'; an alias such as "eth0:1:" keeps
// its ":<digits>" suffix. Lines with no colon are not data lines.
func SplitInterfaceName(line string) (name, rest string, ok bool) {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			return "", "", false
		}
		if c != ':' {
			continue
		}

		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i+1 && j < len(s) && s[j] == ':' {
			return s[:j], s[j+1:], true
		}
		return s[:i], s[i+1:], true
	}

	return "", "", false
}

// ParseNetDevLine parses one data line using the given layout. Legacy lines
// report zero bytes.
func ParseNetDevLine(line string, schema NetSchema) (string, NetCounters, error) {
	name, rest, ok := SplitInterfaceName(line)
	if !ok || name == "" {
		return "", NetCounters{}, fmt.Errorf("%w: not an interface line", ErrNoData)
	}

	fields := strings.Fields(rest)
	if len(fields) < schema.FieldCount() {
		return name, NetCounters{}, fmt.Errorf("%w: %s has %d fields, %s layout needs %d",
			ErrNoData, name, len(fields), schema, schema.FieldCount())
	}

	tx := schema.txBytesIndex()
	if tx < 0 {
		return name, NetCounters{}, nil
	}

	rxBytes, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return name, NetCounters{}, fmt.Errorf("%w: rx bytes for %s: %v", ErrNoData, name, err)
	}
	txBytes, err := strconv.ParseUint(fields[tx], 10, 64)
	if err != nil {
		return name, NetCounters{}, fmt.Errorf("%w: tx bytes for %s: %v", ErrNoData, name, err)
	}

	return name, NetCounters{RxBytes: rxBytes, TxBytes: txBytes}, nil
}
