package monitor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rileyhilliard/ctop/internal/errors"
)

// DefaultHostTemplate names nodes node01, node02, ...
const DefaultHostTemplate = "node%02d"

// Hostname renders the hostname for id using a printf-style template that
// holds exactly one integer verb.
func Hostname(template string, id int) (string, error) {
	if err := validateTemplate(template); err != nil {
		return "", err
	}
	return fmt.Sprintf(template, id), nil
}

func validateTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return errors.New(errors.ErrConfig,
			"Host template is empty",
			`Use a printf pattern with one integer verb, like "node%02d".`)
	}
	if strings.Count(strings.ReplaceAll(template, "%%", ""), "%") != 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Host template %q needs exactly one %% verb", template),
			`Use a printf pattern with one integer verb, like "node%02d".`)
	}
	host := fmt.Sprintf(template, 1)
	if strings.Contains(host, "%!") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Host template %q doesn't take an integer", template),
			`Use %d (optionally padded, like %02d) for the node number.`)
	}
	if strings.ContainsAny(host, " \t\n") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Host template %q renders whitespace", template),
			"Hostnames can't contain spaces.")
	}
	return nil
}

// NewFleet builds size nodes with consecutive ids starting at firstID.
func NewFleet(size, firstID int, template string) ([]Node, error) {
	if size < 1 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Fleet size %d is too small", size),
			"Set fleet.size to at least 1.")
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	nodes := make([]Node, size)
	for i := range nodes {
		id := firstID + i
		nodes[i] = Node{ID: id, Host: fmt.Sprintf(template, id)}
	}
	return nodes, nil
}

// Table is the fixed-size set of NodeSamples, one per node, ordered by node.
// Its size never changes after construction. The live samples are written
// only by Poller workers over disjoint ranges; readers see the copy
// published after each tick's barrier.
type Table struct {
	samples []NodeSample

	mu        sync.RWMutex
	published []NodeSample
}

// NewTable allocates one NodeSample per node, all in the NoData state.
func NewTable(nodes []Node) *Table {
	samples := make([]NodeSample, len(nodes))
	for i, n := range nodes {
		samples[i] = NodeSample{Node: n, Valid: NoData}
	}
	t := &Table{samples: samples}
	t.publish()
	return t
}

// Len returns the fleet size.
func (t *Table) Len() int {
	return len(t.samples)
}

// Snapshot returns a copy of the samples as of the last completed tick.
func (t *Table) Snapshot() []NodeSample {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]NodeSample, len(t.published))
	copy(out, t.published)
	return out
}

// publish copies the live samples into the reader-visible slice. Called only
// once every worker of a tick has returned.
func (t *Table) publish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.published == nil {
		t.published = make([]NodeSample, len(t.samples))
	}
	copy(t.published, t.samples)
}

// at returns the live sample at index i for in-place mutation by the
// worker that owns i.
func (t *Table) at(i int) *NodeSample {
	return &t.samples[i]
}
