package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/ctop/internal/monitor"
)

// Source is the engine behind the dashboard. *monitor.Poller implements it.
type Source interface {
	Tick(ctx context.Context) monitor.TickStats
	Snapshot() []monitor.NodeSample
}

// Defaults used when Options leaves a field zero.
const (
	DefaultColumns  = 4
	DefaultInterval = 3 * time.Second
)

// Options configures the dashboard.
type Options struct {
	// Interval is the pause between the end of one tick and the start of the next.
	Interval time.Duration
	// NICFullScale is the bytes/second drawn as a full RX/TX gauge.
	NICFullScale float64
	// Columns is the number of node cells per grid row.
	Columns int
	// Now is used for the header clock before the first tick.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.NICFullScale <= 0 {
		o.NICFullScale = DefaultNICFullScale
	}
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// headerHeight and footerHeight are the rows kept outside the scrolling grid.
const (
	headerHeight = 2
	footerHeight = 2
)

// Model is the Bubble Tea model for the cluster dashboard.
type Model struct {
	ctx    context.Context
	source Source
	opts   Options

	samples  []monitor.NodeSample
	stats    monitor.TickStats
	history  *History
	ticks    int
	quitting bool
	showHelp bool

	// collecting is true while a tick runs. No new tick starts until it ends.
	collecting bool
	// tickSeq identifies the scheduled timer; timers from before a manual
	// refresh are dropped.
	tickSeq int

	width    int
	height   int
	grid     viewport.Model
	gridInit bool
	help     help.Model
}

// tickMsg fires when the refresh interval elapses.
type tickMsg struct {
	seq int
}

// collectedMsg carries the table published by a finished tick.
type collectedMsg struct {
	stats   monitor.TickStats
	samples []monitor.NodeSample
}

// New creates a dashboard driving source. ctx bounds every tick.
func New(ctx context.Context, source Source, opts Options) Model {
	opts.applyDefaults()
	return Model{
		ctx:        ctx,
		source:     source,
		opts:       opts,
		samples:    source.Snapshot(),
		history:    NewHistory(DefaultHistorySize),
		collecting: true,
		help:       help.New(),
	}
}

// Init starts the first tick immediately.
func (m Model) Init() tea.Cmd {
	return m.collectCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeGrid()

	case tickMsg:
		if msg.seq != m.tickSeq || m.collecting {
			return m, nil
		}
		m.collecting = true
		return m, m.collectCmd()

	case collectedMsg:
		m.collecting = false
		m.stats = msg.stats
		m.samples = msg.samples
		m.history.Push(msg.samples)
		m.ticks++
		m.refreshGrid()
		m.tickSeq++
		return m, m.tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		if m.collecting {
			return m, nil
		}
		m.collecting = true
		return m, m.collectCmd()

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	if !m.gridInit {
		return m, nil
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Collecting reports whether a tick is in flight.
func (m Model) Collecting() bool {
	return m.collecting
}

// Samples returns the table shown by the last render.
func (m Model) Samples() []monitor.NodeSample {
	return m.samples
}

func (m Model) tickCmd() tea.Cmd {
	seq := m.tickSeq
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

// collectCmd runs one tick off the UI goroutine.
func (m Model) collectCmd() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		stats := source.Tick(ctx)
		return collectedMsg{stats: stats, samples: source.Snapshot()}
	}
}

func (m *Model) resizeGrid() {
	h := max(m.height-headerHeight-footerHeight, 1)
	if !m.gridInit {
		m.grid = viewport.New(m.width, h)
		m.grid.YPosition = headerHeight
		m.gridInit = true
	} else {
		m.grid.Width = m.width
		m.grid.Height = h
	}
	m.refreshGrid()
}

func (m *Model) refreshGrid() {
	if !m.gridInit {
		return
	}
	m.grid.SetContent(m.renderGrid())
}
