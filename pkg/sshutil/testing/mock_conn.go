package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/rileyhilliard/ctop/pkg/sshutil"
)

// ErrClosed is returned by a MockConn after Close.
var ErrClosed = errors.New("connection closed")

// CommandResponse is a canned reply for commands matching a pattern.
type CommandResponse struct {
	Stdout []byte
	// Error fails Stream itself, as if the session could not be opened.
	Error error
	// CloseError is returned from the stream's Close, as if the channel
	// broke after the output was sent.
	CloseError error
	// Hang blocks reads until the caller's context ends.
	Hang bool
}

// MockConn is an in-memory sshutil.Conn.
type MockConn struct {
	mu       sync.Mutex
	host     string
	fs       *MockFS
	closed   bool
	dead     bool
	streams  int
	patterns []string
	commands map[string]CommandResponse
}

var _ sshutil.Conn = (*MockConn)(nil)

// NewMockConn creates a connection to host with an empty filesystem.
func NewMockConn(host string) *MockConn {
	return &MockConn{
		host:     host,
		fs:       NewMockFS(),
		commands: make(map[string]CommandResponse),
	}
}

// GetFS returns the node's filesystem for direct manipulation.
func (m *MockConn) GetFS() *MockFS {
	return m.fs
}

// SetCommandResponse registers a reply for commands equal to, or matching
// the regular expression, pattern. Earlier registrations win.
func (m *MockConn) SetCommandResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.commands[pattern]; !ok {
		m.patterns = append(m.patterns, pattern)
	}
	m.commands[pattern] = resp
}

// Kill makes Alive report false without closing, like a peer that vanished.
func (m *MockConn) Kill() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dead = true
}

// Streams returns how many commands were started.
func (m *MockConn) Streams() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streams
}

// Closed reports whether Close was called.
func (m *MockConn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Stream runs cmd against the filesystem, or returns its canned response.
func (m *MockConn) Stream(ctx context.Context, cmd string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.streams++
	resp, ok := m.lookup(cmd)
	m.mu.Unlock()

	if !ok {
		resp = CommandResponse{Stdout: m.execute(cmd)}
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Hang {
		return &hangingStream{ctx: ctx}, nil
	}
	return &mockStream{Reader: bytes.NewReader(resp.Stdout), closeErr: resp.CloseError}, nil
}

// Alive reports whether the connection is open and not killed.
func (m *MockConn) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && !m.dead
}

// GetHost returns the host name.
func (m *MockConn) GetHost() string {
	return m.host
}

// Close marks the connection closed.
func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// lookup must be called with mu held.
func (m *MockConn) lookup(cmd string) (CommandResponse, bool) {
	if resp, ok := m.commands[cmd]; ok {
		return resp, true
	}
	for _, pattern := range m.patterns {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			return m.commands[pattern], true
		}
	}
	return CommandResponse{}, false
}

// execute understands "cat <path>..." with an optional stderr redirect.
// Missing files are skipped, as cat would with 2>/dev/null. Anything else
// prints nothing.
func (m *MockConn) execute(cmd string) []byte {
	cmd = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cmd), "2>/dev/null"))
	args := strings.Fields(cmd)
	if len(args) == 0 || args[0] != "cat" {
		return nil
	}

	var out bytes.Buffer
	for _, arg := range args[1:] {
		content, err := m.fs.ReadFile(strings.Trim(arg, `"'`))
		if err != nil {
			continue
		}
		out.Write(content)
	}
	return out.Bytes()
}

type mockStream struct {
	io.Reader
	closeErr error
}

func (s *mockStream) Close() error {
	return s.closeErr
}

// hangingStream models a node that accepted the command and never answered.
type hangingStream struct {
	ctx context.Context
}

func (s *hangingStream) Read([]byte) (int, error) {
	<-s.ctx.Done()
	return 0, s.ctx.Err()
}

func (s *hangingStream) Close() error {
	return s.ctx.Err()
}
