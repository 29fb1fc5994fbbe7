package monitor

import (
	"context"
	"sync"

	"github.com/rileyhilliard/ctop/pkg/sshutil"
)

// DialFunc opens a connection to host.
type DialFunc func(ctx context.Context, host string) (sshutil.Conn, error)

// SSHDialer returns a DialFunc backed by sshutil.Dial.
func SSHDialer(opts sshutil.Options) DialFunc {
	return func(ctx context.Context, host string) (sshutil.Conn, error) {
		return sshutil.Dial(ctx, host, opts)
	}
}

// Pool keeps one SSH connection per node alive between ticks so each poll
// costs a session, not a handshake.
type Pool struct {
	mu          sync.Mutex
	dial        DialFunc
	connections map[string]sshutil.Conn
}

// NewPool creates an empty pool that opens connections with dial.
func NewPool(dial DialFunc) *Pool {
	return &Pool{
		dial:        dial,
		connections: make(map[string]sshutil.Conn),
	}
}

// Get returns the pooled connection for host, replacing it first if it no
// longer answers. A node is only ever polled by one worker, so two callers
// never race to dial the same host.
func (p *Pool) Get(ctx context.Context, host string) (sshutil.Conn, error) {
	p.mu.Lock()
	conn, exists := p.connections[host]
	p.mu.Unlock()

	if exists {
		if conn.Alive() {
			return conn, nil
		}
		p.remove(host)
	}

	conn, err := p.dial(ctx, host)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.connections[host] = conn
	p.mu.Unlock()

	return conn, nil
}

// Close closes every connection and empties the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for host, conn := range p.connections {
		_ = conn.Close()
		delete(p.connections, host)
	}
}

// CloseOne closes and forgets the connection for host, if any.
func (p *Pool) CloseOne(host string) {
	p.remove(host)
}

// Size returns the number of pooled connections.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connections)
}

func (p *Pool) remove(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.connections[host]; ok {
		_ = conn.Close()
		delete(p.connections, host)
	}
}
