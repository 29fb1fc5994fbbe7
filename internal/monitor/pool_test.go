package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rileyhilliard/ctop/pkg/sshutil"
	sshtesting "github.com/rileyhilliard/ctop/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDialer hands out MockConns and records every dial.
type fakeDialer struct {
	mu    sync.Mutex
	conns map[string][]*sshtesting.MockConn
	fail  map[string]error
	setup func(*sshtesting.MockConn)
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		conns: make(map[string][]*sshtesting.MockConn),
		fail:  make(map[string]error),
	}
}

func (d *fakeDialer) dial(_ context.Context, host string) (sshutil.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.fail[host]; err != nil {
		return nil, err
	}
	conn := sshtesting.NewMockConn(host)
	if d.setup != nil {
		d.setup(conn)
	}
	d.conns[host] = append(d.conns[host], conn)
	return conn, nil
}

func (d *fakeDialer) dials(host string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns[host])
}

func (d *fakeDialer) last(host string) *sshtesting.MockConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	conns := d.conns[host]
	return conns[len(conns)-1]
}

func TestPool_ReusesLiveConnection(t *testing.T) {
	d := newFakeDialer()
	pool := NewPool(d.dial)

	c1, err := pool.Get(context.Background(), "node01")
	require.NoError(t, err)
	c2, err := pool.Get(context.Background(), "node01")
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, d.dials("node01"))
	assert.Equal(t, 1, pool.Size())
}

func TestPool_ReplacesDeadConnection(t *testing.T) {
	d := newFakeDialer()
	pool := NewPool(d.dial)

	_, err := pool.Get(context.Background(), "node01")
	require.NoError(t, err)
	first := d.last("node01")
	first.Kill()

	c, err := pool.Get(context.Background(), "node01")
	require.NoError(t, err)

	assert.Equal(t, 2, d.dials("node01"))
	assert.True(t, first.Closed())
	assert.NotSame(t, first, c)
	assert.Equal(t, 1, pool.Size())
}

func TestPool_DialError(t *testing.T) {
	d := newFakeDialer()
	d.fail["node02"] = errors.New("no route to host")
	pool := NewPool(d.dial)

	_, err := pool.Get(context.Background(), "node02")
	assert.Error(t, err)
	assert.Equal(t, 0, pool.Size())
}

func TestPool_CloseOne(t *testing.T) {
	d := newFakeDialer()
	pool := NewPool(d.dial)

	_, _ = pool.Get(context.Background(), "node01")
	_, _ = pool.Get(context.Background(), "node02")
	require.Equal(t, 2, pool.Size())

	pool.CloseOne("node01")
	assert.Equal(t, 1, pool.Size())
	assert.True(t, d.last("node01").Closed())

	// Unknown host is a no-op
	pool.CloseOne("nonexistent")
	assert.Equal(t, 1, pool.Size())
}

func TestPool_Close(t *testing.T) {
	d := newFakeDialer()
	pool := NewPool(d.dial)

	// Closing an empty pool should not panic
	pool.Close()

	_, _ = pool.Get(context.Background(), "node01")
	_, _ = pool.Get(context.Background(), "node02")
	pool.Close()

	assert.Equal(t, 0, pool.Size())
	assert.True(t, d.last("node01").Closed())
	assert.True(t, d.last("node02").Closed())
}

