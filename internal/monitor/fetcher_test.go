package monitor

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/ctop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shFetcher stands in for rsh: sh -c script receives the host as $0 and
// the snapshot command as $1.
func shFetcher(t *testing.T, script string) *ExecFetcher {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return NewExecFetcher([]string{"sh", "-c", script})
}

func readAll(t *testing.T, f Fetcher, ctx context.Context, host string) (string, error) {
	t.Helper()
	rc, err := f.Fetch(ctx, host)
	require.NoError(t, err)
	out, _ := io.ReadAll(rc)
	return string(out), rc.Close()
}

func TestExecFetcher_PassesHostAndCommand(t *testing.T) {
	f := shFetcher(t, `printf '%s|%s' "$0" "$1"`)

	out, err := readAll(t, f, context.Background(), "node03")
	require.NoError(t, err)
	assert.Equal(t, "node03|"+SnapshotCommand(), out)
}

func TestExecFetcher_FeedsPoller(t *testing.T) {
	t.Setenv("CTOP_TEST_SNAPSHOT", fullSnapshot())
	f := shFetcher(t, `printf '%s' "$CTOP_TEST_SNAPSHOT"`)

	p := newTestPoller(t, 2, 2, f, newFakeClock())
	stats := p.Tick(context.Background())
	assert.Equal(t, 2, stats.OK)
}

func TestExecFetcher_NonZeroExitIsNotTransportFailure(t *testing.T) {
	f := shFetcher(t, `echo partial; exit 3`)

	out, err := readAll(t, f, context.Background(), "node01")
	assert.NoError(t, err)
	assert.Equal(t, "partial\n", out)
}

func TestExecFetcher_TimeoutKillsProcess(t *testing.T) {
	f := shFetcher(t, `exec sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := readAll(t, f, ctx, "node01")
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecFetcher_TimeoutWithForkedChild(t *testing.T) {
	// sh forks sleep, which keeps stdout open after sh is killed.
	f := shFetcher(t, `sleep 5; true`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := readAll(t, f, ctx, "node01")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecFetcher_HungNodesDontStallTheirRange(t *testing.T) {
	f := shFetcher(t, `sleep 5; true`)
	nodes, err := NewFleet(2, 1, DefaultHostTemplate)
	require.NoError(t, err)
	p, err := NewPoller(NewTable(nodes), f, Options{
		Interface:    "eth0",
		Workers:      1,
		FetchTimeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	stats := p.Tick(context.Background())
	assert.Equal(t, 2, stats.Failed)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecFetcher_ExitedBeforeDeadlineIsNotInterrupted(t *testing.T) {
	f := shFetcher(t, `printf done`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc, err := f.Fetch(ctx, "node01")
	require.NoError(t, err)
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "done", string(out))

	time.Sleep(200 * time.Millisecond)
	cancel()
	assert.NoError(t, rc.Close())
}

func TestExecFetcher_ExitStatus(t *testing.T) {
	f := shFetcher(t, `echo partial; exit 3`)

	rc, err := f.Fetch(context.Background(), "node01")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, rc)
	require.NoError(t, rc.Close())

	es, ok := rc.(exitStatuser)
	require.True(t, ok)
	assert.Equal(t, 3, es.ExitStatus())
}

func TestExecFetcher_MissingBinary(t *testing.T) {
	f := NewExecFetcher([]string{"/nonexistent/ctop-remote-shell"})
	_, err := f.Fetch(context.Background(), "node01")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
}

func TestExecFetcher_EmptyCommand(t *testing.T) {
	f := NewExecFetcher(nil)
	_, err := f.Fetch(context.Background(), "node01")
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestExecFetcher_CopiesArgv(t *testing.T) {
	argv := []string{"rsh"}
	f := NewExecFetcher(argv)
	argv[0] = "changed"
	assert.Equal(t, []string{"rsh"}, f.argv)
}

func TestFetcherFunc(t *testing.T) {
	var got string
	f := FetcherFunc(func(_ context.Context, host string) (io.ReadCloser, error) {
		got = host
		return nil, nil
	})
	_, _ = f.Fetch(context.Background(), "node09")
	assert.Equal(t, "node09", got)
}

type exitedStream struct {
	io.Reader
	status int
}

func (s exitedStream) Close() error    { return nil }
func (s exitedStream) ExitStatus() int { return s.status }

func TestPooledStream_ForwardsExitStatus(t *testing.T) {
	released := false
	s := &pooledStream{
		ReadCloser: exitedStream{Reader: strings.NewReader(""), status: 2},
		release:    func() { released = true },
	}
	require.NoError(t, s.Close())
	assert.False(t, released)
	assert.Equal(t, 2, s.ExitStatus())

	plain := &pooledStream{ReadCloser: io.NopCloser(strings.NewReader(""))}
	assert.Equal(t, 0, plain.ExitStatus())
}
