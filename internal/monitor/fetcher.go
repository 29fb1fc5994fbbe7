package monitor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/rileyhilliard/ctop/internal/errors"
)

// Fetcher opens the snapshot stream for one host. The caller reads the
// stream, drains it, and closes it; an error from Close is a transport
// failure. A non-zero remote exit status alone is not.
type Fetcher interface {
	Fetch(ctx context.Context, host string) (io.ReadCloser, error)
}

// exitStatuser is implemented by streams that know the snapshot command's
// exit code after Close.
type exitStatuser interface {
	ExitStatus() int
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, host string) (io.ReadCloser, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, host string) (io.ReadCloser, error) {
	return f(ctx, host)
}

// SSHFetcher runs the snapshot command over pooled SSH connections.
type SSHFetcher struct {
	pool *Pool
}

// NewSSHFetcher creates a fetcher that borrows connections from pool.
func NewSSHFetcher(pool *Pool) *SSHFetcher {
	return &SSHFetcher{pool: pool}
}

// Fetch starts the snapshot command on host. A connection whose session
// fails is dropped from the pool so the next tick redials.
func (f *SSHFetcher) Fetch(ctx context.Context, host string) (io.ReadCloser, error) {
	conn, err := f.pool.Get(ctx, host)
	if err != nil {
		return nil, err
	}

	rc, err := conn.Stream(ctx, SnapshotCommand())
	if err != nil {
		f.pool.CloseOne(host)
		return nil, err
	}
	return &pooledStream{ReadCloser: rc, release: func() { f.pool.CloseOne(host) }}, nil
}

// pooledStream evicts the connection when the stream ends badly; a session
// that broke mid-read usually means the connection is gone too.
type pooledStream struct {
	io.ReadCloser
	release func()
}

func (s *pooledStream) Close() error {
	err := s.ReadCloser.Close()
	if err != nil {
		s.release()
	}
	return err
}

// ExitStatus returns the remote exit code when the stream reports one.
func (s *pooledStream) ExitStatus() int {
	if es, ok := s.ReadCloser.(exitStatuser); ok {
		return es.ExitStatus()
	}
	return 0
}

// ExecFetcher runs the snapshot through a local remote-shell command such
// as rsh or ssh, one process per fetch.
type ExecFetcher struct {
	argv []string
}

// NewExecFetcher creates a fetcher that runs argv, then the host, then the
// snapshot command.
func NewExecFetcher(argv []string) *ExecFetcher {
	return &ExecFetcher{argv: append([]string(nil), argv...)}
}

// Fetch starts the command. The process is killed when ctx ends.
func (f *ExecFetcher) Fetch(ctx context.Context, host string) (io.ReadCloser, error) {
	if len(f.argv) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No remote shell command configured",
			`Set transport.command, for example ["rsh"].`)
	}

	args := ExecArgs(f.argv, host)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Couldn't start %s", args[0]),
			"Check transport.command points at an installed remote shell.")
	}

	// Killing the shell doesn't close stdout while a child it forked is
	// still holding it, so the read end is closed directly.
	stop := context.AfterFunc(ctx, func() { _ = stdout.Close() })
	return &processStream{ReadCloser: stdout, ctx: ctx, cmd: cmd, stop: stop}, nil
}

type processStream struct {
	io.ReadCloser
	ctx  context.Context
	cmd  *exec.Cmd
	stop func() bool

	once       sync.Once
	err        error
	exitStatus int
}

// Close waits for the process. Like pclose, a non-zero exit status is left
// to the content checks; only a failed wait or a killed process is an error.
// A process that exited on its own is not an error even if ctx ended since.
func (s *processStream) Close() error {
	s.once.Do(func() {
		s.stop()
		err := s.cmd.Wait()
		if st := s.cmd.ProcessState; st != nil && st.Exited() {
			s.exitStatus = st.ExitCode()
			return
		}
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			s.err = fmt.Errorf("remote shell interrupted: %w", ctxErr)
			return
		}
		s.err = err
	})
	return s.err
}

// ExitStatus returns the shell's exit code once Close has returned nil.
func (s *processStream) ExitStatus() int {
	return s.exitStatus
}
