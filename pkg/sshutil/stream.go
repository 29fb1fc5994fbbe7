package sshutil

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rileyhilliard/ctop/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Stream is the stdout of one remote command. Read it to the end, then
// Close it to collect the command's exit.
type Stream struct {
	io.Reader

	ctx     context.Context
	session *ssh.Session
	stop    func() bool

	closeOnce  sync.Once
	closeErr   error
	exitStatus int
}

// Stream starts cmd on the remote host and returns its stdout. Canceling
// ctx tears down the session, which unblocks pending reads.
func (c *Client) Stream(ctx context.Context, cmd string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := c.Client.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"Connection may have been closed. Try reconnecting.")
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		_ = session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to attach to remote stdout", "")
	}
	if err := session.Start(cmd); err != nil {
		_ = session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to start command: %s", cmd),
			"Check if the command exists on the remote host.")
	}

	return &Stream{
		Reader:  stdout,
		ctx:     ctx,
		session: session,
		stop:    context.AfterFunc(ctx, func() { _ = session.Close() }),
	}, nil
}

// Close waits for the remote command and releases the session. A non-zero
// exit status is not an error; see ExitStatus. If the context ended first,
// Close returns the context's error.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		stopped := s.stop()
		err := s.session.Wait()
		_ = s.session.Close()

		if !stopped || s.ctx.Err() != nil {
			s.closeErr = fmt.Errorf("remote command interrupted: %w", context.Cause(s.ctx))
			return
		}

		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			s.exitStatus = exitErr.ExitStatus()
			return
		}
		s.closeErr = err
	})
	return s.closeErr
}

// ExitStatus returns the remote exit code once Close has returned nil.
func (s *Stream) ExitStatus() int {
	return s.exitStatus
}
