package sshutil

import (
	"context"
	"io"
)

// Conn is a reusable connection to one node. *Client satisfies it; tests
// substitute fakes so callers can be exercised without a network.
type Conn interface {
	// Stream starts cmd and returns its stdout. The caller reads it to the
	// end and closes it; Close reports transport failures, not exit codes.
	Stream(ctx context.Context, cmd string) (io.ReadCloser, error)

	// Alive reports whether the connection still answers.
	Alive() bool

	// GetHost returns the host the connection was dialed for.
	GetHost() string

	// Close closes the connection.
	Close() error
}

var _ Conn = (*Client)(nil)
