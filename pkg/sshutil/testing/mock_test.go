package testing

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFS_WriteAndReadFile(t *testing.T) {
	fs := NewMockFS()

	require.NoError(t, fs.WriteFile("/proc/stat", []byte("cpu 1 2 3 4")))
	assert.True(t, fs.Exists("/proc/stat"))
	assert.True(t, fs.Exists("/proc/../proc/stat"))

	content, err := fs.ReadFile("/proc/stat")
	require.NoError(t, err)
	assert.Equal(t, "cpu 1 2 3 4", string(content))

	// Callers can't mutate stored content through the returned slice
	content[0] = 'X'
	again, _ := fs.ReadFile("/proc/stat")
	assert.Equal(t, "cpu 1 2 3 4", string(again))
}

func TestMockFS_ReadMissing(t *testing.T) {
	fs := NewMockFS()
	_, err := fs.ReadFile("/nope")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMockFS_Remove(t *testing.T) {
	fs := NewMockFS()
	_ = fs.WriteFile("/a", []byte("x"))

	require.NoError(t, fs.Remove("/a"))
	assert.False(t, fs.Exists("/a"))
	assert.NoError(t, fs.Remove("/a"))
}

func TestMockConn_CatConcatenates(t *testing.T) {
	conn := WithProc(NewMockConn("node01"), "S\n", "M\n", "N\n")

	rc, err := conn.Stream(context.Background(), "cat /proc/stat /proc/meminfo /proc/net/dev 2>/dev/null")
	require.NoError(t, err)
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "S\nM\nN\n", string(out))
	assert.Equal(t, 1, conn.Streams())
}

func TestMockConn_CatSkipsMissingFiles(t *testing.T) {
	conn := WithFiles(NewMockConn("node01"), map[string]string{"/proc/meminfo": "M\n"})

	rc, err := conn.Stream(context.Background(), "cat /proc/stat /proc/meminfo 2>/dev/null")
	require.NoError(t, err)
	out, _ := io.ReadAll(rc)
	assert.Equal(t, "M\n", string(out))
}

func TestMockConn_UnknownCommandPrintsNothing(t *testing.T) {
	conn := NewMockConn("node01")

	rc, err := conn.Stream(context.Background(), "uptime")
	require.NoError(t, err)
	out, _ := io.ReadAll(rc)
	assert.Empty(t, out)
}

func TestMockConn_CommandResponses(t *testing.T) {
	openErr := errors.New("session refused")
	brokenPipe := errors.New("broken pipe")

	conn := NewMockConn("node01")
	conn.SetCommandResponse("refuse", CommandResponse{Error: openErr})
	conn.SetCommandResponse("^cat .*", CommandResponse{Stdout: []byte("partial"), CloseError: brokenPipe})

	_, err := conn.Stream(context.Background(), "refuse")
	assert.ErrorIs(t, err, openErr)

	rc, err := conn.Stream(context.Background(), "cat /proc/stat")
	require.NoError(t, err)
	out, _ := io.ReadAll(rc)
	assert.Equal(t, "partial", string(out))
	assert.ErrorIs(t, rc.Close(), brokenPipe)
}

func TestMockConn_HangRespectsContext(t *testing.T) {
	conn := NewMockConn("node01")
	conn.SetCommandResponse(".*", CommandResponse{Hang: true})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rc, err := conn.Stream(ctx, "cat /proc/stat")
	require.NoError(t, err)

	_, err = io.ReadAll(rc)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, rc.Close(), context.DeadlineExceeded)
}

func TestMockConn_CanceledContext(t *testing.T) {
	conn := NewMockConn("node01")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Stream(ctx, "cat /proc/stat")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, conn.Streams())
}

func TestMockConn_Liveness(t *testing.T) {
	conn := NewMockConn("node01")
	assert.True(t, conn.Alive())
	assert.Equal(t, "node01", conn.GetHost())

	conn.Kill()
	assert.False(t, conn.Alive())
	assert.False(t, conn.Closed())

	conn2 := NewMockConn("node02")
	require.NoError(t, conn2.Close())
	assert.False(t, conn2.Alive())
	assert.True(t, conn2.Closed())

	_, err := conn2.Stream(context.Background(), "cat /proc/stat")
	assert.ErrorIs(t, err, ErrClosed)
}
