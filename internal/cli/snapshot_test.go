package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/ctop/internal/config"
	"github.com/rileyhilliard/ctop/internal/logger"
	"github.com/rileyhilliard/ctop/internal/monitor"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func snapshotCmdFor(t *testing.T, flags *EngineFlags, out *bytes.Buffer, args ...string) *cobra.Command {
	t.Helper()
	cmd := newFlagCmd(t, flags, args...)
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunSnapshot_Table(t *testing.T) {
	dir := isolate(t)
	writeFleetConfig(t, dir, 3, procSnapshot)

	var out bytes.Buffer
	var flags EngineFlags
	cmd := snapshotCmdFor(t, &flags, &out)

	require.NoError(t, runSnapshot(cmd, &flags, 2, false))

	text := out.String()
	for _, host := range []string{"node01", "node02", "node03"} {
		assert.Contains(t, text, host)
	}
	assert.Contains(t, text, "40.0")
	assert.Contains(t, text, "3/3 ok")
}

func TestRunSnapshot_JSON(t *testing.T) {
	dir := isolate(t)
	writeFleetConfig(t, dir, 2, procSnapshot)

	var out bytes.Buffer
	var flags EngineFlags
	cmd := snapshotCmdFor(t, &flags, &out)

	require.NoError(t, runSnapshot(cmd, &flags, 1, true))

	var env struct {
		Success bool           `json:"success"`
		Data    SnapshotReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data.OK)
	assert.Equal(t, 0, env.Data.Failed)
	require.Len(t, env.Data.Nodes, 2)
	assert.Equal(t, "node01", env.Data.Nodes[0].Host)
	assert.Equal(t, "ok", env.Data.Nodes[0].State)
	assert.InDelta(t, 0.4, env.Data.Nodes[0].MemoryUsed, 1e-9)
	assert.NotNil(t, env.Data.Nodes[0].LastSample)
}

func TestRunSnapshot_UnreadableNodes(t *testing.T) {
	dir := isolate(t)
	writeFleetConfig(t, dir, 2, "garbage\n")

	var out bytes.Buffer
	var flags EngineFlags
	cmd := snapshotCmdFor(t, &flags, &out)

	require.NoError(t, runSnapshot(cmd, &flags, 1, true))

	var env struct {
		Data SnapshotReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, 2, env.Data.Failed)
	for _, n := range env.Data.Nodes {
		assert.Equal(t, "error", n.State)
		assert.NotEmpty(t, n.LastError)
		assert.Nil(t, n.LastSample)
	}
}

func TestRunSnapshot_BadSamples(t *testing.T) {
	isolate(t)

	var flags EngineFlags
	err := runSnapshot(snapshotCmdFor(t, &flags, &bytes.Buffer{}), &flags, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--samples")
}

func TestCollect_StopsWhenCancelled(t *testing.T) {
	dir := isolate(t)
	writeFleetConfig(t, dir, 1, procSnapshot)

	var flags EngineFlags
	cfg, err := loadConfig(newFlagCmd(t, &flags), &flags)
	require.NoError(t, err)
	cfg.Interval = time.Hour

	eng, err := newEngine(cfg, logger.Noop())
	require.NoError(t, err)
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	stats, err := collect(ctx, eng.poller, cfg, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, stats.OK, "first tick completes before the wait")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestNewEngine_Transports(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		wantPool bool
	}{
		{"ssh pools connections", config.TransportSSH, true},
		{"exec runs a process per poll", config.TransportExec, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Fleet.Size = 4
			cfg.Transport.Kind = tt.kind

			eng, err := newEngine(cfg, logger.Noop())
			require.NoError(t, err)
			defer eng.Close()

			assert.Equal(t, tt.wantPool, eng.pool != nil)
			assert.Len(t, eng.poller.Snapshot(), 4)
			for _, s := range eng.poller.Snapshot() {
				assert.Equal(t, monitor.NoData, s.Valid)
			}
		})
	}
}
