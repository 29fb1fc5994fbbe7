package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// procSnapshot is what one node prints: 40% of memory in use, eth0 present.
const procSnapshot = `cpu  100 0 100 800 0 0 0 0 0 0
cpu0 100 0 100 800 0 0 0 0 0 0
intr 1 2 3
MemTotal:        1000000 kB
MemFree:          400000 kB
MemAvailable:     600000 kB
Buffers:           50000 kB
Cached:           150000 kB
SwapCached:            0 kB
Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo: 5 5 0 0 0 0 0 0 5 5 0 0 0 0 0 0
  eth0: 1000 10 0 0 0 0 0 0 2000 10 0 0 0 0 0 0
`

// isolate moves the test into an empty directory with an empty HOME so no
// real config is picked up, and resets the persistent flags.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	oldConfig, oldLevel := configFlag, logLevelFlag
	t.Cleanup(func() { configFlag, logLevelFlag = oldConfig, oldLevel })
	configFlag, logLevelFlag = "", "error"
	return dir
}

// writeFleetConfig writes a config for size nodes whose exec transport
// prints snapshot for every host, and points --config at it.
func writeFleetConfig(t *testing.T, dir string, size int, snapshot string) string {
	t.Helper()
	fixture := filepath.Join(dir, "proc.txt")
	require.NoError(t, os.WriteFile(fixture, []byte(snapshot), 0o644))

	path := filepath.Join(dir, "ctop.yaml")
	content := fmt.Sprintf(`fleet:
  size: %d
  template: "node%%02d"
interface: eth0
workers: 2
interval: 10ms
fetch_timeout: 5s
transport:
  kind: exec
  command: ["sh", "-c", "cat '%s'"]
`, size, fixture)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configFlag = path
	return path
}

// newFlagCmd returns a bare command carrying the engine flags, parsed from args.
func newFlagCmd(t *testing.T, flags *EngineFlags, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddEngineFlags(cmd, flags)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}
