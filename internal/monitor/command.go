package monitor

import "strings"

// snapshotFiles are printed back to back by one remote cat. Order matters:
// ParseSnapshot expects the CPU block, then memory, then network devices.
var snapshotFiles = []string{
	"/proc/stat",
	"/proc/meminfo",
	"/proc/net/dev",
}

// SnapshotCommand returns the shell command that prints one snapshot.
// stderr is discarded so a missing file shows up as a truncated stream
// rather than as noise mixed into the counters.
func SnapshotCommand() string {
	return "cat " + strings.Join(snapshotFiles, " ") + " 2>/dev/null"
}

// ExecArgs builds the argv for running the snapshot through a local remote
// shell tool: prefix, then the host, then the snapshot command as a single
// argument (for example "rsh node01 cat /proc/stat ...").
func ExecArgs(prefix []string, host string) []string {
	args := make([]string, 0, len(prefix)+2)
	args = append(args, prefix...)
	return append(args, host, SnapshotCommand())
}
