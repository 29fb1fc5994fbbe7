// Package monitor polls a fixed fleet of Linux nodes and turns their kernel
// counters into utilization metrics.
//
// # Pipeline
//
// One tick walks the whole fleet:
//
//  1. Fetcher opens a stream of "cat /proc/stat /proc/meminfo /proc/net/dev"
//     on the node, over pooled SSH connections or a local rsh-style command.
//  2. ParseSnapshot reads the stream as a sequence of blocks (CPU, memory,
//     network header, network data) and stops once the configured
//     interface's counters are found. The caller drains and closes the rest.
//  3. Derive diffs the new counters against the node's previous successful
//     sample using the real time between the two.
//  4. The node's NodeSample is updated in place.
//
// # Concurrency
//
// Poller splits the Table into contiguous ranges, one per worker, once at
// construction. Each worker polls its own nodes in order, so no two
// goroutines ever write the same NodeSample. Tick waits for every worker and
// only then publishes a copy of the table; Snapshot always returns that
// copy, so readers never observe a half-finished tick.
//
// # Failures
//
// A node that can't be reached, times out, or returns unusable output is
// marked Error with its last good counters kept intact. Nothing a single
// node does can fail the tick.
package monitor
