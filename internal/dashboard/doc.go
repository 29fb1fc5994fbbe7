// Package dashboard renders the fleet as a grid of gauges.
//
// The Bubble Tea Model drives a Source (the monitor Poller) one tick at a
// time: a new tick is only scheduled once the previous one has published
// its table, and a manual refresh while a tick is in flight is ignored.
// The same renderers back the headless table and plain-line output.
package dashboard
