// Package exporter publishes the fleet's latest samples as Prometheus metrics.
//
// Node gauges are computed at scrape time from the table published by the
// last finished tick, so a scrape never sees a tick in progress.
package exporter

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/ctop/internal/monitor"
)

const namespace = "ctop"

// Source provides the stabilized sample table. *monitor.Poller implements it.
type Source interface {
	Snapshot() []monitor.NodeSample
}

var nodeLabels = []string{"node", "host"}

var (
	cpuDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "cpu_utilization"),
		"Fraction of CPU time spent busy over the last tick interval.",
		nodeLabels, nil)
	memDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "memory_used_ratio"),
		"Fraction of memory used, excluding buffers and page cache.",
		nodeLabels, nil)
	rxDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "network_receive_bytes_per_second"),
		"Receive rate of the monitored interface.",
		nodeLabels, nil)
	txDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "network_transmit_bytes_per_second"),
		"Transmit rate of the monitored interface.",
		nodeLabels, nil)
	upDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "node", "up"),
		"1 if the node's last poll succeeded, 0 otherwise.",
		nodeLabels, nil)
)

// Exporter is a prometheus.Collector over a Source plus tick counters.
type Exporter struct {
	source   Source
	registry *prometheus.Registry

	ticks     prometheus.Counter
	failures  prometheus.Counter
	duration  prometheus.Histogram
	lastTick  prometheus.Gauge
	nodeCount prometheus.Gauge
}

// New builds an Exporter with its own registry.
func New(source Source) *Exporter {
	e := &Exporter{
		source:   source,
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Number of completed polls over the fleet.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_poll_failures_total",
			Help:      "Number of node polls that failed, across all ticks.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one poll over the fleet.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
		}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tick_timestamp_seconds",
			Help:      "Unix time the last completed tick started.",
		}),
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Number of nodes in the fleet.",
		}),
	}

	e.registry.MustRegister(e, e.ticks, e.failures, e.duration, e.lastTick, e.nodeCount)
	return e
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- cpuDesc
	ch <- memDesc
	ch <- rxDesc
	ch <- txDesc
	ch <- upDesc
}

// Collect implements prometheus.Collector. Nodes that have never been
// sampled only report ctop_node_up.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, s := range e.source.Snapshot() {
		labels := []string{strconv.Itoa(s.Node.ID), s.Node.Host}

		up := 0.0
		if s.Valid == monitor.OK {
			up = 1
		}
		ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up, labels...)

		if !s.HasBaseline() {
			continue
		}
		ch <- prometheus.MustNewConstMetric(cpuDesc, prometheus.GaugeValue, s.Derived.CPUUtilization, labels...)
		ch <- prometheus.MustNewConstMetric(memDesc, prometheus.GaugeValue, s.Derived.MemoryUsed, labels...)
		ch <- prometheus.MustNewConstMetric(rxDesc, prometheus.GaugeValue, s.Derived.RxRate, labels...)
		ch <- prometheus.MustNewConstMetric(txDesc, prometheus.GaugeValue, s.Derived.TxRate, labels...)
	}
}

// RecordTick updates the tick counters. Pass it as (part of) the Poller's
// onTick callback.
func (e *Exporter) RecordTick(stats monitor.TickStats, samples []monitor.NodeSample) {
	e.ticks.Inc()
	e.failures.Add(float64(stats.Failed))
	e.duration.Observe(stats.Duration.Seconds())
	e.lastTick.Set(float64(stats.Started.UnixNano()) / 1e9)
	e.nodeCount.Set(float64(len(samples)))
}

// Registry returns the registry the exporter's metrics live in.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// shutdownTimeout bounds graceful shutdown of the metrics server.
const shutdownTimeout = 5 * time.Second

// Serve listens on addr and serves /metrics until ctx is done.
func (e *Exporter) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return e.serve(ctx, ln, log)
}

func (e *Exporter) serve(ctx context.Context, ln net.Listener, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving metrics", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
