package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	freezes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirctl",
			Name:      "freeze_total",
			Help:      "Number of freeze operations by target kind.",
		}, []string{"kind"},
	)
	unfreezes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirctl",
			Name:      "unfreeze_total",
			Help:      "Number of unfreeze operations by target kind.",
		}, []string{"kind"},
	)
	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirctl",
			Name:      "command_total",
			Help:      "Number of nircmd invocations by verb and result.",
		}, []string{"verb", "result"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nirctl",
			Name:      "command_duration_seconds",
			Help:      "Wall time of nircmd invocations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"verb"},
	)
	groupEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nirctl",
			Subsystem: "group",
			Name:      "entries_total",
			Help:      "Number of group entries processed by action and result.",
		}, []string{"action", "result"},
	)
	frozenRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nirctl",
			Name:      "frozen_records",
			Help:      "Current number of tracked frozen records.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{freezes, unfreezes, commands, commandDuration, groupEntries, frozenRecords}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// The helpers below no-op until Register has succeeded.

func IncFreeze(kind string) {
	if regOK.Load() {
		freezes.WithLabelValues(kind).Inc()
	}
}

func IncUnfreeze(kind string) {
	if regOK.Load() {
		unfreezes.WithLabelValues(kind).Inc()
	}
}

func ObserveCommand(verb string, ok bool, d time.Duration) {
	if regOK.Load() {
		commands.WithLabelValues(verb, result(ok)).Inc()
		commandDuration.WithLabelValues(verb).Observe(d.Seconds())
	}
}

func IncGroupEntry(action string, ok bool) {
	if regOK.Load() {
		groupEntries.WithLabelValues(action, result(ok)).Inc()
	}
}

func SetFrozenRecords(n int) {
	if regOK.Load() {
		frozenRecords.Set(float64(n))
	}
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// Serve runs an HTTP server exposing /metrics on addr using the default
// registry. It blocks until the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
