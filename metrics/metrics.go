// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickly_ask",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quickly_ask",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	votesCast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickly_ask",
			Subsystem: "ledger",
			Name:      "votes_total",
			Help:      "Vote attempts by outcome.",
		},
		[]string{"outcome"},
	)

	upgrades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quickly_ask",
			Subsystem: "entitlement",
			Name:      "upgrades_total",
			Help:      "Premium upgrade attempts by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	statsDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quickly_ask",
			Subsystem: "stats",
			Name:      "platform_degraded_total",
			Help:      "Platform stats reads answered with zeros because the store failed.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		votesCast,
		upgrades,
		statsDegraded,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordVote counts a vote attempt. outcome is "accepted" or an error kind.
func RecordVote(outcome string) {
	votesCast.WithLabelValues(outcome).Inc()
}

// RecordUpgrade counts an upgrade attempt from "manual" or "payment".
func RecordUpgrade(source, outcome string) {
	upgrades.WithLabelValues(source, outcome).Inc()
}

func RecordStatsDegraded() {
	statsDegraded.Inc()
}

// HTTPRequests returns the request counter.
func HTTPRequests() *prometheus.CounterVec {
	return httpRequests
}

// StatsDegraded returns the degraded-read counter.
func StatsDegraded() prometheus.Counter {
	return statsDegraded
}
