// Package metrics exposes the process Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login outcomes by result label
	// (success, invalid_credentials, inactive, rate_limited, error).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvc08",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// RateLimitBlocks counts requests rejected by the throttle, by action.
	RateLimitBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvc08",
		Subsystem: "ratelimit",
		Name:      "blocks_total",
		Help:      "Requests blocked by the sliding-window limiter.",
	}, []string{"action"})

	// RateLimitStoreErrors counts attempt-store failures. The limiter fails
	// open on these, so a non-zero rate means throttling is degraded.
	RateLimitStoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mvc08",
		Subsystem: "ratelimit",
		Name:      "store_errors_total",
		Help:      "Attempt-store errors tolerated by failing open.",
	})

	// AuditWriteFailures counts access-log rows that could not be written.
	// Audit failures never change the outcome of the audited operation.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mvc08",
		Subsystem: "audit",
		Name:      "write_failures_total",
		Help:      "Access-log writes that failed and were tolerated.",
	})

	// HTTPRequests counts handled requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvc08",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
)
