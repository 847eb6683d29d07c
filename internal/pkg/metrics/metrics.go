// Package metrics defines and registers all custom Prometheus metrics for the
// presence dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics by the API router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "presence_dashboard"

// ── Upstream fetch metrics ────────────────────────────────────────────────────

// UpstreamFetchesTotal counts requests made to the presence API.
// Labels:
//   - endpoint: "users", "photo" or "chart"
//   - result: "ok", "not_found", "error" or "canceled"
var UpstreamFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_fetches_total",
		Help:      "Total number of presence API requests, by endpoint and result.",
	},
	[]string{"endpoint", "result"},
)

// UpstreamFetchDuration measures presence API round trips.
// Label:
//   - endpoint: "users", "photo" or "chart"
var UpstreamFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Duration of presence API requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint"},
)

// CatalogCacheTotal counts users listing cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of users listing cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Coordinator metrics ───────────────────────────────────────────────────────

// SelectionChangesTotal counts selector change events.
// Label:
//   - kind: "user", "empty" or "invalid"
var SelectionChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selection_changes_total",
		Help:      "Total number of selection change events, by kind.",
	},
	[]string{"kind"},
)

// StaleResultsTotal counts fetch results discarded because a newer
// selection superseded the one they were issued for.
// Label:
//   - presenter: "photo" or "chart"
var StaleResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_total",
		Help:      "Total number of fetch results discarded as stale.",
	},
	[]string{"presenter"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// ActiveSessions tracks the number of live dashboard sessions.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of dashboard sessions held in memory.",
	},
)

// NotificationsCoalescedTotal counts state snapshots replaced by a newer one
// of the same session before websocket delivery.
var NotificationsCoalescedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_coalesced_total",
		Help:      "Total number of state snapshots superseded by a newer one before delivery.",
	},
)
