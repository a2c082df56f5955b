// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ImportRowsAcceptedTotal counts import rows that survived validation and
// made it into the catalog.
var ImportRowsAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_accepted_total",
		Help:      "Total number of bulk-import rows accepted into the catalog.",
	},
)

// ImportRowsDroppedTotal counts import rows dropped during validation.
// Label:
//   - reason: short description of the defect (e.g. "missing_field", "invalid_base_price")
var ImportRowsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_dropped_total",
		Help:      "Total number of bulk-import rows dropped, labelled by reason.",
	},
	[]string{"reason"},
)

// CatalogCacheTotal counts derivation cache decisions.
// Label:
//   - result: "hit" (memoised derivation reused) or "miss" (recomputed)
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of price-derivation cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CheckoutsTotal counts completed checkouts.
// Label:
//   - role: the role of the purchasing user
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of completed checkouts, by user role.",
	},
	[]string{"role"},
)

// CheckoutDuration measures the payment-confirmation round-trip.
var CheckoutDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of the checkout payment confirmation step.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - role: the role of the authenticated user
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// ── Analytics pipeline metrics ────────────────────────────────────────────────

// AnalyticsEventsTotal counts analytics events processed by the workers.
// Labels:
//   - kind: "product_view", "login", or "transaction"
//   - result: "ok" or "error"
var AnalyticsEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_events_total",
		Help:      "Total number of analytics events processed, by kind and result.",
	},
	[]string{"kind", "result"},
)

// AnalyticsQueueDepth tracks the events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AnalyticsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "analytics_queue_depth",
		Help:      "Current number of analytics events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
