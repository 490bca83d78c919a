// Package metrics defines and registers the custom Prometheus metrics of the
// back-office API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics register with the default Prometheus registry on package init
// (promauto), so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service, including the HTTP metrics
// recorded by the echoprometheus middleware.
const Namespace = "realestate"

// ── Sale metrics ──────────────────────────────────────────────────────────────

// SaleTransitionsTotal counts committed sale status changes.
// Labels:
//   - from: previous status ("" on create)
//   - to:   resulting status ("deleted" on delete)
var SaleTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "sales_transitions_total",
		Help:      "Total number of committed sale status transitions.",
	},
	[]string{"from", "to"},
)

// AvailabilityChangesTotal counts property availability overwrites.
// Labels:
//   - to:    resulting availability
//   - cause: "sale" when driven by the lifecycle engine, "admin" for direct edits
var AvailabilityChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "property_availability_changes_total",
		Help:      "Total number of property availability changes, by cause.",
	},
	[]string{"to", "cause"},
)

// CoordinatorTxTotal counts coordinated transactions.
// Labels:
//   - op:     "create", "update", "delete"
//   - result: "commit", "rollback", "retry"
var CoordinatorTxTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "coordinator_tx_total",
		Help:      "Total number of sale/property transactions, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of sale events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of sale events dropped on a full audit queue.",
	},
)
