// Package metrics defines and registers all custom Prometheus metrics for the
// GreenMaster service. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greenmaster"

// ── Store metrics ─────────────────────────────────────────────────────────────

// MutationsTotal counts store mutations by collection and action kind.
// Labels:
//   - collection: the target collection (e.g. "courses")
//   - action: CREATE, UPDATE, DELETE or MERGE
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of store mutations, by collection and action.",
	},
	[]string{"collection", "action"},
)

// AuditEventsTotal counts audit events appended to the audit_log collection.
var AuditEventsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events appended.",
	},
)

// SeedsAppliedTotal counts collections seeded with bundled sample data.
var SeedsAppliedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seeds_applied_total",
		Help:      "Total number of seed applications, by collection.",
	},
	[]string{"collection"},
)

// SnapshotDocs tracks the current document count in each mirrored snapshot.
var SnapshotDocs = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_documents",
		Help:      "Current number of documents held in each collection snapshot.",
	},
	[]string{"collection"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsActive tracks the number of authenticated sessions held in memory.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of active authenticated sessions.",
	},
)

// ── AI metrics ────────────────────────────────────────────────────────────────

// AIRequestsTotal counts generation requests by operation and outcome.
// Labels:
//   - operation: "summarize", "search" or "refresh"
//   - outcome: "ok" or "error"
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI generation requests, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// SummaryQueueDepth tracks the jobs waiting in each summary worker channel.
var SummaryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "summary_queue_depth",
		Help:      "Current number of summary-refresh jobs pending per worker.",
	},
	[]string{"worker_id"},
)
