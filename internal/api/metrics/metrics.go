// Package metrics defines and registers all custom Prometheus metrics for the
// account backend. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors register themselves with the default Prometheus registry on
// package initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "common"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts completed SSO logins.
// Labels:
//   - provider: the SSO provider name (e.g. "discord")
//   - result: "new_user", "returning_user" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of SSO login attempts, by provider and result.",
	},
	[]string{"provider", "result"},
)

// SessionsTouchedTotal counts last-active writes caused by session resolution.
var SessionsTouchedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_touched_total",
		Help:      "Total number of session last-active updates.",
	},
)

// ── Benefit metrics ───────────────────────────────────────────────────────────

// TierSyncTotal counts benefit-tier syncs.
// Label:
//   - result: "applied", "skipped" or "error"
var TierSyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tier_sync_total",
		Help:      "Total number of patron tier syncs, by result.",
	},
	[]string{"result"},
)

// AlertsRefreshedTotal counts alerts whose expiry was extended.
var AlertsRefreshedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_refreshed_total",
		Help:      "Total number of alerts whose expiry was extended.",
	},
)

// ── Error reporting metrics ───────────────────────────────────────────────────

// ErrorReportsTotal counts unhandled failures seen at the HTTP boundary.
// Labels:
//   - outcome: "notified", "duplicate", "suppressed" or "notify_failed"
//   - code: the HTTP status code returned to the client
var ErrorReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_reports_total",
		Help:      "Total number of error reports, by notification outcome and status code.",
	},
	[]string{"outcome", "code"},
)

// NotificationQueueDepth tracks the number of notifications waiting in each
// dispatcher worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsDroppedTotal counts notifications discarded because a worker
// channel was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped on a full queue.",
	},
)

// NotificationSendDuration measures how long delivering one notification takes.
// Label:
//   - result: "ok" or "error"
var NotificationSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of a single chat notification delivery.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
