package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PermissionToggles counts controller operations by operation and outcome (applied|ignored).
	PermissionToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permstate_toggles_total",
			Help: "Total number of permission state operations",
		},
		[]string{"operation", "outcome"},
	)

	// PermissionResets counts resets that restored a baseline.
	PermissionResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "permstate_resets_total",
			Help: "Total number of permission state resets",
		},
	)

	// BaselinesCaptured counts baseline captures by seed (saved|default).
	BaselinesCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permstate_baselines_captured_total",
			Help: "Total number of captured permission baselines",
		},
		[]string{"seed"},
	)

	// DeferredNotifications tracks deferred change notifications (scheduled|delivered|cancelled).
	DeferredNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permstate_deferred_notifications_total",
			Help: "Deferred permission change notifications by outcome",
		},
		[]string{"outcome"},
	)
)
