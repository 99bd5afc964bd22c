// Package metrics defines all custom Prometheus metrics for the identity
// service. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// SigninsTotal counts sign-in attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "throttled" or "error"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts registrations by outcome.
// Label:
//   - result: "success", "duplicate_email" or "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of registrations, by result.",
	},
	[]string{"result"},
)

// RoleMutationsTotal counts role administration writes.
// Labels:
//   - operation: "create", "update" or "delete"
//   - result: "success" or "error"
var RoleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_mutations_total",
		Help:      "Total number of role create/update/delete operations, by result.",
	},
	[]string{"operation", "result"},
)

// PermissionCodesSkippedTotal counts permission codes requested on a role
// write that do not exist in the catalog and were silently skipped.
var PermissionCodesSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_codes_skipped_total",
		Help:      "Total number of unknown permission codes skipped during role writes.",
	},
)
