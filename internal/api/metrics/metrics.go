// Package metrics defines and registers all custom Prometheus metrics for the
// Autocredits CRM API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry at init
// time via promauto; the /metrics endpoint is wired by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful user registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Lead metrics ──────────────────────────────────────────────────────────────

// LeadsCreatedTotal counts newly created leads.
// Label:
//   - source: "reference" or "walk-in"
var LeadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_created_total",
		Help:      "Total number of sales leads created, by source.",
	},
	[]string{"source"},
)

// LeadStatusChangesTotal counts lead status transitions.
// Label:
//   - status: the status applied (e.g. "sold")
var LeadStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_status_changes_total",
		Help:      "Total number of lead status transitions, by new status.",
	},
	[]string{"status"},
)

// LeadExportsTotal counts completed CSV exports.
var LeadExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_exports_total",
		Help:      "Total number of lead CSV exports served.",
	},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// CarsCreatedTotal counts cars added to the inventory.
var CarsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cars_created_total",
		Help:      "Total number of cars added to the inventory.",
	},
)
