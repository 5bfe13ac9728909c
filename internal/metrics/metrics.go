package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventsportify"

// Registry is the Prometheus registry backing /metrics.
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels, always set to 1.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// RegistrationsTotal counts successful participant registrations.
var RegistrationsTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful participant registrations",
	},
)

// RegistrationFailures counts rejected registrations by reason.
var RegistrationFailures = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_failures_total",
		Help:      "Total number of rejected participant registrations",
	},
	[]string{"reason"},
)

// Failure reasons recorded on RegistrationFailures.
const (
	ReasonSoldOut           = "sold_out"
	ReasonAlreadyRegistered = "already_registered"
	ReasonEventNotFound     = "event_not_found"
	ReasonValidation        = "validation"
	ReasonInternal          = "internal"
)

// EventsCreatedTotal counts events created by organizers.
var EventsCreatedTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created",
	},
)

// TicketsRemaining exposes the current ticket count per event.
var TicketsRemaining = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tickets_remaining",
		Help:      "Tickets currently available per event",
	},
	[]string{"event_id"},
)

// Init sets build information. Call once at startup.
func Init(version, commit, buildDate string) {
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
