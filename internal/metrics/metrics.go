package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oganj"

// Registry is the process-wide Prometheus registry.
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// SignIns counts operator sign-in attempts by outcome (ok, rejected, error).
var SignIns = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Operator sign-in attempts by outcome",
	},
	[]string{"outcome"},
)

// EventSubmissions counts event form submissions by kind (create, update)
// and outcome (ok, invalid, upload_failed, store_failed).
var EventSubmissions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_submissions_total",
		Help:      "Event form submissions by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// EventDeletions counts delete actions by outcome (ok, error).
var EventDeletions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_deletions_total",
		Help:      "Event deletions by outcome",
	},
	[]string{"outcome"},
)

// AssetUploads counts image uploads by outcome (ok, error).
var AssetUploads = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_uploads_total",
		Help:      "Image asset uploads by outcome",
	},
	[]string{"outcome"},
)

// ProjectionLoads counts public page projection loads by outcome
// (ok, empty, error).
var ProjectionLoads = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projection_loads_total",
		Help:      "Public upcoming-events projection loads by outcome",
	},
	[]string{"outcome"},
)

// Init records build info and registers the standard process collectors.
func Init(version, commit, buildDate string) {
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
