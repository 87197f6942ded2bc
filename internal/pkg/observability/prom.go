package observability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"zmbs.dev/eggseed/internal/constant"
)

// Registry holds the seed run metrics only. A seed run is a batch job that
// cannot be scraped, so the registry is flushed to a node-exporter textfile
// at the end of the run instead of being served.
var Registry = prometheus.NewRegistry()

var (
	VerifyDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(constant.ServiceName, "catalog", "verify_duration_seconds"),
		Help:    "Duration of a catalogue verifier pass in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"verifier"})
	Violations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "catalog", "violations_total"),
		Help: "Violations found in the catalogue by code and severity",
	}, []string{"code", "severity"})
	Records = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "load", "records_total"),
		Help: "Records handled by the loader by outcome",
	}, []string{"outcome"})
	LoadDuration = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "load", "duration_seconds"),
		Help: "Duration of the last load run in seconds",
	})
	LastSuccess = promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(constant.ServiceName, "run", "last_success_timestamp_seconds"),
		Help: "Unix time of the last successful run per command",
	}, []string{"command"})
)

// WriteTextfile flushes the registry to path. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return errors.Wrap(err, "failed to write metrics textfile")
	}
	return nil
}
