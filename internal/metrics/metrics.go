// Package metrics holds Prometheus gauges describing the last envgen run.
// envgen is short-lived, so instead of serving /metrics it writes the
// registry to a node-exporter textfile when one is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is private to envgen so the textfile carries no Go runtime noise.
var Registry = prometheus.NewRegistry()

var (
	LastRunSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envgen_last_run_success",
			Help: "1 when the last run wrote the env file, 0 otherwise.",
		})

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envgen_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		})

	LastRunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envgen_last_run_duration_seconds",
			Help: "Wall time of the last run.",
		})

	EntriesWritten = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envgen_entries_written",
			Help: "Number of variables written by the last successful run.",
		})

	MissingSecrets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envgen_missing_secrets",
			Help: "Referenced secrets that were undefined in the last run.",
		})

	LastRunFailure = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "envgen_last_run_failure",
			Help: "1 for the failure kind of the last run, if it failed.",
		}, []string{"kind"})
)

func init() {
	Registry.MustRegister(
		LastRunSuccess,
		LastRunTimestamp,
		LastRunDuration,
		EntriesWritten,
		MissingSecrets,
		LastRunFailure,
	)
}

// ObserveSuccess records a run that wrote entries, missing of them empty.
func ObserveSuccess(entries, missing int, took time.Duration, at time.Time) {
	LastRunFailure.Reset()
	LastRunSuccess.Set(1)
	EntriesWritten.Set(float64(entries))
	MissingSecrets.Set(float64(missing))
	observeTiming(took, at)
}

// ObserveFailure records a run that stopped with the given failure kind.
func ObserveFailure(kind string, took time.Duration, at time.Time) {
	LastRunFailure.Reset()
	LastRunFailure.WithLabelValues(kind).Set(1)
	LastRunSuccess.Set(0)
	EntriesWritten.Set(0)
	observeTiming(took, at)
}

func observeTiming(took time.Duration, at time.Time) {
	LastRunDuration.Set(took.Seconds())
	LastRunTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry atomically in the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
