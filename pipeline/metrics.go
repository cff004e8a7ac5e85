package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucasjlepore/huawei-weight-export/healthjson"
)

const metricsNamespace = "weight_export"

// Metrics collects per-run counters on a private registry. All methods are
// safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	files         *prometheus.CounterVec
	pointsSkipped *prometheus.CounterVec
	readings      prometheus.Counter
	overwritten   prometheus.Counter
	filesWritten  prometheus.Counter
	users         prometheus.Gauge
	lastRunUnix   prometheus.Gauge
}

// NewMetrics registers the run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "input_files_total",
			Help:      "Input files processed, by outcome (parsed or the skip reason).",
		}, []string{"outcome"}),
		pointsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "points_skipped_total",
			Help:      "Weight sample points dropped, by reason.",
		}, []string{"reason"}),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "readings_total",
			Help:      "Readings merged into the table, including replaced ones.",
		}),
		overwritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "readings_overwritten_total",
			Help:      "Readings that replaced an earlier value at the same user and timestamp.",
		}),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "output_files_total",
			Help:      "Output files written.",
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "users",
			Help:      "Distinct user ids in the last run.",
		}),
		lastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(
		m.files,
		m.pointsSkipped,
		m.readings,
		m.overwritten,
		m.filesWritten,
		m.users,
		m.lastRunUnix,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests or a push gateway.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format, suitable for
// the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeFile(out healthjson.FileOutcome) {
	if m == nil {
		return
	}
	if out.Parsed() {
		m.files.WithLabelValues("parsed").Inc()
	} else {
		m.files.WithLabelValues(string(out.Skipped)).Inc()
	}
	for reason, n := range out.PointSkips {
		m.pointsSkipped.WithLabelValues(string(reason)).Add(float64(n))
	}
}

func (m *Metrics) observeMerge(readings, overwritten int) {
	if m == nil {
		return
	}
	m.readings.Add(float64(readings))
	m.overwritten.Add(float64(overwritten))
}

func (m *Metrics) observeWrite(users, written int, finished time.Time) {
	if m == nil {
		return
	}
	m.users.Set(float64(users))
	m.filesWritten.Add(float64(written))
	m.lastRunUnix.Set(float64(finished.Unix()))
}
