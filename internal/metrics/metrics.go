// Package metrics exposes the pipeline's counters in Prometheus format.
//
// A nil *Recorder is valid and records nothing, so stages can be used
// without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "iconpipe"

// Recorder owns a private registry and the pipeline counters registered on it.
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	jobs           *prometheus.CounterVec
	rasterUnits    *prometheus.CounterVec
	assets         *prometheus.CounterVec
	manifests      prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunSuccess prometheus.Gauge
}

// New creates a recorder with all collectors registered, including the Go
// runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_jobs_total",
			Help:      "Render jobs by result (rendered, skipped, failed).",
		}, []string{"result"}),
		rasterUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raster_units_total",
			Help:      "Rasterization units by size and result.",
		}, []string{"size", "result"}),
		assets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vector_assets_total",
			Help:      "Rendered vector assets by staleness (stale, unchanged).",
		}, []string{"state"}),
		manifests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "library_manifests_total",
			Help:      "Library manifest files written.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of complete pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the most recent run succeeded, 0 otherwise.",
		}),
	}
	r.registry.MustRegister(
		r.runs, r.jobs, r.rasterUnits, r.assets, r.manifests, r.runDuration, r.lastRunSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// JobRendered counts a job whose markup was written.
func (r *Recorder) JobRendered() { r.job("rendered") }

// JobSkipped counts a job skipped for a missing template.
func (r *Recorder) JobSkipped() { r.job("skipped") }

// JobFailed counts a job whose rendering or write failed.
func (r *Recorder) JobFailed() { r.job("failed") }

func (r *Recorder) job(result string) {
	if r == nil {
		return
	}
	r.jobs.WithLabelValues(result).Inc()
}

// AssetStale counts a vector asset scheduled for rasterization.
func (r *Recorder) AssetStale() { r.asset("stale") }

// AssetUnchanged counts a vector asset whose rasters were left untouched.
func (r *Recorder) AssetUnchanged() { r.asset("unchanged") }

func (r *Recorder) asset(state string) {
	if r == nil {
		return
	}
	r.assets.WithLabelValues(state).Inc()
}

// RasterUnit counts a finished rasterization unit.
func (r *Recorder) RasterUnit(size int, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	r.rasterUnits.WithLabelValues(strconv.Itoa(size), result).Inc()
}

// ManifestWritten counts a library manifest file.
func (r *Recorder) ManifestWritten() {
	if r == nil {
		return
	}
	r.manifests.Inc()
}

// RunFinished records the outcome and duration of a pipeline run.
func (r *Recorder) RunFinished(seconds float64, err error) {
	if r == nil {
		return
	}
	r.runDuration.Observe(seconds)
	if err != nil {
		r.runs.WithLabelValues("failed").Inc()
		r.lastRunSuccess.Set(0)
		return
	}
	r.runs.WithLabelValues("succeeded").Inc()
	r.lastRunSuccess.Set(1)
}
