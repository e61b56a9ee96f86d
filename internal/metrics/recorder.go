package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder observes build cycles.
type Recorder interface {
	PagesDiscovered(n int)
	FragmentSpliced(id string)
	Diagnostic(op string)
	BuildFinished(d time.Duration, ok bool)
}

// NoopRecorder drops every observation.
type NoopRecorder struct{}

func (NoopRecorder) PagesDiscovered(int)               {}
func (NoopRecorder) FragmentSpliced(string)            {}
func (NoopRecorder) Diagnostic(string)                 {}
func (NoopRecorder) BuildFinished(time.Duration, bool) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pages         prom.Gauge
	fragments     *prom.CounterVec
	diagnostics   *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: "hydrate",
			Name:      "pages_discovered",
			Help:      "Pages discovered by the last build",
		}),
		fragments: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hydrate",
			Name:      "fragments_spliced_total",
			Help:      "Fragments spliced into pages",
		}, []string{"fragment"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hydrate",
			Name:      "diagnostics_total",
			Help:      "Recoverable build failures by phase",
		}, []string{"op"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "hydrate",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "hydrate",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.pages, pr.fragments, pr.diagnostics, pr.buildDuration, pr.buildOutcome)
	return pr
}

func (pr *PrometheusRecorder) PagesDiscovered(n int) {
	pr.pages.Set(float64(n))
}

func (pr *PrometheusRecorder) FragmentSpliced(id string) {
	pr.fragments.WithLabelValues(id).Inc()
}

func (pr *PrometheusRecorder) Diagnostic(op string) {
	pr.diagnostics.WithLabelValues(op).Inc()
}

func (pr *PrometheusRecorder) BuildFinished(d time.Duration, ok bool) {
	pr.buildDuration.Observe(d.Seconds())
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}
