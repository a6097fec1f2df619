package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

const namespace = "facturation"

var _ billing.Recorder = (*Recorder)(nil)

// Recorder implementa billing.Recorder con contadores Prometheus sobre un registro propio.
type Recorder struct {
	registry *prometheus.Registry

	validations   *prometheus.CounterVec
	saved         *prometheus.CounterVec
	rendered      *prometheus.CounterVec
	pages         *prometheus.CounterVec
	overflows     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewRecorder crea el registro con las métricas de documentos, HTTP y del runtime de Go.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Document validations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_saved_total",
			Help:      "Documents persisted by kind.",
		}, []string{"kind"}),
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_rendered_total",
			Help:      "PDF documents rendered by kind.",
		}, []string{"kind"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_pages_total",
			Help:      "PDF pages rendered by kind.",
		}, []string{"kind"}),
		overflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_overflows_total",
			Help:      "Layouts rejected because a block exceeds a page body.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	r.registry.MustRegister(
		r.validations, r.saved, r.rendered, r.pages, r.overflows,
		r.httpRequests, r.httpDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ValidationCompleted(kind entity.Kind, valid bool) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	r.validations.WithLabelValues(string(kind), outcome).Inc()
}

func (r *Recorder) DocumentSaved(kind entity.Kind) {
	r.saved.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) DocumentRendered(kind entity.Kind, pages int) {
	r.rendered.WithLabelValues(string(kind)).Inc()
	r.pages.WithLabelValues(string(kind)).Add(float64(pages))
}

func (r *Recorder) LayoutOverflow(kind entity.Kind) {
	r.overflows.WithLabelValues(string(kind)).Inc()
}

// ObserveHTTP registra una petición HTTP terminada.
func (r *Recorder) ObserveHTTP(route, method string, status int, seconds float64) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDurations.WithLabelValues(route, method).Observe(seconds)
}

// Handler expone el registro en formato de exposición Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registro subyacente.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
