package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "disaster_response"

// Metrics holds the Prometheus collectors for the assessment pipeline.
type Metrics struct {
	AssessmentsTotal *prometheus.CounterVec   // labels: outcome={terminated,notified,error}
	StageDuration    *prometheus.HistogramVec // labels: stage={detect,risk,plan,notify}
	StageErrors      *prometheus.CounterVec   // labels: stage
	Detections       *prometheus.CounterVec   // labels: type={wildfire,flood,none,unrecognized}
	SeverityLabels   *prometheus.CounterVec   // labels: severity, known={true,false}
	InFlight         prometheus.Gauge

	// Inference client metrics.
	InferenceRequests *prometheus.CounterVec   // labels: kind={vision,text}, outcome={success,error}
	InferenceDuration *prometheus.HistogramVec // labels: kind

	// Notification sinks.
	Deliveries *prometheus.CounterVec // labels: sink, status={delivered,failed,skipped}

	// Alert location geocoding.
	GeocodeCache   *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeEnabled prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.StageDuration,
		m.StageErrors,
		m.Detections,
		m.SeverityLabels,
		m.InFlight,
		m.InferenceRequests,
		m.InferenceDuration,
		m.Deliveries,
		m.GeocodeCache,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed pipeline invocations by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Terminal stage failures by stage.",
		}, []string{"stage"}),
		Detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Detection results by disaster type.",
		}, []string{"type"}),
		SeverityLabels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "severity_labels_total",
			Help:      "Risk labels returned by the model, flagged when outside the rubric.",
		}, []string{"severity", "known"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assessments_in_flight",
			Help:      "Pipeline invocations currently running.",
		}),
		InferenceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_requests_total",
			Help:      "Inference API calls by model kind and outcome.",
		}, []string{"kind", "outcome"}),
		InferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Inference API call duration including client retries.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_deliveries_total",
			Help:      "Notification attempts by sink and status.",
		}, []string{"sink", "status"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Alert location geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when alert location geocoding is enabled, 0 otherwise.",
		}),
	}
}

// CounterValue reads the current value of a counter or gauge. Returns 0 for
// any other collector type.
func CounterValue(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	}
	return 0
}
