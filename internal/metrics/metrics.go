// Package metrics exposes the API's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dailymood"

// Chat reply sources
const (
	ReplySourceLLM      = "llm"
	ReplySourceFallback = "fallback"
	ReplySourceCrisis   = "crisis"
)

// Prediction outcomes
const (
	PredictionComputed     = "computed"
	PredictionInsufficient = "insufficient_data"
	PredictionFailed       = "failed"
)

// Recorder owns a registry and every metric the API records. A nil
// *Recorder is valid and records nothing, so tests can skip metrics.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	predictions          *prometheus.CounterVec
	predictionConfidence prometheus.Histogram
	predictionLatency    prometheus.Histogram

	chatReplies *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
}

// New creates a Recorder with its own registry, including Go runtime and
// process collectors
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "requests_total",
			Help:      "Total number of mood predictions by outcome",
		},
		[]string{"outcome"},
	)

	r.predictionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "confidence",
			Help:      "Confidence of served predictions",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		},
	)

	r.predictionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "duration_seconds",
			Help:      "Time spent loading history and predicting",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	r.chatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Supportive chat replies by source",
		},
		[]string{"source"},
	)

	r.rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"limiter"},
	)

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpLatency,
		r.predictions,
		r.predictionConfidence,
		r.predictionLatency,
		r.chatReplies,
		r.rateLimited,
	)

	return r
}

func (r *Recorder) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// ObservePrediction records a served prediction
func (r *Recorder) ObservePrediction(outcome string, confidence float64, latency time.Duration) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(outcome).Inc()
	if outcome != PredictionFailed {
		r.predictionConfidence.Observe(confidence)
	}
	r.predictionLatency.Observe(latency.Seconds())
}

func (r *Recorder) ObserveChatReply(source string) {
	if r == nil {
		return
	}
	r.chatReplies.WithLabelValues(source).Inc()
}

func (r *Recorder) ObserveRateLimited(limiter string) {
	if r == nil {
		return
	}
	r.rateLimited.WithLabelValues(limiter).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
