package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	answersTotal        *prometheus.CounterVec
	retrievalHitTotal   *prometheus.CounterVec
	noContextTotal      *prometheus.CounterVec
	retrievedPassages   *prometheus.HistogramVec
	pipelineDuration    *prometheus.HistogramVec
	qualityFlaggedTotal *prometheus.CounterVec
	webFallbackTotal    *prometheus.CounterVec
	sessionEvictions    *prometheus.CounterVec
	feedbackTotal       *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ae",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ae",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	answersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "answers_total",
			Help:      "Total synthesized answers by output format.",
		},
		[]string{"service", "format"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "retrieval_hit_total",
			Help:      "Total answers backed by at least one retrieved passage.",
		},
		[]string{"service"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "no_context_total",
			Help:      "Total answers produced without retrieved context.",
		},
		[]string{"service"},
	)
	retrievedPassages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "retrieved_passages",
			Help:      "Distribution of retrieved passages per answer.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end answer pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	qualityFlaggedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "quality_flagged_total",
			Help:      "Total answers flagged for low confidence or high risk.",
		},
		[]string{"service"},
	)
	webFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "pipeline",
			Name:      "web_fallback_total",
			Help:      "Total retrievals that fell back to web search.",
		},
		[]string{"service"},
	)
	sessionEvictions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "session",
			Name:      "evictions_total",
			Help:      "Total sessions evicted by the LRU cap.",
		},
		[]string{"service"},
	)
	feedbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ae",
			Subsystem: "feedback",
			Name:      "submissions_total",
			Help:      "Total feedback submissions by verdict.",
		},
		[]string{"service", "verdict"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		answersTotal,
		retrievalHitTotal,
		noContextTotal,
		retrievedPassages,
		pipelineDuration,
		qualityFlaggedTotal,
		webFallbackTotal,
		sessionEvictions,
		feedbackTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		answersTotal:        answersTotal,
		retrievalHitTotal:   retrievalHitTotal,
		noContextTotal:      noContextTotal,
		retrievedPassages:   retrievedPassages,
		pipelineDuration:    pipelineDuration,
		qualityFlaggedTotal: qualityFlaggedTotal,
		webFallbackTotal:    webFallbackTotal,
		sessionEvictions:    sessionEvictions,
		feedbackTotal:       feedbackTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *HTTPServerMetrics) RecordAnswer(service, format string, passageCount int, flagged bool, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	m.answersTotal.WithLabelValues(service, format).Inc()
	m.retrievedPassages.WithLabelValues(service).Observe(float64(passageCount))
	m.pipelineDuration.WithLabelValues(service).Observe(duration.Seconds())

	if passageCount > 0 {
		m.retrievalHitTotal.WithLabelValues(service).Inc()
	} else {
		m.noContextTotal.WithLabelValues(service).Inc()
	}
	if flagged {
		m.qualityFlaggedTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordWebFallback(service string) {
	m.webFallbackTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordSessionEviction(service string) {
	m.sessionEvictions.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordFeedback(service string, helpful bool) {
	verdict := "helpful"
	if !helpful {
		verdict = "unhelpful"
	}
	m.feedbackTotal.WithLabelValues(service, verdict).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
