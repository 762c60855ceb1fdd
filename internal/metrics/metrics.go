package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)

	// ledger
	CreditsDebited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_credits_debited_total",
			Help: "Credits consumed by image generations",
		},
	)
	CreditsPurchased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_credits_purchased_total",
			Help: "Credits added by verified payments",
		},
	)

	// payments, result = ok|signature_mismatch|order_not_paid|already_processed|...
	PaymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Payment callback verifications by result",
		},
		[]string{"result"},
	)
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_orders_created_total",
			Help: "Gateway orders created by plan",
		},
		[]string{"plan"},
	)

	// image generation
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_generations_total",
			Help: "Image generation attempts by result",
		},
		[]string{"result"},
	)
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_seconds",
			Help:    "Latency of calls to external services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			InFlight,
			CreditsDebited,
			CreditsPurchased,
			PaymentVerifications,
			OrdersCreated,
			Generations,
			UpstreamLatency,
			WorkerQueueDepth,
		)
	})
}
