// Package metrics defines Prometheus metrics for the card pricing engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cpe"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded.",
	})
)

// Search pipeline metrics.
var (
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of full search pipeline passes in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	NormalizationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "normalization_failures_total",
		Help:      "Total number of products skipped due to normalization failure.",
	})

	PriceCalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_calculations_total",
		Help:      "Total number of retail price calculations performed.",
	})

	RetailPriceDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "retail_price_distribution",
		Help:      "Distribution of computed final retail prices.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 12), // 0.25 .. 512
	})
)

// Marketplace API metrics.
var (
	MarketAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_api_calls_total",
		Help:      "Total cumulative marketplace API calls.",
	})

	MarketDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "market_daily_usage",
		Help:      "Current daily marketplace API call count within the rolling 24-hour window.",
	})

	MarketDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_daily_limit_hits_total",
		Help:      "Total number of times the daily marketplace API limit was reached.",
	})
)

// Cache metrics.
var (
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of search cache hits.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of search cache misses.",
	})
)

// CSV ingestion metrics.
var (
	IngestRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_rows_total",
		Help:      "Total number of CSV rows accepted, by upload kind.",
	}, []string{"kind"})

	IngestSkippedRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_skipped_rows_total",
		Help:      "Total number of CSV rows skipped as unparseable, by upload kind.",
	}, []string{"kind"})
)

// Currency metrics.
var (
	CurrencyRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "currency_refresh_failures_total",
		Help:      "Total number of failed currency rate refreshes.",
	})

	CurrencyRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "currency_rate",
		Help:      "Last successfully fetched USD to store currency rate.",
	})
)
