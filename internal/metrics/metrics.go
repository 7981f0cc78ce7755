// Package metrics exposes Prometheus metrics for the wildcard MCP server:
// tool call counts and latencies, draw sizes, and the loaded catalog shape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "wildcard_mcp"
)

var (
	// RequestsTotal counts MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures tool call latency
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Tool call latency distribution by tool",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of tool calls currently being processed",
	}, []string{"tool"})

	// ItemsDrawn counts items returned per category
	ItemsDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "items_drawn_total",
		Help:      "Total number of items returned by category",
	}, []string{"category"})

	// OverCountRequests counts draws that asked for more items than the category holds
	OverCountRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "over_count_requests_total",
		Help:      "Draws that requested more items than the category holds",
	}, []string{"category"})

	// UnknownCategoryRequests counts draws against a category that is not loaded.
	// The requested name is not a label; it is caller-controlled.
	UnknownCategoryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "unknown_category_requests_total",
		Help:      "Draws that named a category which is not loaded",
	})

	// CategoriesLoaded is the number of categories in the serving catalog
	CategoriesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "categories_loaded",
		Help:      "Number of categories in the loaded catalog",
	})

	// CategoryItems is the number of items per loaded category
	CategoryItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "category_items",
		Help:      "Number of items in each loaded category",
	}, []string{"category"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})
)

// RecordRequest records a completed request with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordDraw records the outcome of a draw from a known category
func RecordDraw(category string, items int, exceeded bool) {
	if exceeded {
		OverCountRequests.WithLabelValues(category).Inc()
		return
	}
	ItemsDrawn.WithLabelValues(category).Add(float64(items))
}

// SetCatalog publishes the shape of the loaded catalog
func SetCatalog(sizes map[string]int) {
	CategoriesLoaded.Set(float64(len(sizes)))
	for name, n := range sizes {
		CategoryItems.WithLabelValues(name).Set(float64(n))
	}
}
