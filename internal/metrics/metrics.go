package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RouteEstimates counts route queries by outcome status and long-distance flag
	RouteEstimates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_estimates_total", Help: "Route estimates by provider status."},
		[]string{"status", "long_distance"},
	)

	// DelayDecisions counts rain-delay evaluations by outcome (clear, rain, severe, no_forecast)
	DelayDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rain_delay_decisions_total", Help: "Rain-delay evaluations by outcome."},
		[]string{"outcome"},
	)
	// DelayWrites counts persistence attempts of delay decisions
	DelayWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rain_delay_writes_total", Help: "Rain-delay persistence attempts by result."},
		[]string{"result"},
	)

	// WeatherRefreshes counts forecast cache refreshes
	WeatherRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "weather_cache_refreshes_total", Help: "Forecast cache refreshes by result."},
		[]string{"result"},
	)

	// RemindersSent counts push reminders by window (1h, 24h)
	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "job_reminders_sent_total", Help: "Job reminders sent by window."},
		[]string{"window"},
	)

	// WebSocketClients is the number of connected dispatcher feeds
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "websocket_clients", Help: "Connected websocket clients."},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RouteEstimates)
		Registry.MustRegister(DelayDecisions)
		Registry.MustRegister(DelayWrites)
		Registry.MustRegister(WeatherRefreshes)
		Registry.MustRegister(RemindersSent)
		Registry.MustRegister(WebSocketClients)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus text format
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveRouteEstimate(status string, longDistance bool) {
	RouteEstimates.WithLabelValues(status, strconv.FormatBool(longDistance)).Inc()
}

func ObserveDelayDecision(outcome string) {
	DelayDecisions.WithLabelValues(outcome).Inc()
}

func ObserveDelayWrite(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	DelayWrites.WithLabelValues(result).Inc()
}

func ObserveWeatherRefresh(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	WeatherRefreshes.WithLabelValues(result).Inc()
}

func ObserveReminders(window string, sent int) {
	RemindersSent.WithLabelValues(window).Add(float64(sent))
}
