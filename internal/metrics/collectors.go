package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every ghostwriter collector.
var Registry = prometheus.NewRegistry()

var (
	Cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghostwriter_cycles_total",
		Help: "Trigger cycles started.",
	})
	CycleErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghostwriter_cycle_errors_total",
		Help: "Cycles that ended in an error, by error kind.",
	}, []string{"kind"})
	PenStrokes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghostwriter_pen_strokes_total",
		Help: "Pen-down transitions emitted.",
	})
	Keystrokes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghostwriter_keystrokes_total",
		Help: "Characters typed through the virtual keyboard.",
	})
	ToolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghostwriter_tool_calls_total",
		Help: "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})
	DispatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghostwriter_dispatch_duration_seconds",
		Help:    "Model request latency by vendor.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"vendor"})
)

func init() {
	Registry.MustRegister(Cycles, CycleErrors, PenStrokes, Keystrokes, ToolCalls, DispatchDuration)
}

// ObserveDispatch records one model request.
func ObserveDispatch(vendor string, d time.Duration) {
	DispatchDuration.WithLabelValues(vendor).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
