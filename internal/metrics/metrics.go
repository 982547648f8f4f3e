package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/radio-control/saltybridge/internal/plugin"
)

const namespace = "saltybridge"

// Metrics holds the bridge collectors.
type Metrics struct {
	registry *prometheus.Registry

	pluginState      prometheus.Gauge
	transitions      *prometheus.CounterVec
	suppressed       *prometheus.CounterVec
	ignored          *prometheus.CounterVec
	unsupportedCalls *prometheus.CounterVec
	readinessChecks  *prometheus.CounterVec
	radioEnabled     prometheus.Gauge
	exportCalls      *prometheus.CounterVec
}

// Compile-time assertion that Metrics implements plugin.Recorder
var _ plugin.Recorder = (*Metrics)(nil)

// New creates and registers the bridge collectors, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pluginState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugin_state",
			Help:      "Last emitted plugin state (-1 disconnected, 0 error, 1 degraded, 2 ready).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_state_transitions_total",
			Help:      "Plugin state notifications emitted, by state.",
		}, []string{"state"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_status_suppressed_total",
			Help:      "Status codes that resolved to the already emitted state.",
		}, []string{"code"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_status_ignored_total",
			Help:      "Status codes that carry no health information.",
		}, []string{"code"}),
		unsupportedCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unsupported_calls_total",
			Help:      "Legacy operations invoked that the backend cannot provide.",
		}, []string{"operation"}),
		readinessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readiness_checks_total",
			Help:      "Voice plugin readiness checks made before enabling the radio.",
		}, []string{"ready"}),
		radioEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "radio_enabled",
			Help:      "1 once the radio was enabled.",
		}),
		exportCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_calls_total",
			Help:      "Legacy export invocations, by export and outcome.",
		}, []string{"export", "outcome"}),
	}

	m.pluginState.Set(float64(plugin.StateDisconnected))
	m.registry.MustRegister(
		m.pluginState,
		m.transitions,
		m.suppressed,
		m.ignored,
		m.unsupportedCalls,
		m.readinessChecks,
		m.radioEnabled,
		m.exportCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Transition records an emitted plugin state.
func (m *Metrics) Transition(state plugin.State) {
	m.pluginState.Set(float64(state))
	m.transitions.WithLabelValues(state.String()).Inc()
}

// Suppressed records a status code deduplicated against the last state.
func (m *Metrics) Suppressed(code plugin.StatusCode, _ plugin.State) {
	m.suppressed.WithLabelValues(codeLabel(code)).Inc()
}

// Ignored records an auxiliary or unknown status code.
func (m *Metrics) Ignored(code plugin.StatusCode) {
	m.ignored.WithLabelValues(codeLabel(code)).Inc()
}

// unknownCode labels every status code outside the protocol's set.
const unknownCode = "unknown"

func codeLabel(code plugin.StatusCode) string {
	if known, ok := plugin.ParseStatusCode(string(code)); ok {
		return string(known)
	}
	return unknownCode
}

// Unsupported records a call to a legacy operation with no backend support.
func (m *Metrics) Unsupported(operation string) {
	m.unsupportedCalls.WithLabelValues(operation).Inc()
}

// ReadinessCheck records one readiness poll.
func (m *Metrics) ReadinessCheck(ready bool) {
	m.readinessChecks.WithLabelValues(strconv.FormatBool(ready)).Inc()
}

// RadioEnabled marks the radio as enabled.
func (m *Metrics) RadioEnabled() {
	m.radioEnabled.Set(1)
}

// ExportCall records one export invocation.
func (m *Metrics) ExportCall(name string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.exportCalls.WithLabelValues(name, outcome).Inc()
}
