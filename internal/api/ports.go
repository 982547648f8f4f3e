package api

import (
	"context"
	"net/http"

	"github.com/radio-control/saltybridge/internal/bridge"
	"github.com/radio-control/saltybridge/internal/host"
	"github.com/radio-control/saltybridge/internal/metrics"
	"github.com/radio-control/saltybridge/internal/plugin"
	"github.com/radio-control/saltybridge/internal/radio"
	"github.com/radio-control/saltybridge/internal/telemetry"
	"github.com/radio-control/saltybridge/internal/voice"
)

// BridgePort defines what the API reads from the compatibility bridge.
type BridgePort interface {
	PluginState() (plugin.State, bool)
	RadioEnabled() bool
}

// ClientPort defines the client module calls driven by the status endpoints.
type ClientPort interface {
	HandleResponse(raw string) plugin.StatusCode
	HandleDisconnect()
	IsPluginInitialized(strict bool) bool
}

// HostPort defines the host runtime calls exposed over HTTP.
type HostPort interface {
	ExecuteCommand(name string, privileged bool) error
	CallExport(ctx context.Context, name string, args ...any) (any, error)
}

// TelemetryPort defines the minimal interface the API needs from the telemetry hub.
type TelemetryPort interface {
	Subscribe(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// RadioReadPort defines the minimal interface for radio read operations.
type RadioReadPort interface {
	Snapshot() *radio.Snapshot
}

// MetricsPort exposes the Prometheus handler.
type MetricsPort interface {
	Handler() http.Handler
}

// Compile-time assertions for port conformance
var _ BridgePort = (*bridge.Bridge)(nil)
var _ ClientPort = (*voice.Client)(nil)
var _ HostPort = (*host.Runtime)(nil)
var _ TelemetryPort = (*telemetry.Hub)(nil)
var _ RadioReadPort = (*radio.Manager)(nil)
var _ MetricsPort = (*metrics.Metrics)(nil)
