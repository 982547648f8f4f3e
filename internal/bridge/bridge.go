package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/radio-control/saltybridge/internal/adapter"
	"github.com/radio-control/saltybridge/internal/audit"
	"github.com/radio-control/saltybridge/internal/exports"
	"github.com/radio-control/saltybridge/internal/host"
	"github.com/radio-control/saltybridge/internal/keybind"
	"github.com/radio-control/saltybridge/internal/plugin"
	"github.com/radio-control/saltybridge/internal/supervisor"
)

// Events emitted by the bridge.
const (
	EventPluginStateChanged = "SaltyChat_PluginStateChanged"
	EventClientResourceStop = "onClientResourceStop"
)

// Host is the part of the host runtime the bridge registers with.
type Host interface {
	keybind.Host
	On(event string, handler host.Handler)
	Emit(event string, args ...any)
	Export(name string, fn exports.Func)
}

// Metrics receives bridge measurements.
type Metrics interface {
	plugin.Recorder
	Unsupported(operation string)
	ReadinessCheck(ready bool)
	RadioEnabled()
	ExportCall(name string, err error)
}

// Auditor records auditable bridge actions.
type Auditor interface {
	Record(ctx context.Context, action, subject string, params map[string]any, err error)
}

// Options configures a Bridge.
type Options struct {
	// ResourceName is the hosting resource; stop events for other resources are ignored.
	ResourceName string
	// ExportTag is sent with the unload notification.
	ExportTag         string
	KeyBinds          keybind.Keys
	ReadinessInterval time.Duration
}

// Deps are the collaborators of a Bridge. Metrics, Audit and Logger are optional.
type Deps struct {
	Host    Host
	Radio   adapter.RadioControl
	Client  adapter.ClientModule
	Labels  keybind.Labeler
	Metrics Metrics
	Audit   Auditor
	Logger  *slog.Logger
}

// Bridge is the SaltyChat compatibility layer.
type Bridge struct {
	opts       Options
	host       Host
	channels   *RadioChannels
	reconciler *plugin.Reconciler
	registrar  *keybind.Registrar
	supervisor *supervisor.Supervisor
	metrics    Metrics
	audit      Auditor
	logger     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New registers the key bindings, the legacy exports and the resource stop
// handler with the host. The radio is not enabled until Start.
func New(opts Options, deps Deps) (*Bridge, error) {
	if deps.Host == nil || deps.Radio == nil || deps.Client == nil {
		return nil, errors.New("bridge requires a host, a radio and a client module")
	}
	if opts.ExportTag == "" {
		opts.ExportTag = "saltychat"
	}

	b := &Bridge{
		opts:     opts,
		host:     deps.Host,
		channels: NewRadioChannels(deps.Radio, deps.Client),
		metrics:  deps.Metrics,
		audit:    deps.Audit,
		logger:   deps.Logger,
	}
	if b.metrics == nil {
		b.metrics = nopMetrics{}
	}
	if b.audit == nil {
		b.audit = nopAuditor{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	b.reconciler = plugin.NewReconciler(plugin.NotifierFunc(b.notifyState), b.metrics)
	b.supervisor = supervisor.New(deps.Client, deps.Radio, supervisor.Options{
		Interval:  opts.ReadinessInterval,
		Logger:    b.logger,
		OnAttempt: b.metrics.ReadinessCheck,
		OnEnabled: b.radioEnabled,
	})

	b.registrar = keybind.NewRegistrar(deps.Host, deps.Labels, b.logger)
	b.registrar.Register(keybind.RadioBindings(deps.Radio, opts.KeyBinds))
	b.registerExports()
	deps.Host.On(host.EventResourceStop, b.onResourceStop)

	b.logger.Info("SaltyChat bridge loaded", "resource", opts.ResourceName, "exports", opts.ExportTag)
	return b, nil
}

// Start launches the radio enable supervisor bound to ctx. Calling Start
// again has no effect.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		return
	}
	ctx, b.cancel = context.WithCancel(ctx)
	b.supervisor.Start(ctx)
}

// Stop cancels the supervisor and waits for it to finish.
func (b *Bridge) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-b.supervisor.Done()
}

// OnStatus handles a plugin response code. Handlers of
// EventPluginStateChanged may read PluginState but must not call back into
// OnStatus or OnDisconnect.
func (b *Bridge) OnStatus(code plugin.StatusCode) {
	b.reconciler.OnStatus(code)
}

// OnDisconnect handles a lost plugin connection.
func (b *Bridge) OnDisconnect() {
	b.reconciler.OnDisconnect()
}

// PluginState returns the last state emitted for a status code.
func (b *Bridge) PluginState() (plugin.State, bool) {
	return b.reconciler.Last()
}

// RadioEnabled reports whether the supervisor enabled the radio.
func (b *Bridge) RadioEnabled() bool {
	return b.supervisor.Enabled()
}

// Channels returns the radio channel facade.
func (b *Bridge) Channels() *RadioChannels {
	return b.channels
}

func (b *Bridge) notifyState(state plugin.State) {
	action := audit.ActionPluginState
	if state == plugin.StateDisconnected {
		action = audit.ActionDisconnect
	}
	b.audit.Record(context.Background(), action, state.String(), map[string]any{"state": int(state)}, nil)
	b.logger.Info("plugin state changed", "state", state.String())

	b.host.Emit(EventPluginStateChanged, int(state))
}

func (b *Bridge) radioEnabled() {
	b.metrics.RadioEnabled()
	b.audit.Record(context.Background(), audit.ActionRadioEnabled, "", nil, nil)
}

func (b *Bridge) onResourceStop(args ...any) {
	if len(args) == 0 {
		return
	}
	if name, _ := args[0].(string); name != b.opts.ResourceName {
		return
	}

	b.audit.Record(context.Background(), audit.ActionResourceUnload, b.opts.ResourceName, nil, nil)
	b.host.Emit(EventClientResourceStop, b.opts.ExportTag)
}

type legacyExport struct {
	name string
	fn   exports.Func
}

func (b *Bridge) registerExports() {
	c := b.channels
	legacy := []legacyExport{
		{"y", func(context.Context, []any) (any, error) {
			return c.VoiceRange(), nil
		}},
		{"GetRadioChannel", func(_ context.Context, args []any) (any, error) {
			return c.Frequency(exports.Truthy(args, 0)), nil
		}},
		{"GetRadioVolume", func(context.Context, []any) (any, error) {
			return c.Volume(), nil
		}},
		{OpGetRadioSpeaker, func(ctx context.Context, _ []any) (any, error) {
			return degrade(ctx, b, c.Speaker(), false), nil
		}},
		{OpGetMicClick, func(ctx context.Context, _ []any) (any, error) {
			return degrade(ctx, b, c.MicClick(), false), nil
		}},
		{"SetRadioChannel", func(_ context.Context, args []any) (any, error) {
			name, err := exports.StringArg(args, 0)
			if err != nil {
				return nil, err
			}
			c.SetFrequency(exports.Truthy(args, 1), name)
			return nil, nil
		}},
		{"SetRadioVolume", func(_ context.Context, args []any) (any, error) {
			level, err := exports.NumberArg(args, 0)
			if err != nil {
				return nil, err
			}
			c.SetVolume(level)
			return nil, nil
		}},
		{OpSetRadioSpeaker, func(ctx context.Context, _ []any) (any, error) {
			degrade(ctx, b, c.SetSpeaker(), None{})
			return nil, nil
		}},
		{OpSetMicClick, func(ctx context.Context, _ []any) (any, error) {
			degrade(ctx, b, c.SetMicClick(), None{})
			return nil, nil
		}},
	}

	for _, e := range legacy {
		b.host.Export(e.name, b.observe(e.name, e.fn))
	}
}

// observe records the call and turns argument errors into a warning and a
// nil result.
func (b *Bridge) observe(name string, fn exports.Func) exports.Func {
	return func(ctx context.Context, args []any) (any, error) {
		result, err := fn(ctx, args)
		b.metrics.ExportCall(name, err)
		if err != nil {
			b.logger.Warn("legacy call ignored", "export", name, "error", err)
			b.audit.Record(ctx, audit.ActionExport, name, map[string]any{"args": fmt.Sprint(args)}, err)
			return nil, nil
		}
		return result, nil
	}
}

// degrade logs and records an unsupported capability and returns its value or def.
func degrade[T any](ctx context.Context, b *Bridge, c Capability[T], def T) T {
	if !c.Supported() {
		b.logger.Warn("legacy operation not implemented", "operation", c.Operation())
		b.metrics.Unsupported(c.Operation())
		b.audit.Record(ctx, audit.ActionUnsupported, c.Operation(), nil, c.Err())
	}
	return c.Or(def)
}

type nopMetrics struct{}

func (nopMetrics) Transition(plugin.State) {}
func (nopMetrics) Suppressed(plugin.StatusCode, plugin.State) {}
func (nopMetrics) Ignored(plugin.StatusCode) {}
func (nopMetrics) Unsupported(string) {}
func (nopMetrics) ReadinessCheck(bool) {}
func (nopMetrics) RadioEnabled() {}
func (nopMetrics) ExportCall(string, error) {}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, string, map[string]any, error) {}
