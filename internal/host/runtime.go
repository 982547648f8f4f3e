package host

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/radio-control/saltybridge/internal/adapter"
	"github.com/radio-control/saltybridge/internal/exports"
	"github.com/radio-control/saltybridge/internal/telemetry"
)

// EventResourceStop is emitted with the resource name when a resource stops.
const EventResourceStop = "onResourceStop"

// Handler receives the arguments of an emitted event.
type Handler func(args ...any)

// Publisher receives every emitted event.
type Publisher interface {
	Publish(event telemetry.Event)
}

// KeyMapping is a registered default key for a command.
type KeyMapping struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Mapper      string `json:"mapper"`
	DefaultKey  string `json:"defaultKey"`
}

type command struct {
	handler    func()
	restricted bool
}

// Runtime hosts one resource.
type Runtime struct {
	mu        sync.RWMutex
	commands  map[string]command
	mappings  []KeyMapping
	handlers  map[string][]Handler
	registry  *exports.Registry
	publisher Publisher
	logger    *slog.Logger
}

// NewRuntime creates a runtime whose exports are published under exportTag.
// publisher may be nil.
func NewRuntime(exportTag string, publisher Publisher, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{
		commands:  make(map[string]command),
		handlers:  make(map[string][]Handler),
		registry:  exports.NewRegistry(exportTag),
		publisher: publisher,
		logger:    logger,
	}
}

// RegisterCommand registers or replaces a named command.
func (rt *Runtime) RegisterCommand(name string, handler func(), restricted bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.commands[name] = command{handler: handler, restricted: restricted}
}

// RegisterKeyMapping records the default key for a command.
func (rt *Runtime) RegisterKeyMapping(cmd, description, mapper, defaultKey string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.mappings = append(rt.mappings, KeyMapping{
		Command:     cmd,
		Description: description,
		Mapper:      mapper,
		DefaultKey:  defaultKey,
	})
}

// ExecuteCommand runs a registered command. Restricted commands are refused
// unless privileged is set.
func (rt *Runtime) ExecuteCommand(name string, privileged bool) error {
	rt.mu.RLock()
	cmd, ok := rt.commands[name]
	rt.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", adapter.ErrUnknownCommand, name)
	}
	if cmd.restricted && !privileged {
		return fmt.Errorf("%w: %s", adapter.ErrRestrictedCommand, name)
	}
	cmd.handler()
	return nil
}

// Commands returns the registered command names in sorted order.
func (rt *Runtime) Commands() []string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	names := make([]string, 0, len(rt.commands))
	for name := range rt.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyMappings returns the registered key mappings in registration order.
func (rt *Runtime) KeyMappings() []KeyMapping {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	out := make([]KeyMapping, len(rt.mappings))
	copy(out, rt.mappings)
	return out
}

// On subscribes handler to event.
func (rt *Runtime) On(event string, handler Handler) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.handlers[event] = append(rt.handlers[event], handler)
}

// Emit delivers event to its handlers in subscription order, then to the
// publisher.
func (rt *Runtime) Emit(event string, args ...any) {
	rt.mu.RLock()
	handlers := make([]Handler, len(rt.handlers[event]))
	copy(handlers, rt.handlers[event])
	rt.mu.RUnlock()

	rt.logger.Debug("event emitted", "event", event, "args", args)
	for _, h := range handlers {
		h(args...)
	}

	if rt.publisher != nil {
		rt.publisher.Publish(telemetry.Event{
			Type: event,
			Data: map[string]any{"args": args},
		})
	}
}

// Export registers a function under the runtime's export tag.
func (rt *Runtime) Export(name string, fn exports.Func) {
	rt.registry.Export(name, fn)
}

// CallExport invokes an export of this runtime.
func (rt *Runtime) CallExport(ctx context.Context, name string, args ...any) (any, error) {
	return rt.registry.Call(ctx, name, args...)
}

// Exports returns the export registry.
func (rt *Runtime) Exports() *exports.Registry {
	return rt.registry
}

// StopResource announces that the named resource stops.
func (rt *Runtime) StopResource(name string) {
	rt.logger.Info("resource stopping", "resource", name)
	rt.Emit(EventResourceStop, name)
}
