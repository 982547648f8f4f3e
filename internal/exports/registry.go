package exports

import (
	"context"
	"fmt"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/radio-control/saltybridge/internal/adapter"
)

const tracerName = "github.com/radio-control/saltybridge/internal/exports"

// Func is an exported function. Setters return a nil result.
type Func func(ctx context.Context, args []any) (any, error)

// Registry maps export names to functions for one resource.
type Registry struct {
	resource string
	funcs    cmap.ConcurrentMap[string, Func]
	tracer   trace.Tracer
}

// NewRegistry creates an empty registry for the resource tag.
func NewRegistry(resource string) *Registry {
	return &Registry{
		resource: resource,
		funcs:    cmap.New[Func](),
		tracer:   otel.Tracer(tracerName),
	}
}

// Resource returns the resource tag the exports are published under.
func (r *Registry) Resource() string {
	return r.resource
}

// Export registers fn under name, replacing any previous function.
func (r *Registry) Export(name string, fn Func) {
	r.funcs.Set(name, fn)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	return r.funcs.Has(name)
}

// Names returns the registered export names in sorted order.
func (r *Registry) Names() []string {
	names := r.funcs.Keys()
	sort.Strings(names)
	return names
}

// Call invokes the export registered under name.
func (r *Registry) Call(ctx context.Context, name string, args ...any) (any, error) {
	ctx, span := r.tracer.Start(ctx, "export "+name,
		trace.WithAttributes(
			attribute.String("export.resource", r.resource),
			attribute.String("export.name", name),
			attribute.Int("export.args", len(args)),
		),
	)
	defer span.End()

	fn, ok := r.funcs.Get(name)
	if !ok {
		err := fmt.Errorf("%w: %s.%s", adapter.ErrUnknownExport, r.resource, name)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := fn(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}
