package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerProviderOptions configures the optional tracing backend wrapping a
// graph build. The core never requires a live collector: with
// OTLPEndpoint empty, spans are recorded in-process only and discarded.
type TracerProviderOptions struct {
	OTLPEndpoint string
	ServiceName  string
}

// NewTracerProvider builds an *sdktrace.TracerProvider. Call Shutdown on the
// returned provider when the build completes.
func NewTracerProvider(ctx context.Context, opts TracerProviderOptions) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(serviceNameOrDefault(opts.ServiceName)),
	))
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if opts.OTLPEndpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(opts.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(tpOpts...), nil
}

func serviceNameOrDefault(name string) string {
	if name == "" {
		return "ts-callpath"
	}
	return name
}

// Tracer returns the package-level tracer used by the parser, the graph
// builder, and the CLI's pipeline-step spans (including the layout step). Callers that never install a TracerProvider get otel's
// global no-op tracer, so tracing is always safe to call unconditionally.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/drivasperez/ts-callpath")
}
