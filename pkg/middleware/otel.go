package middleware

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/viaduct-ui/viaduct/pkg/nav"
)

const defaultTracerName = "viaduct"

// TracingConfig configures the OpenTelemetry navigation observer.
type TracingConfig struct {
	// TracerName names the tracer (default: "viaduct").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global
	// provider.
	TracerProvider trace.TracerProvider

	// Attributes are added to every navigation span.
	Attributes []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry navigation observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// WithAttributes adds constant attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracing is a nav.Observer that opens one span per navigation and
// records phase transitions as span events.
type Tracing struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	mu    sync.Mutex
	spans map[uint64]trace.Span
}

var _ nav.Observer = (*Tracing)(nil)

// NewTracing creates the tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	cfg := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer: tp.Tracer(cfg.TracerName),
		attrs:  cfg.Attributes,
		spans:  make(map[uint64]trace.Span),
	}
}

// NavigationStarted implements nav.Observer.
func (t *Tracing) NavigationStarted(ticket uint64, to string) {
	attrs := append([]attribute.KeyValue{
		attribute.String("viaduct.target", to),
		attribute.Int64("viaduct.ticket", int64(ticket)),
	}, t.attrs...)

	_, span := t.tracer.Start(context.Background(), "viaduct.navigate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))

	t.mu.Lock()
	t.spans[ticket] = span
	t.mu.Unlock()
}

// PhaseChanged implements nav.Observer.
func (t *Tracing) PhaseChanged(ticket uint64, phase nav.Phase) {
	if span := t.span(ticket); span != nil {
		span.AddEvent(phase.String())
	}
}

// NavigationFinished implements nav.Observer.
func (t *Tracing) NavigationFinished(ticket uint64, outcome nav.Outcome) {
	t.mu.Lock()
	span, ok := t.spans[ticket]
	delete(t.spans, ticket)
	t.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(attribute.String("viaduct.outcome", string(outcome)))
	switch outcome {
	case nav.OutcomeAborted, nav.OutcomeNoRoute:
		span.SetStatus(codes.Error, string(outcome))
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *Tracing) span(ticket uint64) trace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spans[ticket]
}
