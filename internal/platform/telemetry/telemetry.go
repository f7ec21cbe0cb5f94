// Package telemetry sets up OpenTelemetry tracing and metrics and registers
// the instruments shared by the HTTP adapter, the outbound HTTP pools and
// the call engine.
//
//	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer tel.Shutdown(ctx)
//	tel.Metrics.ProcedureCallTotal.Add(ctx, 1, ...)
//
// A disabled configuration yields a Telemetry with nil providers and nil
// Metrics; every consumer treats nil Metrics as "record nothing".
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
)

// Exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Metric attribute keys.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrProcedure   = attribute.Key("procedure.id")
	AttrPool        = attribute.Key("pool.name")
)

// Metrics holds the registered instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	ProcedureCallDuration  metric.Float64Histogram
	ProcedureCallTotal     metric.Int64Counter
	ConnectionReleaseTotal metric.Int64Counter
}

// Telemetry owns the global providers installed by Setup.
type Telemetry struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup installs the global tracer provider, meter provider and W3C
// propagators described by cfg. Nothing is installed when cfg is disabled.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}
	if err := checkExporter(cfg.Exporter, cfg.Endpoint); err != nil {
		return nil, err
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spans, err := spanExporter(ctx, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	tel := &Telemetry{
		Tracer: sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res)),
	}

	readings, err := metricExporter(ctx, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating metric exporter: %w", err), tel.Shutdown(ctx))
	}
	tel.Meter = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(readings)),
		sdkmetric.WithResource(res),
	)

	if tel.Metrics, err = NewMetrics(tel.Meter, cfg.ServiceName); err != nil {
		return nil, errors.Join(err, tel.Shutdown(ctx))
	}

	otel.SetTracerProvider(tel.Tracer)
	otel.SetMeterProvider(tel.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tel, nil
}

// Shutdown flushes and stops the providers. It is safe on a disabled
// Telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Tracer != nil {
		if err := t.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if t.Meter != nil {
		if err := t.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// NewMetrics registers the instruments on mp.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter("github.com/jsamuelsen11/rapidcontext",
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)))

	m := &Metrics{}
	histograms := []struct {
		dst               *metric.Float64Histogram
		name, desc, units string
	}{
		{&m.ServerRequestDuration, "http.server.request.duration", "Duration of incoming HTTP requests", "s"},
		{&m.ClientRequestDuration, "http.client.request.duration", "Duration of outgoing pool HTTP requests", "s"},
		{&m.ProcedureCallDuration, "procedure.call.duration", "Duration of procedure calls", "s"},
	}
	counters := []struct {
		dst               *metric.Int64Counter
		name, desc, units string
	}{
		{&m.ServerRequestTotal, "http.server.request.total", "Incoming HTTP requests", "{request}"},
		{&m.ClientRequestTotal, "http.client.request.total", "Outgoing pool HTTP requests", "{request}"},
		{&m.ProcedureCallTotal, "procedure.call.total", "Procedure calls", "{call}"},
		{&m.ConnectionReleaseTotal, "procedure.connection.release.total", "Connection reservations released", "{reservation}"},
	}

	var err error
	for _, h := range histograms {
		if *h.dst, err = meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit(h.units)); err != nil {
			return nil, fmt.Errorf("creating %s: %w", h.name, err)
		}
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.units)); err != nil {
			return nil, fmt.Errorf("creating %s: %w", c.name, err)
		}
	}
	return m, nil
}

func spanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	if exporter != ExporterOTLP {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	host, secure := splitEndpoint(endpoint)
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
	if !secure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

func metricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	if exporter != ExporterOTLP {
		return stdoutmetric.New()
	}
	host, secure := splitEndpoint(endpoint)
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
	if !secure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return otlpmetrichttp.New(ctx, opts...)
}

// checkExporter rejects unknown exporters and OTLP without an endpoint.
func checkExporter(exporter, endpoint string) error {
	switch exporter {
	case ExporterStdout:
		return nil
	case ExporterOTLP:
		if endpoint == "" {
			return errors.New("otlp exporter requires an endpoint")
		}
		return nil
	default:
		return fmt.Errorf("unsupported exporter %q", exporter)
	}
}

// splitEndpoint turns "https://collector:4318" into ("collector:4318",
// true). A bare host:port is returned unchanged and treated as insecure.
func splitEndpoint(endpoint string) (string, bool) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, false
	}
	return u.Host, u.Scheme == "https"
}
