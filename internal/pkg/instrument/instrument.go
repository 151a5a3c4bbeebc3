package instrument

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ScopePrefix is prepended to every tracer and meter name handed out, so
// "account.usecase" is reported as "github.com/shandysiswandi/gocrm/account.usecase".
const ScopePrefix = "github.com/shandysiswandi/gocrm/"

const (
	defaultServiceName     = "gocrm"
	serviceNamespace       = "crm"
	defaultMetricsInterval = 15 * time.Second
)

// Instrumentation hands out tracers, meters and the CRM counters.
type Instrumentation interface {
	Tracer(name string) trace.Tracer
	Meter(name string) metric.Meter
	Metrics() *Metrics
	Shutdown(ctx context.Context) error
}

// Config drives OpenTelemetry initialization.
type Config struct {
	Enabled bool
	// ServiceName defaults to "gocrm".
	ServiceName    string
	ServiceVersion string
	// Environment becomes deployment.environment.
	Environment string
	// NodeID is the snowflake node of this instance, reported as service.instance.id.
	NodeID int64

	OTLPEndpoint     string
	OTLPSecure       bool
	TraceSampleRatio float64
	// MetricsInterval defaults to 15s.
	MetricsInterval time.Duration

	// LogLevel is the minimum slog level, e.g. "debug" or "info".
	LogLevel string
	// MaskFields lists log attribute keys whose values are replaced by "***".
	MaskFields []string
}

type provider struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	metrics        *Metrics
	shutdown       []func(context.Context) error
}

// New configures the default slog logger and returns OTLP backed providers,
// or noop ones when cfg is nil or disabled.
func New(ctx context.Context, cfg *Config) (Instrumentation, error) {
	if cfg == nil {
		return NewNoop(), nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	if !cfg.Enabled {
		initLogging(cfg.ServiceName, ParseLevel(cfg.LogLevel), nil, cfg.MaskFields)
		return NewNoop(), nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceNamespace(serviceNamespace),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.ServiceInstanceID(strconv.FormatInt(cfg.NodeID, 10)),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	exp, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.TraceSampleRatio)))),
		sdktrace.WithBatcher(exp.trace),
	)

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp.metric, sdkmetric.WithInterval(interval))),
	)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp.log)),
	)

	p, err := newProvider(tp, mp, tp.Shutdown, mp.Shutdown, lp.Shutdown)
	if err != nil {
		return nil, errors.Join(err, p.Shutdown(ctx))
	}

	initLogging(cfg.ServiceName, ParseLevel(cfg.LogLevel), lp, cfg.MaskFields)

	return p, nil
}

// NewNoop returns providers that record nothing.
func NewNoop() Instrumentation {
	p, _ := newProvider(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	return p
}

// NewWithProviders wraps caller owned providers, such as an sdkmetric
// provider over a ManualReader in tests. Shutdown does not stop them.
func NewWithProviders(tp trace.TracerProvider, mp metric.MeterProvider) (Instrumentation, error) {
	return newProvider(tp, mp)
}

func newProvider(tp trace.TracerProvider, mp metric.MeterProvider, shutdown ...func(context.Context) error) (*provider, error) {
	p := &provider{tracerProvider: tp, meterProvider: mp, shutdown: shutdown}

	m, err := NewMetrics(p.Meter("crm"))
	if err != nil {
		return p, err
	}
	p.metrics = m
	return p, nil
}

func (p *provider) Tracer(name string) trace.Tracer {
	return p.tracerProvider.Tracer(ScopePrefix + name)
}

func (p *provider) Meter(name string) metric.Meter {
	return p.meterProvider.Meter(ScopePrefix + name)
}

func (p *provider) Metrics() *Metrics {
	return p.metrics
}

// Shutdown flushes traces, metrics and logs in that order.
func (p *provider) Shutdown(ctx context.Context) error {
	errs := make([]error, 0, len(p.shutdown))
	for _, fn := range p.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

type exporters struct {
	trace  sdktrace.SpanExporter
	metric sdkmetric.Exporter
	log    sdklog.Exporter
}

// newExporters dials the collector for all three signals. Exporters already
// started are shut down when a later one fails.
func newExporters(ctx context.Context, cfg *Config) (*exporters, error) {
	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	logOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if !cfg.OTLPSecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		logOpts = append(logOpts, otlploggrpc.WithInsecure())
	}

	te, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, err
	}

	me, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, errors.Join(err, te.Shutdown(ctx))
	}

	le, err := otlploggrpc.New(ctx, logOpts...)
	if err != nil {
		return nil, errors.Join(err, te.Shutdown(ctx), me.Shutdown(ctx))
	}

	return &exporters{trace: te, metric: me, log: le}, nil
}

func clampRatio(r float64) float64 {
	return min(max(r, 0), 1)
}
