package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "mlb-games-service"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx               context.Context
	meter             metric.Meter
	requests          metric.Int64Counter
	requestLatencyMs  metric.Float64Histogram
	upstreamAttempts  metric.Int64Counter
	upstreamErrors    metric.Int64Counter
	upstreamLatencyMs metric.Float64Histogram
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
	enrichBatches     metric.Int64Counter
	enrichBatchErrors metric.Int64Counter
	enrichLatencyMs   metric.Float64Histogram
	fallbackSummaries metric.Int64Counter
	modelCalls        metric.Int64Counter
	modelErrors       metric.Int64Counter
	modelLatencyMs    metric.Float64Histogram
	rateLimitWaits    metric.Int64Counter
	rateLimitWaitedMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("mlb-games-service")
	ctx := context.Background()

	inst := &otelInstruments{ctx: ctx, meter: meter}

	var err error
	if inst.requests, err = meter.Int64Counter("http_requests_total"); err != nil {
		return nil, err
	}
	if inst.requestLatencyMs, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}
	if inst.upstreamAttempts, err = meter.Int64Counter("upstream_attempts_total"); err != nil {
		return nil, err
	}
	if inst.upstreamErrors, err = meter.Int64Counter("upstream_errors_total"); err != nil {
		return nil, err
	}
	if inst.upstreamLatencyMs, err = meter.Float64Histogram("upstream_duration_ms"); err != nil {
		return nil, err
	}
	if inst.cacheHits, err = meter.Int64Counter("cache_hits_total"); err != nil {
		return nil, err
	}
	if inst.cacheMisses, err = meter.Int64Counter("cache_misses_total"); err != nil {
		return nil, err
	}
	if inst.enrichBatches, err = meter.Int64Counter("enrich_batches_total"); err != nil {
		return nil, err
	}
	if inst.enrichBatchErrors, err = meter.Int64Counter("enrich_batch_errors_total"); err != nil {
		return nil, err
	}
	if inst.enrichLatencyMs, err = meter.Float64Histogram("enrich_batch_duration_ms"); err != nil {
		return nil, err
	}
	if inst.fallbackSummaries, err = meter.Int64Counter("enrich_fallback_summaries_total"); err != nil {
		return nil, err
	}
	if inst.modelCalls, err = meter.Int64Counter("model_calls_total"); err != nil {
		return nil, err
	}
	if inst.modelErrors, err = meter.Int64Counter("model_errors_total"); err != nil {
		return nil, err
	}
	if inst.modelLatencyMs, err = meter.Float64Histogram("model_call_duration_ms"); err != nil {
		return nil, err
	}
	if inst.rateLimitWaits, err = meter.Int64Counter("recap_rate_limit_waits_total"); err != nil {
		return nil, err
	}
	if inst.rateLimitWaitedMs, err = meter.Float64Histogram("recap_rate_limit_waited_ms"); err != nil {
		return nil, err
	}

	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordUpstreamAttempt(source string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.upstreamAttempts, 1, attrs...)
	o.recordHistogram(o.upstreamLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.upstreamErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordCacheRead(hit bool) {
	if o == nil {
		return
	}
	if hit {
		o.recordCounter(o.cacheHits, 1)
		return
	}
	o.recordCounter(o.cacheMisses, 1)
}

func (o *otelInstruments) recordEnrichBatch(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.enrichBatches, 1)
	o.recordHistogram(o.enrichLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.enrichBatchErrors, 1)
	}
}

func (o *otelInstruments) recordFallback() {
	if o == nil {
		return
	}
	o.recordCounter(o.fallbackSummaries, 1)
}

func (o *otelInstruments) recordModelCall(model string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrModel, model)}
	o.recordCounter(o.modelCalls, 1, attrs...)
	o.recordHistogram(o.modelLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.modelErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordRateLimitWait(waited time.Duration) {
	if o == nil {
		return
	}
	o.recordCounter(o.rateLimitWaits, 1)
	o.recordHistogram(o.rateLimitWaitedMs, float64(waited.Milliseconds()))
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
