package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotes          metric.Int64Counter
	quoteFailures   metric.Int64Counter
	quoteDuration   metric.Float64Histogram
	rateLimitDenied metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "printhaus"
	}
	meter := provider.Meter(name)

	quotes, err := meter.Int64Counter("printhaus_quotes_total")
	if err != nil {
		return nil, err
	}
	quoteFailures, err := meter.Int64Counter("printhaus_quote_failures_total")
	if err != nil {
		return nil, err
	}
	quoteDuration, err := meter.Float64Histogram("printhaus_quote_duration_ms")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("printhaus_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotes:          quotes,
		quoteFailures:   quoteFailures,
		quoteDuration:   quoteDuration,
		rateLimitDenied: rateLimitDenied,
	}, nil
}

// RecordQuote increments quote counts for a product.
func (m *Metrics) RecordQuote(ctx context.Context, slug string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("product_slug", strings.TrimSpace(slug)))
	m.quotes.Add(ctx, 1, attrs)
	m.quoteDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}

// RecordQuoteFailure increments quote failures by reason.
func (m *Metrics) RecordQuoteFailure(ctx context.Context, slug, reason string) {
	if m == nil {
		return
	}
	m.quoteFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product_slug", strings.TrimSpace(slug)),
		attribute.String("reason", strings.TrimSpace(reason)),
	))
}

// RecordRateLimitDenied increments denied request counts per endpoint.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
