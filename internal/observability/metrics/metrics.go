// Package metrics configures OpenTelemetry instruments for the service.
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
	invoiceWrites  metric.Int64Counter
	pdfRenders     metric.Int64Counter
	renderDuration metric.Float64Histogram
	deliveries     metric.Int64Counter
	loginLinks     metric.Int64Counter
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

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "inkvoice"
	}
	meter := provider.Meter(name)

	invoiceWrites, err := meter.Int64Counter("inkvoice_invoice_writes_total")
	if err != nil {
		return nil, err
	}
	pdfRenders, err := meter.Int64Counter("inkvoice_pdf_renders_total")
	if err != nil {
		return nil, err
	}
	renderDuration, err := meter.Float64Histogram("inkvoice_pdf_render_duration_seconds")
	if err != nil {
		return nil, err
	}
	deliveries, err := meter.Int64Counter("inkvoice_deliveries_total")
	if err != nil {
		return nil, err
	}
	loginLinks, err := meter.Int64Counter("inkvoice_login_links_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoiceWrites:  invoiceWrites,
		pdfRenders:     pdfRenders,
		renderDuration: renderDuration,
		deliveries:     deliveries,
		loginLinks:     loginLinks,
	}, nil
}

func (m *Metrics) RecordInvoiceWrite(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.invoiceWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (m *Metrics) RecordRender(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.pdfRenders.Add(ctx, 1, attrs)
	m.renderDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) RecordDelivery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordLoginLink(ctx context.Context) {
	if m == nil {
		return
	}
	m.loginLinks.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
