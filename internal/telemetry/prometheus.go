package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// prometheusReader pulls from the meter provider into a private registry so
// /metrics only exposes formkit instruments.
type prometheusReader struct {
	exporter *promexporter.Exporter
	registry *prometheus.Registry
}

func newPrometheusReader() (*prometheusReader, error) {
	registry := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return &prometheusReader{exporter: exporter, registry: registry}, nil
}

func (p *prometheusReader) handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// NewPrometheusMeterProvider returns a meter provider that is only scraped,
// never pushed. Used when OTLP export is disabled.
func NewPrometheusMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	reader, err := newPrometheusReader()
	if err != nil {
		return nil, nil, err
	}
	options := []sdkmetric.Option{sdkmetric.WithReader(reader.exporter)}
	if res != nil {
		options = append(options, sdkmetric.WithResource(res))
	}
	return sdkmetric.NewMeterProvider(options...), reader.handler(), nil
}

func shutdownMeterProvider(provider *sdkmetric.MeterProvider) func(context.Context) error {
	return func(ctx context.Context) error {
		if provider == nil {
			return nil
		}
		return provider.Shutdown(ctx)
	}
}
