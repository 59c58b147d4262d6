package observability

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/config"
	"github.com/lodgeops/lodgeops/internal/observability/logger"
	"github.com/lodgeops/lodgeops/internal/observability/metrics"
	"github.com/lodgeops/lodgeops/internal/observability/tracing"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               cfg.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

// Metrics honor the METRICS_* overrides when present and otherwise
// follow the shared OTEL_* settings.
func provideMetricsConfig(cfg Config, app config.Config) metrics.Config {
	endpoint := app.Metrics.Endpoint
	if endpoint == "" {
		endpoint = cfg.OtelExporterEndpoint
	}
	protocol := app.Metrics.Exporter
	if protocol == "" {
		protocol = cfg.OtelExporterProtocol
	}
	return metrics.Config{
		Enabled:          cfg.OtelEnabled && app.Metrics.Enabled,
		ExporterEndpoint: endpoint,
		ExporterProtocol: protocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}
