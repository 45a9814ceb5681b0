package infra

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/tnqbao/gau-drop-service/config"
)

// Telemetry holds the OpenTelemetry providers. All fields are nil when no
// OTLP endpoint is configured.
type Telemetry struct {
	LoggerProvider *sdklog.LoggerProvider
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

func InitTelemetry(cfg *config.EnvConfig) *Telemetry {
	if cfg.Otel.OTLPEndpoint == "" {
		log.Println("OTLP endpoint not configured, telemetry export disabled")
		return &Telemetry{}
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.Otel.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment.Mode),
		),
	)
	if err != nil {
		log.Printf("Warning: failed to build telemetry resource: %v", err)
		return &Telemetry{}
	}

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(cfg.Otel.OTLPEndpoint),
	)
	if err != nil {
		log.Printf("Warning: failed to initialize OTLP log exporter: %v", err)
		return &Telemetry{}
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Otel.OTLPEndpoint),
	)
	if err != nil {
		log.Printf("Warning: failed to initialize OTLP trace exporter: %v", err)
		return &Telemetry{LoggerProvider: loggerProvider}
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Otel.OTLPEndpoint),
	)
	if err != nil {
		log.Printf("Warning: failed to initialize OTLP metric exporter: %v", err)
		return &Telemetry{LoggerProvider: loggerProvider, TracerProvider: tracerProvider}
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		log.Printf("Warning: failed to start runtime instrumentation: %v", err)
	}

	return &Telemetry{
		LoggerProvider: loggerProvider,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}
}

func (t *Telemetry) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if t.MeterProvider != nil {
		_ = t.MeterProvider.Shutdown(ctx)
	}
	if t.TracerProvider != nil {
		_ = t.TracerProvider.Shutdown(ctx)
	}
	if t.LoggerProvider != nil {
		_ = t.LoggerProvider.Shutdown(ctx)
	}
}
