package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otlplog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/denysvitali/ftptube-go/pkg/config"
)

// ServiceName identifies this server in traces, logs and metrics
const ServiceName = "ftptube"

// Initialize sets up OpenTelemetry tracing and logging using autoexport.
// The returned function flushes and shuts down both providers.
func Initialize(ctx context.Context, cfg config.TelemetryConfig, logger *logrus.Logger) (func(), error) {
	if cfg.Endpoint != "" && os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		// autoexport only reads the endpoint from the environment
		if err := os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Endpoint); err != nil {
			return nil, err
		}
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String("1.0.0"),
		),
	)
	if err != nil && !errors.Is(err, resource.ErrSchemaURLConflict) {
		return nil, err
	}

	spanExporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	var logProvider *sdklog.LoggerProvider
	logExporter, err := autoexport.NewLogExporter(ctx)
	if err != nil {
		logger.Warnf("Failed to create log exporter: %v", err)
	} else {
		logProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(logProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Error shutting down tracer provider: %v", err)
		}
		if logProvider != nil {
			if err := logProvider.Shutdown(shutdownCtx); err != nil {
				logger.Errorf("Error shutting down log provider: %v", err)
			}
		}
	}, nil
}

// ReportJSON attaches a payload to the active span as an event and logs it at
// debug level, both to logrus and to the OpenTelemetry log pipeline.
// Callers must strip secrets (passwords, session tokens) before reporting.
func ReportJSON(ctx context.Context, logger *logrus.Logger, operation string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Errorf("Failed to marshal %s payload: %v", operation, err)
		return
	}

	trace.SpanFromContext(ctx).AddEvent(operation, trace.WithAttributes(
		attribute.String("json.data", string(payload)),
	))

	logger.WithFields(logrus.Fields{
		"operation": operation,
		"json_data": string(payload),
	}).Debug("Payload reported")

	var record otlplog.Record
	now := time.Now()
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(otlplog.SeverityDebug)
	record.SetSeverityText("DEBUG")
	record.SetBody(otlplog.StringValue(string(payload)))
	record.AddAttributes(otlplog.String("operation", operation))
	global.GetLoggerProvider().Logger(ServiceName).Emit(ctx, record)
}
