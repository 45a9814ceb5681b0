package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/tnqbao/gau-drop-service/config"
)

// LoggerClient wraps slog. When an OTLP endpoint is configured the records are
// bridged to the OpenTelemetry log pipeline, otherwise they go to stdout.
type LoggerClient struct {
	logger *slog.Logger
}

func InitLoggerClient(cfg *config.EnvConfig, provider *sdklog.LoggerProvider) *LoggerClient {
	var logger *slog.Logger
	if provider != nil {
		logger = otelslog.NewLogger(cfg.Otel.ServiceName, otelslog.WithLoggerProvider(provider))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return &LoggerClient{logger: logger}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		l.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
		return
	}
	l.logger.ErrorContext(ctx, msg)
}
