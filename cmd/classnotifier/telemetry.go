package main

import (
	"context"
	"log/slog"

	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/config"
	"class-notifier/lib/serviceutil"
	otelsetup "class-notifier/lib/telemetry"
)

// InitTelemetry sets up logging and the otel exporters, the returned func
// flushes both.
func InitTelemetry(ctx context.Context, cfg config.Config, verbose bool) func() {
	logFile, err := telemetry.InitSlog(verbose, cfg.LogFile)
	if err != nil {
		serviceutil.Fatal("init logging", err)
	}
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	otel, err := otelsetup.Setup(ctx, "class-notifier", cfg.Telemetry)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	otelsetup.InstrumentPerfStats(ctx)

	return func() {
		err := otel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
		logFile.Close()
	}
}
