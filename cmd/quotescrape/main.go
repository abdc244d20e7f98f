package main

import (
	"context"
	"log/slog"
	"time"

	"quotescrape/cmd/quotescrape/commands"
	"quotescrape/lib/serviceutil"
	"quotescrape/lib/telemetry"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	telemetry.InitSlog(false)
	otel, err := telemetry.SetupFromEnv(ctx, "quotescrape")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	if otel.Enabled() {
		telemetry.InstrumentPerfStats(ctx, time.Second*15)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		err := otel.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()

	commands.ExecuteContext(ctx)
}
