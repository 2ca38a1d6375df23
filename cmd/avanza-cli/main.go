package main

import (
	"avanza-scraper/cmd/avanza-cli/commands"
	"avanza-scraper/lib/serviceutil"
	"avanza-scraper/lib/telemetry"
	"context"
	"log/slog"
	"time"
)

func main() {
	telemetry.InitSlog(false)

	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "avanza-cli")
	if err != nil {
		slog.Debug("telemetry disabled", "err", err)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	tel.Shutdown(shutdownCtx)
	cancel()

	if err != nil {
		serviceutil.Fatal("avanza-cli failed", err)
	}
}
