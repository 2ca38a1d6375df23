package commands

import (
	"avanza-scraper/lib/scrapers/avanza/push"
	"avanza-scraper/lib/serviceutil"
	"avanza-scraper/lib/telemetry"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen [subscription...]",
	Short: "Opens the push channel, subscribes to the given topics (e.g. /quotes/5269) and prints every frame received as json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := serviceutil.SignalContext(cmd.Context())
		defer cancel()

		telemetry.InstrumentPerfStats(ctx, 30*time.Second)

		// login populates the cookie jar the channel dials with
		if _, err := loginView(ctx); err != nil {
			return err
		}

		g := getGlobals(ctx)
		client, err := push.Open(ctx, g.Session, push.OpenOptions{
			Url: g.Config.PushUrl,
		})
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(closeCtx)
		}()

		_, err = client.Connect(ctx)
		if err != nil {
			return err
		}
		for _, subscription := range args {
			err = client.Subscribe(ctx, subscription)
			if err != nil {
				return err
			}
			slog.Info("subscribed", "subscription", subscription)
		}

		enc := json.NewEncoder(os.Stdout)
		for {
			messages, err := client.Receive(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			for _, msg := range messages {
				if err := enc.Encode(msg); err != nil {
					return err
				}
			}
		}
	},
}
