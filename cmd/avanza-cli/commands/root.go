package commands

import (
	"avanza-scraper/lib/telemetry"
	"context"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file holding credentials and overrides.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level and dump http messages.")
}

var rootCmd = &cobra.Command{
	Use:           "avanza-cli",
	Short:         "avanza-cli reads account, market and push data off avanza.se.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(configPath)
		if err != nil {
			return err
		}
		if debug {
			cfg.Debug = true
		}
		telemetry.InitSlog(cfg.Debug)

		session, err := createSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		cmd.SetContext(withGlobals(cmd.Context(), &globals{
			Config:  cfg,
			Session: session,
		}))
		return nil
	},
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
