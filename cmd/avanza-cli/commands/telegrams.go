package commands

import (
	"avanza-scraper/cmd/avanza-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var telegramLimit int

func init() {
	telegramsCmd.Flags().IntVar(&telegramLimit, "limit", 10, "The maximum amount of telegrams to list, 0 lists all of them.")
	rootCmd.AddCommand(telegramsCmd)
}

var telegramsCmd = &cobra.Command{
	Use:   "telegrams [--limit <n>]",
	Short: "Lists links to the latest news telegrams.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loginView(cmd.Context())
		if err != nil {
			return err
		}
		links, err := client.Telegrams(cmd.Context(), telegramLimit)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "Telegram"})
		for i, link := range links {
			t.AppendRow(table.Row{i + 1, link})
		}
		t.Render()
		return nil
	},
}
