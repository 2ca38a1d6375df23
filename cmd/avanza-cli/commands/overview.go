package commands

import (
	"avanza-scraper/cmd/avanza-cli/utils"
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(overviewCmd)
}

var overviewCmd = &cobra.Command{
	Use:     "overview",
	Aliases: []string{"balance"},
	Short:   "Shows balance, buying power, total value and growth of the whole portfolio.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := loginView(ctx)
		if err != nil {
			return err
		}

		fields := []struct {
			label string
			get   func(context.Context) (string, bool, error)
		}{
			{"Saldo", client.Balance},
			{"Tillgänligt för köp", client.PurchaseBalance},
			{"Totalt värde", client.TotalValue},
			{"Utveckling i år", client.Growth},
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, f := range fields {
			value, ok, err := f.get(ctx)
			if err != nil {
				return err
			}
			if !ok {
				value = "-"
			}
			t.AppendRow(table.Row{f.label, value})
		}
		t.Render()
		return nil
	},
}
