package commands

import (
	"avanza-scraper/cmd/avanza-cli/utils"
	"avanza-scraper/lib/scrapers/avanza/view"
	"encoding/json"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var accountJson bool

func init() {
	accountCmd.Flags().BoolVar(&accountJson, "json", false, "Print the account as json.")
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(accountCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Lists the names of the accounts on the profile.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loginView(cmd.Context())
		if err != nil {
			return err
		}
		names, err := client.Accounts(cmd.Context())
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Account"})
		for _, name := range names {
			t.AppendRow(table.Row{name})
		}
		t.Render()
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account <account id> [--json]",
	Short: "Shows the overview of a single account.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loginView(cmd.Context())
		if err != nil {
			return err
		}
		info, err := client.AccountInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if accountJson {
			return writeAccountJson(os.Stdout, info)
		}

		t := utils.NewTable()
		t.SetTitle("Konto " + info.AccountId)
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, f := range info.Fields() {
			t.AppendRow(table.Row{f.Label, utils.Optional(f.Value)})
		}
		t.Render()
		return nil
	},
}

// writeAccountJson writes {"<account id>": {...fields}}.
func writeAccountJson(w io.Writer, info view.AccountInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]view.AccountInfo{info.AccountId: info})
}
