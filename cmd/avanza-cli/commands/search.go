package commands

import (
	"avanza-scraper/cmd/avanza-cli/utils"
	"avanza-scraper/lib/scrapers/avanza/view"
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(quoteCmd)
}

func typeLabel(t view.InstrumentType) string {
	if t == view.TypeUnknown {
		return "-"
	}
	return string(t)
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Searches for instruments, only the first page of hits is read.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loginView(cmd.Context())
		if err != nil {
			return err
		}
		results, err := client.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		slices.Sort(names)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Name", "Type", "Id", "Price", "Updated"})
		for _, name := range names {
			r := results[name]
			t.AppendRow(table.Row{name, typeLabel(r.Type), r.Id, r.Price, r.LastUpdated})
		}
		t.Render()
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <term>",
	Short: "Searches for an instrument and shows the price box of the closest hit.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loginView(cmd.Context())
		if err != nil {
			return err
		}
		term := strings.Join(args, " ")
		results, err := client.Search(cmd.Context(), term)
		if err != nil {
			return err
		}
		match, ok := view.BestMatch(results, term)
		if !ok {
			return fmt.Errorf("no instrument found for %q", term)
		}

		quote, err := client.Quote(cmd.Context(), match.Url)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.SetTitle(fmt.Sprintf("%s (%s)", match.Name, match.Id))
		t.AppendHeader(table.Row{"Senast", "Högst", "Lägst", "Uppdaterad"})
		t.AppendRow(table.Row{
			utils.Optional(quote.Latest),
			utils.Optional(quote.Highest),
			utils.Optional(quote.Lowest),
			utils.Optional(quote.Updated),
		})
		t.Render()
		return nil
	},
}
