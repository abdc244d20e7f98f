package commands

import (
	"fmt"
	"log/slog"
	"os"

	"quotescrape/internal/pipeline"
	"quotescrape/internal/store"
	"quotescrape/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [<quotes.json> <authors.json>]",
	Short: "Checks that written quotes and authors are consistent with each other.",
	Args:  cobra.MatchAll(cobra.RangeArgs(0, 2), validateArgs),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		quotesFile := cfg.Output.QuotesFile
		authorsFile := cfg.Output.AuthorsFile
		if len(args) == 2 {
			quotesFile = args[0]
			authorsFile = args[1]
		}

		quotes, authors, err := store.ReadJSON(quotesFile, authorsFile)
		if err != nil {
			serviceutil.Fatal("failed to read output", err)
		}

		violations := pipeline.Check(quotes, authors)
		if len(violations) == 0 {
			slog.Info("output is consistent", "quotes", len(quotes), "authors", len(authors))
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"Kind", "Index", "Detail"})
		for _, v := range violations {
			t.AppendRow(table.Row{v.Kind, v.Index, v.Detail})
		}
		t.Render()
		os.Exit(1)
	},
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("expected both a quotes and an authors file, got only '%s'", args[0])
	}
	return nil
}
