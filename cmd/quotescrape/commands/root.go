package commands

import (
	"context"
	"fmt"
	"os"

	"quotescrape/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quotescrape",
	Short: "quotescrape crawls a quotes website into quotes.json and authors.json.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)
	},
}

var (
	configPath *string
	debug      *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log every request and response.")
}

// ExecuteContext runs the command selected by os.Args, exiting with status 1
// when it fails.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
