package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quotescrape/internal/chrono"
	"quotescrape/internal/crawl"
	"quotescrape/internal/pipeline"
	"quotescrape/internal/scrapers/quotes"
	"quotescrape/internal/store"
	"quotescrape/internal/telemetry"
	configlibsql "quotescrape/lib/configutil/libsql"
	"quotescrape/lib/restyutil"
	"quotescrape/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeSeed         *string
	scrapeWorkers      *int
	scrapeQuotes       *string
	scrapeAuthors      *string
	scrapeDb           *string
	scrapeAllowOffsite *bool
	scrapeDump         *string
)

func init() {
	flags := scrapeCmd.Flags()
	scrapeSeed = flags.String("seed", "", "The listing page to start crawling from.")
	scrapeWorkers = flags.Int("workers", 0, "The number of pages fetched at the same time.")
	scrapeQuotes = flags.String("quotes", "", "The file to write quotes to.")
	scrapeAuthors = flags.String("authors", "", "The file to write authors to.")
	scrapeDb = flags.String("db", "", "A sqlite file or libsql url to write a snapshot to.")
	scrapeAllowOffsite = flags.Bool("allow-offsite", false, "Follow links to hosts other than the seed's.")
	scrapeDump = flags.String("dump", "", "A directory to write every http exchange to.")
	rootCmd.AddCommand(scrapeCmd)
}

func applyScrapeFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.SeedUrl = *scrapeSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = *scrapeWorkers
	}
	if flags.Changed("quotes") {
		cfg.Output.QuotesFile = *scrapeQuotes
	}
	if flags.Changed("authors") {
		cfg.Output.AuthorsFile = *scrapeAuthors
	}
	if flags.Changed("db") {
		cfg.Output.Database = *scrapeDb
	}
	if flags.Changed("allow-offsite") {
		cfg.AllowOffsite = *scrapeAllowOffsite
	}
}

func openStores(ctx context.Context, cfg OutputConfig) ([]pipeline.Store, func(), error) {
	stores := []pipeline.Store{
		store.JSONStore{
			QuotesPath:  cfg.QuotesFile,
			AuthorsPath: cfg.AuthorsFile,
		},
	}
	if cfg.Database == "" {
		return stores, func() {}, nil
	}

	dbConfig := configlibsql.FromDSN(cfg.Database)
	dbConfig.AuthToken = cfg.DatabaseAuthToken
	db, err := dbConfig.OpenDB()
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	snapshot, err := store.NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return append(stores, snapshot), func() { db.Close() }, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--seed <url>] [--quotes <quotes.json>] [--authors <authors.json>] [--db <snapshot.db>]",
	Short: "Crawls the site and writes the quotes and authors found.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		applyScrapeFlags(cmd, &cfg)
		if cfg.Workers < 1 {
			serviceutil.Fatal(fmt.Sprintf("workers must be at least 1, got %d", cfg.Workers), nil)
		}

		stores, closeStores, err := openStores(ctx, cfg.Output)
		if err != nil {
			serviceutil.Fatal("failed to open output", err)
		}
		defer closeStores()

		clientOpts := quotes.ClientOptions{
			UserAgent:       cfg.UserAgent,
			Timeout:         cfg.RequestTimeout(),
			MaxConnsPerHost: cfg.Workers,
		}
		if *scrapeDump != "" {
			dump, err := restyutil.NewDirOutput(*scrapeDump)
			if err != nil {
				serviceutil.Fatal("failed to create dump directory", err)
			}
			clientOpts.Dump = dump
		}

		tel := telemetry.SlogAPI{}
		client := quotes.NewClient(clientOpts, tel)
		consolidator := pipeline.NewConsolidator(tel, stores...)
		crawler := crawl.New(client, consolidator, tel, crawl.Options{
			Workers:  cfg.Workers,
			SameHost: !cfg.AllowOffsite,
		})

		stopwatch := chrono.StartStopwatch(chrono.NewStandardTime())

		slog.Info("crawling", "seed", cfg.SeedUrl, "workers", cfg.Workers)
		stats, err := crawler.Run(ctx, cfg.SeedUrl)
		if err != nil {
			serviceutil.Fatal("failed to crawl", err)
		}
		if ctx.Err() != nil {
			slog.Warn("crawl interrupted, writing what was collected")
		}

		// persisting must not be cut short by the interrupt that ended the crawl
		summary, err := consolidator.Finalize(context.WithoutCancel(ctx))
		if err != nil {
			serviceutil.Fatal("failed to persist results", err)
		}

		printSummary(stats, summary)
		slog.Info("finished", "seconds", stopwatch.Elapsed().Seconds())
	},
}

func printSummary(stats crawl.Stats, summary pipeline.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"", "Count"})
	t.AppendRows([]table.Row{
		{"Listing pages", stats.Listings},
		{"Author pages", stats.Authors},
		{"Fetch failures", stats.FetchFailures},
		{"Malformed pages", stats.MalformedPages},
		{"Skipped links", stats.Skipped},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Quotes scraped", summary.SubmittedQuotes},
		{"Quotes written", summary.Quotes},
		{"Quotes dropped", len(summary.Dropped)},
		{"Authors written", summary.Authors},
		{"Ambiguous authors", len(summary.AmbiguousAuthors)},
	})
	t.AppendFooter(table.Row{"Crawl time", stats.Elapsed.Round(time.Millisecond).String()})
	t.Render()
}
