package commands

import (
	"time"

	"quotescrape/internal/crawl"
	"quotescrape/internal/scrapers/quotes"
	"quotescrape/lib/configutil"
)

type OutputConfig struct {
	QuotesFile  string `json:"quotes_file"`
	AuthorsFile string `json:"authors_file"`
	// Database is a sqlite file path or a libsql url, no snapshot is written
	// when it is empty.
	Database string `json:"database"`
	// DatabaseAuthToken is passed to remote libsql databases.
	DatabaseAuthToken string `json:"database_auth_token"`
}

type Config struct {
	SeedUrl               string       `json:"seed_url"`
	Workers               int          `json:"workers"`
	RequestTimeoutSeconds int          `json:"request_timeout_seconds"`
	UserAgent             string       `json:"user_agent"`
	AllowOffsite          bool         `json:"allow_offsite"`
	Output                OutputConfig `json:"output"`
}

func defaultConfig() Config {
	return Config{
		SeedUrl:               "https://quotes.toscrape.com/",
		Workers:               crawl.DefaultWorkers,
		RequestTimeoutSeconds: 30,
		UserAgent:             quotes.DefaultUserAgent,
		Output: OutputConfig{
			QuotesFile:  "quotes.json",
			AuthorsFile: "authors.json",
		},
	}
}

// loadConfig layers the config file, when there is one, over the defaults.
func loadConfig(path string) (Config, error) {
	return configutil.ReadConfigOr(path, defaultConfig())
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
