package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	SeedUrl string `json:"seed_url"`
	Workers int    `json:"workers"`
	Output  struct {
		QuotesFile string `json:"quotes_file"`
	} `json:"output"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.True(t, errors.Is(err, os.ErrNotExist))

	writeFile(t, name, `{
		// comments and trailing commas are fine
		seed_url: "https://quotes.toscrape.com",
		workers: 4,
		output: { quotes_file: "quotes.json", },
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://quotes.toscrape.com", cfg.SeedUrl)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "quotes.json", cfg.Output.QuotesFile)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ workers: 16 }`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Workers)
	require.Equal(t, "https://quotes.toscrape.com", cfg.SeedUrl)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, name, `{ workers: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}

func TestReadConfigOr(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	defaults := testConfig{SeedUrl: "https://quotes.toscrape.com", Workers: 8}
	defaults.Output.QuotesFile = "quotes.json"

	cfg, err := ReadConfigOr(name, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	writeFile(t, name, `{ workers: 2, output: { quotes_file: "out/quotes.json" } }`)
	cfg, err = ReadConfigOr(name, defaults)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "https://quotes.toscrape.com", cfg.SeedUrl)
	require.Equal(t, "out/quotes.json", cfg.Output.QuotesFile)
}
