package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"quotescrape/internal/pipeline"
)

// JSONStore writes the quote and author collections to two json files.
type JSONStore struct {
	QuotesPath  string
	AuthorsPath string
}

func (s JSONStore) Persist(ctx context.Context, quotes []pipeline.QuoteRecord, authors []pipeline.AuthorRecord) error {
	if authors == nil {
		authors = []pipeline.AuthorRecord{}
	}
	out := make([]pipeline.QuoteRecord, len(quotes))
	for i, q := range quotes {
		if q.Tags == nil {
			q.Tags = []string{}
		}
		out[i] = q
	}

	err := writeJSON(s.QuotesPath, out)
	if err != nil {
		return err
	}
	return writeJSON(s.AuthorsPath, authors)
}

func writeJSON(path string, value any) error {
	buff, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	err = os.WriteFile(path, append(buff, '\n'), 0644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads collections previously written by a JSONStore.
func ReadJSON(quotesPath, authorsPath string) ([]pipeline.QuoteRecord, []pipeline.AuthorRecord, error) {
	var quotes []pipeline.QuoteRecord
	err := readJSON(quotesPath, &quotes)
	if err != nil {
		return nil, nil, err
	}
	var authors []pipeline.AuthorRecord
	err = readJSON(authorsPath, &authors)
	if err != nil {
		return nil, nil, err
	}
	return quotes, authors, nil
}

func readJSON(path string, out any) error {
	buff, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	err = json.Unmarshal(buff, out)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
