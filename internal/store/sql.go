package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"quotescrape/internal/pipeline"
)

//go:embed schema.sql
var Schema string

// SQLStore replaces a snapshot of the collections in a sqlite or libsql
// database on every Persist. Authors are keyed by their position, two
// authors sharing a fullname are both kept.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore applies the schema to db and returns a store writing to it.
func NewSQLStore(ctx context.Context, db *sql.DB) (SQLStore, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return SQLStore{}, fmt.Errorf("apply schema: %w", err)
	}
	return SQLStore{db: db}, nil
}

func (s SQLStore) Persist(ctx context.Context, quotes []pipeline.QuoteRecord, authors []pipeline.AuthorRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"delete from quote_tag",
		"delete from quote",
		"delete from author",
	} {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	for i, a := range authors {
		_, err = tx.ExecContext(
			ctx,
			"insert into author(id, fullname, born_date, born_location, description) values (?, ?, ?, ?, ?)",
			int64(i+1), a.Fullname, a.BornDate, a.BornLocation, a.Description,
		)
		if err != nil {
			return fmt.Errorf("insert author %q: %w", a.Fullname, err)
		}
	}

	for i, q := range quotes {
		id := int64(i + 1)
		_, err = tx.ExecContext(
			ctx,
			"insert into quote(id, author, quote) values (?, ?, ?)",
			id, q.Author, q.Quote,
		)
		if err != nil {
			return fmt.Errorf("insert quote %d: %w", id, err)
		}
		for _, tag := range q.Tags {
			_, err = tx.ExecContext(
				ctx,
				"insert into quote_tag(quote_id, tag) values (?, ?)",
				id, tag,
			)
			if err != nil {
				return fmt.Errorf("insert tag %q of quote %d: %w", tag, id, err)
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back, quotes in insertion order with sorted tags.
func (s SQLStore) Load(ctx context.Context) ([]pipeline.QuoteRecord, []pipeline.AuthorRecord, error) {
	authors := []pipeline.AuthorRecord{}
	rows, err := s.db.QueryContext(ctx, "select fullname, born_date, born_location, description from author order by id")
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var a pipeline.AuthorRecord
		err = rows.Scan(&a.Fullname, &a.BornDate, &a.BornLocation, &a.Description)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		authors = append(authors, a)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, nil, rows.Err()
	}

	quotes := []pipeline.QuoteRecord{}
	index := map[int64]int{}
	rows, err = s.db.QueryContext(ctx, "select id, author, quote from quote order by id")
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var id int64
		q := pipeline.QuoteRecord{Tags: []string{}}
		err = rows.Scan(&id, &q.Author, &q.Quote)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		index[id] = len(quotes)
		quotes = append(quotes, q)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, nil, rows.Err()
	}

	rows, err = s.db.QueryContext(ctx, "select quote_id, tag from quote_tag order by quote_id, tag")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var tag string
		err = rows.Scan(&id, &tag)
		if err != nil {
			return nil, nil, err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		quotes[i].Tags = append(quotes[i].Tags, tag)
	}
	return quotes, authors, rows.Err()
}
