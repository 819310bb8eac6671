package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE saved_posts (
		id SERIAL PRIMARY KEY,
		urn VARCHAR NOT NULL UNIQUE,
		author VARCHAR NOT NULL DEFAULT '',
		post_url VARCHAR NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		notion_page_id VARCHAR NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE migration_runs (
		id SERIAL PRIMARY KEY,
		scraped INT NOT NULL,
		created INT NOT NULL,
		skipped INT NOT NULL,
		run_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE migration_runs;
	DROP TABLE saved_posts;
	`)
	if err != nil {
		return err
	}
	return nil
}
