package archive

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/repositories"
	"github.com/vampirepapi/link2notion/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ArchiveRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create archives a migrated post together with its Notion page ID
func (p *Pgx) Create(ctx context.Context, post domain.SavedPost, notionPageID string) error {
	var postedAt any
	if !post.PostedAt.IsZero() {
		postedAt = post.PostedAt
	}

	query, args, err := repositories.SqBuilder.
		Insert("saved_posts").
		Columns("urn", "author", "post_url", "content", "notion_page_id", "posted_at", "created_at").
		Values(post.URN, post.Author, post.URL, post.Content, notionPageID, postedAt, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// List returns the most recently archived posts, limited by count
func (p *Pgx) List(ctx context.Context, count int) ([]*Record, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "urn", "author", "post_url", "content", "notion_page_id", "coalesce(posted_at, 'epoch'::timestamptz)", "created_at").
		From("saved_posts").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID, &record.URN, &record.Author, &record.PostURL,
			&record.Content, &record.NotionPageID, &record.PostedAt, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// RecordRun stores the totals of one migration run
func (p *Pgx) RecordRun(ctx context.Context, summary migrator.Summary) error {
	query, args, err := repositories.SqBuilder.
		Insert("migration_runs").
		Columns("scraped", "created", "skipped", "run_at").
		Values(summary.Scraped, summary.Created, summary.Skipped, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}
