package archive

import (
	"context"
	"errors"
	"time"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/migrator"
)

var ErrAlreadyExists = errors.New("post already archived")

// Record is one archived post.
type Record struct {
	ID           int
	URN          string
	Author       string
	PostURL      string
	Content      string
	NotionPageID string
	PostedAt     time.Time
	CreatedAt    time.Time
}

// Repository keeps a local history of migrated posts and run summaries. It is
// optional; when Postgres is not configured the no-op implementation is used
// and runs stay stateless.
type Repository interface {
	// Create archives a migrated post together with its Notion page ID
	Create(ctx context.Context, post domain.SavedPost, notionPageID string) error

	// List returns the most recently archived posts, limited by count
	List(ctx context.Context, count int) ([]*Record, error)

	// RecordRun stores the totals of one migration run
	RecordRun(ctx context.Context, summary migrator.Summary) error
}
