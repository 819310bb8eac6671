package notion

import (
	"context"

	"github.com/vampirepapi/link2notion/internal/domain"
)

type Client interface {
	// PageExists checks whether a page keyed by the given URN already exists
	// in the target database. A blank URN or an unconfigured URN property
	// reports false.
	PageExists(ctx context.Context, urn string) (bool, error)

	// CreatePage creates one page for the post and returns the new page ID.
	CreatePage(ctx context.Context, post domain.SavedPost) (string, error)

	// ListPosts pages through the whole database and maps every page back
	// into a SavedPost.
	ListPosts(ctx context.Context) ([]domain.SavedPost, error)
}
