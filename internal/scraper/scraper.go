package scraper

import (
	"context"
	"errors"

	"github.com/vampirepapi/link2notion/internal/domain"
)

var (
	// ErrAuthentication is returned when the login form submission fails or
	// LinkedIn bounces back to the login page.
	ErrAuthentication = errors.New("linkedin authentication failed")
	// ErrCheckpoint is returned when LinkedIn asks for additional verification
	// that cannot be completed in a headless session.
	ErrCheckpoint = errors.New("linkedin requested a verification checkpoint")
	// ErrNavigation is returned when the saved-posts page cannot be reached.
	ErrNavigation = errors.New("failed to reach linkedin saved posts page")
)

type Client interface {
	// ScrapeSavedPosts runs the full workflow: login, navigate to the
	// saved-posts page, scroll until the feed stops growing and extract the
	// posts. Posts are deduplicated by URN.
	ScrapeSavedPosts(ctx context.Context) ([]domain.SavedPost, error)
}
