package scraperimpl

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/scraper"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/errors"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

const (
	loginURL      = "https://www.linkedin.com/login"
	savedPostsURL = "https://www.linkedin.com/my-items/saved-posts/"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// ChromeImpl scrapes the saved-posts page through a Chrome session. One
// browser session per run; nothing is shared between runs.
type ChromeImpl struct {
	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *ChromeImpl {
	return &ChromeImpl{
		Config: opts.Config,
		Logger: opts.Logger.WithComponent("LinkedInScraper"),
	}
}

var _ scraper.Client = (*ChromeImpl)(nil)

func (s *ChromeImpl) ScrapeSavedPosts(ctx context.Context) ([]domain.SavedPost, error) {
	s.Logger.Debug("Starting browser", "headless", s.Config.LinkedIn.Headless)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Config.LinkedIn.Headless),
		chromedp.WindowSize(1280, 1024),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := s.login(browserCtx); err != nil {
		return nil, err
	}
	if err := s.openSavedPosts(browserCtx); err != nil {
		return nil, err
	}
	if err := s.scrollUntilStable(browserCtx); err != nil {
		return nil, err
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, errors.Wrap(err, "failed to read rendered saved posts page")
	}

	posts, err := ExtractPosts(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse saved posts page")
	}

	s.Logger.Info("Extracted saved posts", "count", len(posts))
	return posts, nil
}

// location reads the current page URL.
func (s *ChromeImpl) location(ctx context.Context) (string, error) {
	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err != nil {
		return "", errors.Wrap(err, "failed to read page location")
	}
	return loc, nil
}
