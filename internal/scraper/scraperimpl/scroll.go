package scraperimpl

import (
	"context"

	"github.com/chromedp/chromedp"
	"github.com/vampirepapi/link2notion/pkg/errors"
)

// scrollUntilStable scrolls to the bottom of the feed until the document
// height stops growing, so lazily loaded posts end up in the DOM.
func (s *ChromeImpl) scrollUntilStable(ctx context.Context) error {
	s.Logger.Info("Scrolling through saved posts to load all content")

	var previousHeight, currentHeight int64
	idleRounds := 0

	for scroll := 1; scroll <= s.Config.Scraper.MaxScrolls; scroll++ {
		err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(s.Config.Scraper.ScrollPause),
			chromedp.Evaluate(`document.body.scrollHeight`, &currentHeight),
		)
		if err != nil {
			return errors.Wrap(err, "failed to scroll saved posts page")
		}

		if currentHeight == previousHeight {
			idleRounds++
			s.Logger.Debug("No new content after scroll", "scroll", scroll, "idle_rounds", idleRounds)
			if idleRounds >= s.Config.Scraper.MaxIdleRounds {
				s.Logger.Info("No additional content detected", "scrolls", scroll)
				return nil
			}
			continue
		}

		idleRounds = 0
		previousHeight = currentHeight
		s.Logger.Debug("Content height increased", "scroll", scroll, "height", currentHeight)
	}

	s.Logger.Info("Reached maximum number of scrolls", "max", s.Config.Scraper.MaxScrolls)
	return nil
}
