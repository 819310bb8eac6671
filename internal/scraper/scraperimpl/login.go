package scraperimpl

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/vampirepapi/link2notion/internal/scraper"
	"github.com/vampirepapi/link2notion/pkg/errors"
)

func (s *ChromeImpl) login(ctx context.Context) error {
	s.Logger.Info("Logging into LinkedIn")

	formCtx, cancel := context.WithTimeout(ctx, s.Config.Scraper.NavTimeout)
	defer cancel()

	err := chromedp.Run(formCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`input[name="session_key"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="session_key"]`, s.Config.LinkedIn.Email, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="session_password"]`, s.Config.LinkedIn.Password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
	)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(scraper.ErrAuthentication, "linkedin login timed out")
		}
		return errors.Wrap(err, "unexpected error during linkedin login")
	}

	loc, err := s.waitForRedirect(ctx, "/login")
	if err != nil {
		return err
	}

	if strings.Contains(loc, "checkpoint") {
		s.Logger.Warn("LinkedIn presented a security checkpoint")
		if s.Config.LinkedIn.Headless {
			return errors.Wrap(scraper.ErrCheckpoint,
				"additional verification required, run with --no-headless to complete it manually")
		}
		s.Logger.Info("Pausing to allow manual completion of checkpoint challenge",
			"wait", s.Config.Scraper.CheckpointWait.String())
		if err := chromedp.Run(ctx, chromedp.Sleep(s.Config.Scraper.CheckpointWait)); err != nil {
			return errors.Wrap(err, "interrupted while waiting for checkpoint completion")
		}
		if loc, err = s.location(ctx); err != nil {
			return err
		}
	}

	if strings.Contains(loc, "/login") {
		return errors.Wrap(scraper.ErrAuthentication, "check credentials or complete challenges")
	}

	s.Logger.Info("Successfully authenticated with LinkedIn")
	return nil
}

// waitForRedirect polls the page URL until it no longer contains fragment or
// the navigation timeout elapses, and returns the last observed URL.
func (s *ChromeImpl) waitForRedirect(ctx context.Context, fragment string) (string, error) {
	deadline := time.Now().Add(s.Config.Scraper.NavTimeout)
	for {
		loc, err := s.location(ctx)
		if err != nil {
			return "", err
		}
		if !strings.Contains(loc, fragment) || time.Now().After(deadline) {
			return loc, nil
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(500 * time.Millisecond)); err != nil {
			return "", errors.Wrap(err, "interrupted while waiting for navigation")
		}
	}
}

func (s *ChromeImpl) openSavedPosts(ctx context.Context) error {
	s.Logger.Info("Navigating to LinkedIn saved posts page")

	navCtx, cancel := context.WithTimeout(ctx, s.Config.Scraper.NavTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(savedPostsURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(scraper.ErrNavigation, "timed out while loading saved posts page")
		}
		return errors.Wrap(err, "unexpected error while loading saved posts page")
	}

	loc, err := s.location(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(loc, "my-items/saved-posts") {
		return errors.Wrap(scraper.ErrNavigation, "landed on "+loc)
	}

	s.Logger.Info("Saved posts page loaded")
	return nil
}
