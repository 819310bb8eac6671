package scraperimpl

import (
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/pkg/formatter"
)

// Container and per-field selector chains for the saved-posts feed. LinkedIn
// ships several generations of its feed markup at once, so every field is a
// best-effort fallback chain. These are expected to need maintenance.
var (
	containerSelector = strings.Join([]string{
		"article",
		"div.feed-shared-update-v2",
		"div.feed-shared-update-v3",
		"li[data-urn]",
		"div[data-urn]",
	}, ", ")

	urnAttrs = []string{"data-urn", "data-id", "data-entity-urn"}

	contentSelectors = []string{
		".feed-shared-update-v2__commentary",
		".feed-shared-update-v3__commentary",
		".feed-shared-update-v2__description",
		".feed-shared-text",
		".feed-shared-inline-show-more-text",
		".break-words",
		`[data-test-id="main-feed-text"]`,
		"p",
	}

	authorSelectors = []string{
		".feed-shared-actor__name",
		".feed-shared-actor__title",
		".update-components-actor__name",
		".update-components-actor__title",
		"span.feed-shared-actor__name",
		`a[href*="/in/"] span`,
	}

	dateSelectors = []string{
		"span.feed-shared-actor__sub-description",
		"span.update-components-actor__sub-description",
		"time",
	}

	savedSelectors = []string{
		"span[data-test-saved-timestamp]",
		".saved-item-action__meta",
		".artdeco-entity-lockup__caption",
	}

	linkSelectors = []string{
		`a[data-control-name="view_post"]`,
		`a[data-control-name="update_details"]`,
		"a.feed-shared-update-v2__see-more",
		"a.feed-shared-post-meta__permalink",
		`a[href*="/feed/update/"]`,
		`a[href*="/posts/"]`,
		"a.app-aware-link",
	}
)

type rawPost struct {
	urn       string
	content   string
	author    string
	url       string
	isoDate   string
	dateText  string
	savedText string
}

// ExtractPosts parses the rendered saved-posts page and returns the posts it
// contains, deduplicated by URN. Field extraction is best-effort and never
// fails the run.
func ExtractPosts(r io.Reader) ([]domain.SavedPost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var posts []domain.SavedPost

	doc.Find(containerSelector).Each(func(_ int, sel *goquery.Selection) {
		raw := collectRaw(sel)
		if raw.urn == "" {
			// A container without its own URN that nests inside (or wraps)
			// an identified container is the same post seen twice.
			if sel.Closest("[data-urn], [data-id], [data-entity-urn]").Length() > 0 ||
				sel.Find("[data-urn], [data-id], [data-entity-urn]").Length() > 0 {
				return
			}
			raw.urn = fallbackURN(raw)
		}
		if raw.urn == "" {
			return
		}
		if _, ok := seen[raw.urn]; ok {
			return
		}
		seen[raw.urn] = struct{}{}
		posts = append(posts, convertRaw(raw))
	})

	return posts, nil
}

func collectRaw(sel *goquery.Selection) rawPost {
	raw := rawPost{
		urn:       firstAttr(sel, urnAttrs),
		content:   firstText(sel, contentSelectors),
		author:    firstText(sel, authorSelectors),
		url:       firstLink(sel, linkSelectors),
		dateText:  firstText(sel, dateSelectors),
		savedText: firstText(sel, savedSelectors),
	}

	if t := sel.Find("time").First(); t.Length() > 0 {
		raw.isoDate = strings.TrimSpace(t.AttrOr("datetime", t.AttrOr("aria-label", "")))
	}

	return raw
}

func convertRaw(raw rawPost) domain.SavedPost {
	content := strings.TrimSpace(raw.content)
	if content == "" {
		content = "LinkedIn saved post"
	}

	return domain.SavedPost{
		URN:          raw.urn,
		Content:      content,
		Author:       strings.TrimSpace(raw.author),
		URL:          raw.url,
		PostedAt:     parseISOTime(raw.isoDate),
		RawDateText:  strings.TrimSpace(raw.dateText),
		RawSavedText: strings.TrimSpace(raw.savedText),
	}
}

// firstAttr returns the first non-empty attribute value from names.
func firstAttr(sel *goquery.Selection, names []string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstText returns the first non-empty text matched by the selector chain.
func firstText(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		target := sel.Find(selector).First()
		if target.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(target.Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstLink returns the first anchor href matched by the selector chain with
// the query string stripped.
func firstLink(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		anchor := sel.Find(selector).First()
		if anchor.Length() == 0 {
			continue
		}
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href == "" {
			continue
		}
		if i := strings.Index(href, "?"); i >= 0 {
			href = href[:i]
		}
		return href
	}
	return ""
}

// parseISOTime parses the datetime attribute of a <time> element. Returns the
// zero time when the value is missing or unparseable.
func parseISOTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// fallbackURN derives a stable identifier for containers that carry no URN
// attribute, so dedupe and remote existence checks behave the same across
// runs. Containers with nothing to key on are dropped.
func fallbackURN(raw rawPost) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{
		formatter.Truncate(raw.content, 20),
		formatter.Truncate(raw.author, 20),
		formatter.Truncate(raw.url, 20),
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	key := strings.Join(parts, "-")
	return "generated:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
