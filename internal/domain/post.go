package domain

import "time"

// SavedPost is one saved LinkedIn post as scraped from the saved-posts page.
// Zero values mean the field could not be extracted.
type SavedPost struct {
	URN          string    // unique identifier, used for dedupe and existence checks
	Content      string    // post body text
	Author       string    // display name of the post author
	URL          string    // permalink without tracking parameters
	PostedAt     time.Time // parsed from the post's <time> element
	SavedAt      time.Time // when the post was saved, if the page exposes it
	RawDateText  string    // unparsed date string shown on the post
	RawSavedText string    // unparsed saved-at string shown on the post
}

// Summary returns a short string identifying the post in logs.
func (p SavedPost) Summary() string {
	author := p.Author
	if author == "" {
		author = "Unknown Author"
	}
	return p.URN + " - " + author
}
