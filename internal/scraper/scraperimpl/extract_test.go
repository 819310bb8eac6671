package scraperimpl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savedPostsFixture = `
<html><body>
<ul>
  <li data-urn="urn:li:activity:111">
    <div class="update-components-actor__name">Jane Doe</div>
    <span class="update-components-actor__sub-description">2d ago</span>
    <div class="feed-shared-update-v2__commentary">First post content</div>
    <a data-control-name="view_post" href="https://www.linkedin.com/feed/update/urn:li:activity:111?utm_source=share">view</a>
    <time datetime="2024-05-01T10:30:00Z">May 1</time>
  </li>
  <li data-urn="urn:li:activity:111">
    <div class="feed-shared-update-v2__commentary">Duplicate container for the same post</div>
  </li>
  <div data-urn="urn:li:activity:222">
    <p>Second post</p>
  </div>
  <article>
    <div class="break-words">Orphan post without an identifier</div>
  </article>
</ul>
</body></html>`

func TestExtractPosts(t *testing.T) {
	posts, err := ExtractPosts(strings.NewReader(savedPostsFixture))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	first := posts[0]
	assert.Equal(t, "urn:li:activity:111", first.URN)
	assert.Equal(t, "First post content", first.Content)
	assert.Equal(t, "Jane Doe", first.Author)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:activity:111", first.URL,
		"query string must be stripped from the permalink")
	assert.Equal(t, "2d ago", first.RawDateText)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), first.PostedAt.UTC())

	second := posts[1]
	assert.Equal(t, "urn:li:activity:222", second.URN)
	assert.Equal(t, "Second post", second.Content)
	assert.Empty(t, second.Author)
	assert.Empty(t, second.URL)
	assert.True(t, second.PostedAt.IsZero())

	third := posts[2]
	assert.True(t, strings.HasPrefix(third.URN, "generated:"))
	assert.Equal(t, "Orphan post without an identifier", third.Content)
}

func TestExtractPostsFallbackURNIsStable(t *testing.T) {
	first, err := ExtractPosts(strings.NewReader(savedPostsFixture))
	require.NoError(t, err)
	second, err := ExtractPosts(strings.NewReader(savedPostsFixture))
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	assert.Equal(t, first[2].URN, second[2].URN)
}

func TestExtractPostsSkipsNestedUnidentifiedContainers(t *testing.T) {
	html := `
	<div data-urn="urn:li:activity:333">
	  <article>
	    <div class="break-words">Inner rendering of the same post</div>
	  </article>
	  <div class="break-words">Outer content</div>
	</div>`

	posts, err := ExtractPosts(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "urn:li:activity:333", posts[0].URN)
}

func TestExtractPostsEmptyDocument(t *testing.T) {
	posts, err := ExtractPosts(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestExtractPostsContentDefault(t *testing.T) {
	html := `<li data-urn="urn:li:activity:444"><span class="artdeco-entity-lockup__caption">Saved 1w ago</span></li>`

	posts, err := ExtractPosts(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "LinkedIn saved post", posts[0].Content)
	assert.Equal(t, "Saved 1w ago", posts[0].RawSavedText)
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339", "2024-05-01T10:30:00Z", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"no zone", "2024-05-01T10:30:00", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"garbage", "2 days ago", time.Time{}},
		{"empty", "", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseISOTime(tt.value).UTC())
		})
	}
}
