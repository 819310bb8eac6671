package notionimpl

import (
	"time"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/formatter"
)

const (
	titleMaxRunes = 200
	defaultTitle  = "LinkedIn Saved Post"
)

// Wire types for the subset of the Notion API this client touches. The same
// structs serve requests and responses; response-only fields carry omitempty.

type databaseResponse struct {
	Properties map[string]propertySchema `json:"properties"`
}

type propertySchema struct {
	Type string `json:"type"`
}

type createPageRequest struct {
	Parent     pageParent               `json:"parent"`
	Properties map[string]propertyValue `json:"properties"`
	Children   []block                  `json:"children,omitempty"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type pageObject struct {
	ID         string                   `json:"id"`
	Properties map[string]propertyValue `json:"properties,omitempty"`
}

type propertyValue struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	URL      string     `json:"url,omitempty"`
	Date     *dateValue `json:"date,omitempty"`
}

type richText struct {
	Type      string    `json:"type,omitempty"`
	Text      *textSpan `json:"text,omitempty"`
	PlainText string    `json:"plain_text,omitempty"`
}

type textSpan struct {
	Content string    `json:"content"`
	Link    *textLink `json:"link,omitempty"`
}

type textLink struct {
	URL string `json:"url"`
}

type dateValue struct {
	Start string `json:"start"`
}

type block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *paragraph `json:"paragraph,omitempty"`
}

type paragraph struct {
	RichText []richText `json:"rich_text"`
}

type queryRequest struct {
	Filter      *queryFilter `json:"filter,omitempty"`
	StartCursor string       `json:"start_cursor,omitempty"`
	PageSize    int          `json:"page_size,omitempty"`
}

type queryFilter struct {
	Property string      `json:"property"`
	RichText *textFilter `json:"rich_text,omitempty"`
}

type textFilter struct {
	Equals string `json:"equals"`
}

type queryResponse struct {
	Results    []pageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

func textProperty(content string) propertyValue {
	return propertyValue{RichText: []richText{{Text: &textSpan{Content: content}}}}
}

// buildProperties builds the page property payload. Only properties present
// in the live database schema are included.
func buildProperties(post domain.SavedPost, names config.NotionProperties, schema map[string]string) map[string]propertyValue {
	properties := make(map[string]propertyValue)

	if _, ok := schema[names.Title]; ok {
		title := defaultTitle
		if post.Content != "" {
			title = formatter.Truncate(post.Content, titleMaxRunes)
		}
		properties[names.Title] = propertyValue{
			Title: []richText{{Text: &textSpan{Content: title}}},
		}
	}

	if _, ok := schema[names.Author]; ok && post.Author != "" {
		properties[names.Author] = textProperty(post.Author)
	}

	if _, ok := schema[names.URL]; ok && post.URL != "" {
		properties[names.URL] = propertyValue{URL: post.URL}
	}

	if _, ok := schema[names.PostedAt]; ok && !post.PostedAt.IsZero() {
		properties[names.PostedAt] = propertyValue{Date: &dateValue{Start: post.PostedAt.Format(time.RFC3339)}}
	}

	if _, ok := schema[names.SavedAt]; ok && !post.SavedAt.IsZero() {
		properties[names.SavedAt] = propertyValue{Date: &dateValue{Start: post.SavedAt.Format(time.RFC3339)}}
	}

	if _, ok := schema[names.URN]; ok && post.URN != "" {
		properties[names.URN] = textProperty(post.URN)
	}

	if _, ok := schema[names.Content]; ok && post.Content != "" {
		properties[names.Content] = textProperty(post.Content)
	}

	return properties
}

// buildChildren builds the page body: the post text followed by paragraphs
// for the permalink, author and dates.
func buildChildren(post domain.SavedPost) []block {
	var children []block

	addParagraph := func(items ...richText) {
		children = append(children, block{
			Object:    "block",
			Type:      "paragraph",
			Paragraph: &paragraph{RichText: items},
		})
	}

	if post.Content != "" {
		addParagraph(richText{Type: "text", Text: &textSpan{Content: post.Content}})
	}

	if post.URL != "" {
		addParagraph(richText{Type: "text", Text: &textSpan{
			Content: "Original Post",
			Link:    &textLink{URL: post.URL},
		}})
	}

	if post.Author != "" {
		addParagraph(richText{Type: "text", Text: &textSpan{Content: "Author: " + post.Author}})
	}

	if !post.PostedAt.IsZero() {
		addParagraph(richText{Type: "text", Text: &textSpan{
			Content: "Date Posted: " + post.PostedAt.Format(time.RFC3339),
		}})
	}

	if !post.SavedAt.IsZero() {
		addParagraph(richText{Type: "text", Text: &textSpan{
			Content: "Saved Date: " + post.SavedAt.Format(time.RFC3339),
		}})
	}

	return children
}

// plainText flattens a rich text array from an API response.
func plainText(items []richText) string {
	var out string
	for _, item := range items {
		if item.PlainText != "" {
			out += item.PlainText
			continue
		}
		if item.Text != nil {
			out += item.Text.Content
		}
	}
	return out
}
