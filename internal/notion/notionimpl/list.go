package notionimpl

import (
	"context"
	"time"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/pkg/errors"
)

const listPageSize = 100

// ListPosts pages through the whole database with the query endpoint's
// cursor and maps every page back into a SavedPost.
func (c *RestImpl) ListPosts(ctx context.Context) ([]domain.SavedPost, error) {
	var posts []domain.SavedPost
	cursor := ""

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		payload := queryRequest{
			PageSize:    listPageSize,
			StartCursor: cursor,
		}

		var out queryResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&out).
			Post("/databases/" + c.Config.Notion.DatabaseID + "/query")
		if err != nil {
			return nil, errors.Wrap(err, "failed to list notion pages")
		}
		if resp.IsError() {
			return nil, apiError("list pages", resp)
		}

		for _, page := range out.Results {
			posts = append(posts, c.pageToPost(page))
		}

		if !out.HasMore || out.NextCursor == "" {
			break
		}
		cursor = out.NextCursor
	}

	c.Logger.Debug("Listed notion pages", "count", len(posts))
	return posts, nil
}

func (c *RestImpl) pageToPost(page pageObject) domain.SavedPost {
	names := c.Config.NotionProperties
	var post domain.SavedPost

	for name, value := range page.Properties {
		switch name {
		case names.Title:
			if post.Content == "" {
				post.Content = plainText(value.Title)
			}
		case names.Content:
			if text := plainText(value.RichText); text != "" {
				post.Content = text
			}
		case names.Author:
			post.Author = plainText(value.RichText)
		case names.URL:
			post.URL = value.URL
		case names.URN:
			post.URN = plainText(value.RichText)
		case names.PostedAt:
			post.PostedAt = parseDate(value.Date)
		case names.SavedAt:
			post.SavedAt = parseDate(value.Date)
		}
	}

	return post
}

func parseDate(value *dateValue) time.Time {
	if value == nil || value.Start == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value.Start); err == nil {
			return t
		}
	}
	return time.Time{}
}
