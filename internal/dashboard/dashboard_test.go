package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/repositories/archive"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/errors"
	"github.com/vampirepapi/link2notion/pkg/logger"
)

type stubNotion struct {
	posts []domain.SavedPost
	err   error
}

func (s *stubNotion) PageExists(context.Context, string) (bool, error) { return false, nil }

func (s *stubNotion) CreatePage(context.Context, domain.SavedPost) (string, error) {
	return "", nil
}

func (s *stubNotion) ListPosts(context.Context) ([]domain.SavedPost, error) {
	return s.posts, s.err
}

type stubMigrator struct {
	summary migrator.Summary
	err     error
}

func (s *stubMigrator) Migrate(context.Context) (migrator.Summary, error) {
	return s.summary, s.err
}

func (s *stubMigrator) Sync(_ context.Context, posts []domain.SavedPost) (migrator.Summary, error) {
	return migrator.Summary{Scraped: len(posts)}, nil
}

func (s *stubMigrator) LastPosts() []domain.SavedPost { return nil }

func (s *stubMigrator) ScheduleMigrations(context.Context) error { return nil }

type stubArchive struct {
	archive.Noop
	records []*archive.Record
	err     error
}

func (s *stubArchive) List(context.Context, int) ([]*archive.Record, error) {
	return s.records, s.err
}

func newTestServer(t *testing.T, n *stubNotion, m *stubMigrator) *Server {
	return newTestServerWithArchive(t, n, m, &stubArchive{})
}

func newTestServerWithArchive(t *testing.T, n *stubNotion, m *stubMigrator, a *stubArchive) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Export.Dir = t.TempDir()

	return New(Opts{
		Config:   cfg,
		Logger:   logger.New(logger.Opts{}),
		Migrator: m,
		Notion:   n,
		Archive:  a,
	})
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, &stubNotion{}, &stubMigrator{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListPosts(t *testing.T) {
	posts := []domain.SavedPost{
		{
			URN:      "urn:li:activity:1",
			Content:  "Hello world",
			Author:   "Jane Doe",
			PostedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		{URN: "urn:li:activity:2", Content: "Second"},
	}
	server := newTestServer(t, &stubNotion{posts: posts}, &stubMigrator{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total int        `json:"total"`
		Posts []postView `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Posts, 2)
	assert.Equal(t, "urn:li:activity:1", body.Posts[0].URN)
	assert.Equal(t, "Hello world", body.Posts[0].Preview)
	assert.Equal(t, "Jane Doe", body.Posts[0].Author)
	assert.Equal(t, "2024-05-01T10:30:00Z", body.Posts[0].PostedAt)
	assert.Empty(t, body.Posts[1].PostedAt)
}

func TestListPostsNotionError(t *testing.T) {
	server := newTestServer(t, &stubNotion{err: errors.New("notion down")}, &stubMigrator{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "notion down")
}

func TestRunMigration(t *testing.T) {
	m := &stubMigrator{summary: migrator.Summary{Scraped: 5, Created: 3, Skipped: 2}}
	server := newTestServer(t, &stubNotion{}, m)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/migrate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body["scraped"])
	assert.Equal(t, 3, body["created"])
	assert.Equal(t, 2, body["skipped"])
}

func TestRunMigrationError(t *testing.T) {
	server := newTestServer(t, &stubNotion{}, &stubMigrator{err: errors.New("scrape failed")})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/migrate", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "scrape failed")
}

func TestArchiveHistory(t *testing.T) {
	records := []*archive.Record{
		{
			URN:          "urn:li:activity:1",
			Author:       "Jane Doe",
			Content:      "Hello world",
			NotionPageID: "page-1",
			PostedAt:     time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
			CreatedAt:    time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
		},
		{URN: "urn:li:activity:2", CreatedAt: time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC)},
	}
	server := newTestServerWithArchive(t, &stubNotion{}, &stubMigrator{}, &stubArchive{records: records})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total   int           `json:"total"`
		Records []archiveView `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Records, 2)
	assert.Equal(t, "urn:li:activity:1", body.Records[0].URN)
	assert.Equal(t, "Hello world", body.Records[0].Preview)
	assert.Equal(t, "page-1", body.Records[0].NotionPageID)
	assert.Equal(t, "2024-05-01T10:30:00Z", body.Records[0].PostedAt)
	assert.Equal(t, "2024-05-03T09:00:00Z", body.Records[0].ArchivedAt)
	assert.Empty(t, body.Records[1].PostedAt, "zero posted time is omitted")
}

func TestArchiveHistoryDisabled(t *testing.T) {
	server := newTestServer(t, &stubNotion{}, &stubMigrator{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total   int           `json:"total"`
		Records []archiveView `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Total)
	assert.Empty(t, body.Records)
}

func TestArchiveHistoryError(t *testing.T) {
	a := &stubArchive{err: errors.New("postgres down")}
	server := newTestServerWithArchive(t, &stubNotion{}, &stubMigrator{}, a)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres down")
}

func TestExportPosts(t *testing.T) {
	posts := []domain.SavedPost{{URN: "urn:li:activity:1", Content: "Hello", Author: "Jane"}}
	server := newTestServer(t, &stubNotion{posts: posts}, &stubMigrator{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"single":false}`))
	req.Header.Set("Content-Type", "application/json")
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Contains(t, body.Path, "export_")
}

func TestExportPostsSingleWritesUnderExportDir(t *testing.T) {
	posts := []domain.SavedPost{{URN: "urn:li:activity:1", Content: "Hello"}}
	server := newTestServer(t, &stubNotion{posts: posts}, &stubMigrator{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", strings.NewReader(`{"single":true}`))
	req.Header.Set("Content-Type", "application/json")
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, server.Config.Export.Dir, filepath.Dir(body.Path),
		"combined exports go into the configured export directory")

	_, err := os.Stat(body.Path)
	require.NoError(t, err)
}
