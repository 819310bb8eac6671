package dashboard

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/exporter"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/notion"
	"github.com/vampirepapi/link2notion/internal/repositories/archive"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/formatter"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

const archiveHistoryLimit = 50

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Migrator migrator.Client
	Notion   notion.Client
	Archive  archive.Repository
}

// Server is the JSON dashboard for viewing migrated posts, triggering runs
// and exporting markdown.
type Server struct {
	engine   *gin.Engine
	Config   *config.Config
	Logger   logger.Logger
	Migrator migrator.Client
	Notion   notion.Client
	Archive  archive.Repository
}

func New(opts Opts) *Server {
	if opts.Config.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:   gin.New(),
		Config:   opts.Config,
		Logger:   opts.Logger.WithComponent("Dashboard"),
		Migrator: opts.Migrator,
		Notion:   opts.Notion,
		Archive:  opts.Archive,
	}

	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Handler exposes the router for an http.Server and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api")
	api.GET("/posts", s.listPosts)
	api.GET("/archive", s.archiveHistory)
	api.POST("/migrate", s.runMigration)
	api.POST("/export", s.exportPosts)
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type postView struct {
	URN      string `json:"urn"`
	Preview  string `json:"preview"`
	Content  string `json:"content"`
	Author   string `json:"author,omitempty"`
	URL      string `json:"url,omitempty"`
	PostedAt string `json:"posted_at,omitempty"`
	SavedAt  string `json:"saved_at,omitempty"`
}

func toView(post domain.SavedPost) postView {
	view := postView{
		URN:     post.URN,
		Preview: formatter.Preview(post.Content, 120),
		Content: post.Content,
		Author:  post.Author,
		URL:     post.URL,
	}
	if !post.PostedAt.IsZero() {
		view.PostedAt = post.PostedAt.Format(time.RFC3339)
	}
	if !post.SavedAt.IsZero() {
		view.SavedAt = post.SavedAt.Format(time.RFC3339)
	}
	return view
}

func (s *Server) listPosts(c *gin.Context) {
	posts, err := s.Notion.ListPosts(c.Request.Context())
	if err != nil {
		s.Logger.Error("Failed to list posts from Notion", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toView(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(views),
		"posts": views,
	})
}

type archiveView struct {
	URN          string `json:"urn"`
	Preview      string `json:"preview"`
	Author       string `json:"author,omitempty"`
	URL          string `json:"url,omitempty"`
	NotionPageID string `json:"notion_page_id"`
	PostedAt     string `json:"posted_at,omitempty"`
	ArchivedAt   string `json:"archived_at"`
}

func (s *Server) archiveHistory(c *gin.Context) {
	records, err := s.Archive.List(c.Request.Context(), archiveHistoryLimit)
	if err != nil {
		s.Logger.Error("Failed to list archived posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]archiveView, 0, len(records))
	for _, record := range records {
		view := archiveView{
			URN:          record.URN,
			Preview:      formatter.Preview(record.Content, 120),
			Author:       record.Author,
			URL:          record.PostURL,
			NotionPageID: record.NotionPageID,
			ArchivedAt:   record.CreatedAt.Format(time.RFC3339),
		}
		if !record.PostedAt.IsZero() {
			view.PostedAt = record.PostedAt.Format(time.RFC3339)
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(views),
		"records": views,
	})
}

func (s *Server) runMigration(c *gin.Context) {
	summary, err := s.Migrator.Migrate(c.Request.Context())
	if err != nil {
		s.Logger.Error("Migration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scraped": summary.Scraped,
		"created": summary.Created,
		"skipped": summary.Skipped,
	})
}

type exportRequest struct {
	Single bool `json:"single"`
}

func (s *Server) exportPosts(c *gin.Context) {
	var req exportRequest
	// Body is optional; default is one file per post.
	_ = c.ShouldBindJSON(&req)

	posts, err := s.Notion.ListPosts(c.Request.Context())
	if err != nil {
		s.Logger.Error("Failed to list posts from Notion", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	var path string
	if req.Single {
		path, err = exporter.ExportSingle(posts, filepath.Join(s.Config.Export.Dir, exporter.CombinedFileName()))
	} else {
		path, err = exporter.ExportPosts(posts, s.Config.Export.Dir)
	}
	if err != nil {
		s.Logger.Error("Failed to export posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":  path,
		"count": len(posts),
	})
}
