package notionimpl

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/notion"
	"github.com/vampirepapi/link2notion/internal/ratelimit"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/errors"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

const (
	baseURL       = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"

	// Notion enforces an average of 3 requests per second per integration.
	requestsPerSecond = 3
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type RestImpl struct {
	http    *resty.Client
	limiter ratelimit.Limiter
	Config  *config.Config
	Logger  logger.Logger

	schemaMu sync.Mutex
	schema   map[string]string
}

func New(opts Opts) *RestImpl {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(opts.Config.Notion.APIKey).
		SetHeader("Notion-Version", notionVersion).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &RestImpl{
		http:    client,
		limiter: ratelimit.NewClientLimiter(requestsPerSecond, time.Second, requestsPerSecond),
		Config:  opts.Config,
		Logger:  opts.Logger.WithComponent("NotionClient"),
	}
}

var _ notion.Client = (*RestImpl)(nil)

// databaseProperties returns the property-name -> property-type mapping of the
// target database, fetching it on first use. Only a successful fetch is
// cached; after a failure the next call retries, so one bad response does not
// poison a long-lived client.
func (c *RestImpl) databaseProperties(ctx context.Context) (map[string]string, error) {
	c.schemaMu.Lock()
	defer c.schemaMu.Unlock()

	if c.schema != nil {
		return c.schema, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out databaseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/databases/" + c.Config.Notion.DatabaseID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch notion database schema")
	}
	if resp.IsError() {
		return nil, apiError("fetch database schema", resp)
	}

	schema := make(map[string]string, len(out.Properties))
	for name, prop := range out.Properties {
		schema[name] = prop.Type
	}
	c.schema = schema
	c.Logger.Debug("Fetched notion database schema", "properties", len(schema))
	return c.schema, nil
}

func (c *RestImpl) PageExists(ctx context.Context, urn string) (bool, error) {
	if urn == "" {
		return false, nil
	}

	schema, err := c.databaseProperties(ctx)
	if err != nil {
		return false, err
	}
	urnProperty := c.Config.NotionProperties.URN
	if _, ok := schema[urnProperty]; !ok {
		return false, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	payload := queryRequest{
		Filter: &queryFilter{
			Property: urnProperty,
			RichText: &textFilter{Equals: urn},
		},
	}

	var out queryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/databases/" + c.Config.Notion.DatabaseID + "/query")
	if err != nil {
		return false, errors.Wrap(err, "failed to query notion database")
	}
	if resp.IsError() {
		return false, apiError("query database", resp)
	}

	return len(out.Results) > 0, nil
}

func (c *RestImpl) CreatePage(ctx context.Context, post domain.SavedPost) (string, error) {
	c.Logger.Info("Creating notion page", "post", post.Summary())

	schema, err := c.databaseProperties(ctx)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := createPageRequest{
		Parent:     pageParent{DatabaseID: c.Config.Notion.DatabaseID},
		Properties: buildProperties(post, c.Config.NotionProperties, schema),
		Children:   buildChildren(post),
	}

	var out pageObject
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/pages")
	if err != nil {
		return "", errors.Wrap(err, "failed to create notion page")
	}
	if resp.IsError() {
		return "", apiError("create page", resp)
	}

	c.Logger.Info("Created notion page", "page_id", out.ID)
	return out.ID, nil
}

func apiError(op string, resp *resty.Response) error {
	return errors.WrapWithCode(
		fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()),
		strconv.Itoa(resp.StatusCode()),
		"notion "+op+" failed",
	)
}
