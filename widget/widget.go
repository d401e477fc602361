// Package widget is the embeddable blog section. It talks to the public
// Sanity query endpoint on its own, without the typed content client, and
// renders cards and sections into a host Document.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/imageurl"
)

// Config points the widget at a public dataset and at the blog it links to.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	SiteURL    string // card and CTA links

	// FallbackImage stands in for posts without a main image.
	FallbackImage string

	// BaseURL overrides the computed API host, e.g. for a test server.
	BaseURL string
}

// DefaultConfig is the public production dataset.
func DefaultConfig() Config {
	return Config{
		ProjectID:  "32ysp5d7",
		Dataset:    "production",
		APIVersion: "2024-01-01",
		UseCDN:     true,
		SiteURL:    "https://blog.pagrico.com",

		FallbackImage: "https://pagrico.com/og-blog-default.jpg",
	}
}

// Widget fetches and renders posts. Apart from a host Document's style flag
// it holds no mutable state, so one Widget serves any number of sections.
type Widget struct {
	cfg      Config
	endpoint string
	client   *http.Client
	images   imageurl.Builder
}

// New returns a Widget. A nil client gets a 10 second timeout.
func New(cfg Config, client *http.Client) *Widget {
	def := DefaultConfig()
	if cfg.ProjectID == "" {
		cfg.ProjectID = def.ProjectID
	}
	if cfg.Dataset == "" {
		cfg.Dataset = def.Dataset
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = def.APIVersion
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = def.SiteURL
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	if cfg.FallbackImage == "" {
		cfg.FallbackImage = def.FallbackImage
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	w := &Widget{
		cfg:    cfg,
		client: client,
		images: imageurl.New(cfg.ProjectID, cfg.Dataset),
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN {
			host = "apicdn.sanity.io"
		}
		base = "https://" + cfg.ProjectID + "." + host
	}
	w.endpoint = base + "/v" + strings.TrimPrefix(cfg.APIVersion, "v") + "/data/query/" + url.PathEscape(cfg.Dataset)
	return w
}

const cardFields = `{
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  readingTime,
  featured,
  mainImage{asset->{_id, url}, alt},
  categories[]->{title, "slug": slug.current, icon, color},
  author->{name, role}
}`

const (
	postsFilter     = `_type == "post" && status == "published" && defined(slug.current)`
	allPostsQuery   = `*[` + postsFilter + `] | order(publishedAt desc)`
	featuredQuery   = `*[` + postsFilter + ` && featured == true] | order(publishedAt desc)`
	byCategoryQuery = `*[` + postsFilter + ` && references(*[_type == "category" && slug.current == $categorySlug]._id)] | order(publishedAt desc)`
)

// withLimit appends the projection, slicing first when limit is positive.
func withLimit(query string, limit int, params url.Values) string {
	if limit > 0 {
		params.Set("$limit", strconv.Itoa(limit))
		return query + " [0...$limit] " + cardFields
	}
	return query + " " + cardFields
}

// GetPosts returns recent published posts. Limit defaults to 10.
func (w *Widget) GetPosts(ctx context.Context, opts Options) ([]content.Post, error) {
	opts = opts.withDefaults(DefaultListLimit)
	params := url.Values{}
	return w.query(ctx, withLimit(allPostsQuery, opts.Limit, params), params)
}

// GetFeaturedPosts returns featured posts. Limit defaults to 3.
func (w *Widget) GetFeaturedPosts(ctx context.Context, opts Options) ([]content.Post, error) {
	opts = opts.withDefaults(DefaultSectionLimit)
	params := url.Values{}
	return w.query(ctx, withLimit(featuredQuery, opts.Limit, params), params)
}

// GetPostsByCategory returns posts of the category with slug. The slug is
// sent as a bound parameter. Limit defaults to 10.
func (w *Widget) GetPostsByCategory(ctx context.Context, slug string, opts Options) ([]content.Post, error) {
	opts = opts.withDefaults(DefaultListLimit)
	b, err := json.Marshal(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("$categorySlug", string(b))
	return w.query(ctx, withLimit(byCategoryQuery, opts.Limit, params), params)
}

func (w *Widget) query(ctx context.Context, query string, params url.Values) ([]content.Post, error) {
	params.Set("query", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("widget: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("widget: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("widget: api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	var body struct {
		Result []content.Post `json:"result"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("widget: decode response: %w", err)
	}
	if body.Result == nil {
		return []content.Post{}, nil
	}
	return body.Result, nil
}

// Posts runs the query opts ask for: by category when Category is set,
// featured when Featured is set, recent posts otherwise.
func (w *Widget) Posts(ctx context.Context, opts Options) ([]content.Post, error) {
	switch {
	case opts.Category != "":
		return w.GetPostsByCategory(ctx, opts.Category, opts)
	case opts.Featured:
		return w.GetFeaturedPosts(ctx, opts)
	default:
		return w.GetPosts(ctx, opts)
	}
}
