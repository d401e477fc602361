// Package content holds the blog's typed records and the fixed catalog of
// read-only queries that produce them.
package content

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pagrico/blog/internal/logger"
	"github.com/pagrico/blog/sanity"
)

// Featured limits used by the pages.
const (
	HomeFeaturedLimit = 3
	ListFeaturedLimit = 6
)

// Fetcher runs a parameterized query and decodes its result into out.
// *sanity.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, query string, params sanity.Params, out any) error
}

// Catalog runs the blog's fixed queries. Query failures are logged and turn
// into empty results; callers treat "no data" as a normal outcome.
type Catalog struct {
	fetcher Fetcher
}

// NewCatalog returns a Catalog backed by f.
func NewCatalog(f Fetcher) *Catalog {
	return &Catalog{fetcher: f}
}

// AllPosts returns every published post, newest first.
func (c *Catalog) AllPosts(ctx context.Context) []Post {
	var posts []Post
	if err := c.fetcher.Fetch(ctx, AllPostsQuery, nil, &posts); err != nil {
		c.logFailure("all posts", err, nil)
		return []Post{}
	}
	return normalize(posts)
}

// FeaturedPosts returns at most limit published featured posts, newest first.
func (c *Catalog) FeaturedPosts(ctx context.Context, limit int) []Post {
	if limit <= 0 {
		return []Post{}
	}
	var posts []Post
	if err := c.fetcher.Fetch(ctx, FeaturedPostsQuery, sanity.Params{"limit": limit}, &posts); err != nil {
		c.logFailure("featured posts", err, logger.Fields{"limit": limit})
		return []Post{}
	}
	out := make([]Post, 0, limit)
	for _, p := range normalize(posts) {
		if p.Featured {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PostBySlug returns the published post with slug, including its body and
// related posts, or nil when there is none.
func (c *Catalog) PostBySlug(ctx context.Context, slug string) *Post {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	var post *Post
	if err := c.fetcher.Fetch(ctx, PostBySlugQuery, sanity.Params{"slug": slug}, &post); err != nil {
		c.logFailure("post by slug", err, logger.Fields{"slug": slug})
		return nil
	}
	if post == nil || post.Slug == "" || !isPublished(*post) {
		return nil
	}
	return post
}

// PostSlugs returns the slug of every published post.
func (c *Catalog) PostSlugs(ctx context.Context) []string {
	var rows []struct {
		Slug string `json:"slug"`
	}
	if err := c.fetcher.Fetch(ctx, PostSlugsQuery, nil, &rows); err != nil {
		c.logFailure("post slugs", err, nil)
		return []string{}
	}
	slugs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.Slug == "" || seen[r.Slug] {
			continue
		}
		seen[r.Slug] = true
		slugs = append(slugs, r.Slug)
	}
	return slugs
}

// PostsByCategory returns published posts in the category with slug,
// newest first.
func (c *Catalog) PostsByCategory(ctx context.Context, slug string) []Post {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return []Post{}
	}
	var posts []Post
	if err := c.fetcher.Fetch(ctx, PostsByCategoryQuery, sanity.Params{"categorySlug": slug}, &posts); err != nil {
		c.logFailure("posts by category", err, logger.Fields{"category": slug})
		return []Post{}
	}
	return normalize(posts)
}

// Ping runs a small query and reports the latest posts of any status.
// Unlike the catalog queries it returns the error.
func (c *Catalog) Ping(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.fetcher.Fetch(ctx, LatestPostsQuery, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Categories lists every category by title.
func (c *Catalog) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.fetcher.Fetch(ctx, CategoriesQuery, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Authors lists every author by name.
func (c *Catalog) Authors(ctx context.Context) ([]Author, error) {
	var authors []Author
	if err := c.fetcher.Fetch(ctx, AuthorsQuery, nil, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (c *Catalog) logFailure(query string, err error, fields logger.Fields) {
	if fields == nil {
		fields = logger.Fields{}
	}
	fields["query"] = query
	fields["error"] = err.Error()
	var apiErr *sanity.APIError
	if errors.As(err, &apiErr) {
		fields["status"] = apiErr.StatusCode
	}
	logger.ErrorWithFields("content query failed", fields)
}

func isPublished(p Post) bool {
	return p.Status == "" || p.Status == StatusPublished
}

// normalize drops records that cannot be routed and orders the rest by
// publish date, newest first.
func normalize(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Slug == "" || !isPublished(p) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
