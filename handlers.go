package blog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/internal/logger"
	"github.com/pagrico/blog/views"
)

// fetchListing loads all posts and the featured subset concurrently and
// returns once both are in. The catalog never fails; a failed query comes
// back empty.
func (a *App) fetchListing(ctx context.Context, featuredLimit int) (all, featured []content.Post) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		all = a.Catalog.AllPosts(gctx)
		return nil
	})
	g.Go(func() error {
		featured = a.Catalog.FeaturedPosts(gctx, featuredLimit)
		return nil
	})
	_ = g.Wait()
	return all, featured
}

// homeData builds the home page. The category filter matches category
// titles by case-insensitive substring; featured posts are listed on their
// own and left out of the regular grid.
func (a *App) homeData(ctx context.Context, category string) views.HomeData {
	all, featured := a.fetchListing(ctx, content.HomeFeaturedLimit)

	regular := content.ExcludePosts(all, featured)
	if category != "" {
		featured = nil
		regular = content.FilterByCategory(all, category, content.MatchTitle)
	}
	return views.HomeData{
		Category: category,
		Featured: a.Views.Cards(featured),
		Posts:    a.Views.Cards(regular),
		Filters:  views.Filters("/", category),
		Empty:    views.EmptyFor(content.Empty(len(all), len(featured)+len(regular), category), "/"),
	}
}

// listData builds the listing page. The category filter matches category
// slugs exactly; the featured section only shows on the unfiltered page.
func (a *App) listData(ctx context.Context, category string) views.ListData {
	all, featured := a.fetchListing(ctx, content.ListFeaturedLimit)

	posts := content.FilterByCategory(all, category, content.MatchSlug)
	d := views.ListData{
		Category:     category,
		ShowFeatured: category == "" && len(featured) > 0,
		Featured:     a.Views.Cards(featured),
		Posts:        a.Views.Cards(posts),
		Filters:      views.Filters("/blog/", category),
		Empty:        views.EmptyFor(content.Empty(len(all), len(posts), category), "/blog/"),
	}
	if category != "" {
		d.Heading = "Posts sobre " + content.CategoryHeading(category)
		d.CountLabel = views.CountLabel(len(posts))
	}
	return d
}

// postData returns the detail page for slug, or ErrNotFound.
func (a *App) postData(ctx context.Context, slug string) (views.PostData, error) {
	p := a.Catalog.PostBySlug(ctx, slug)
	if p == nil {
		return views.PostData{}, ErrNotFound
	}
	return a.Views.NewPostData(ctx, *p)
}

func (a *App) handleHome(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	data := a.homeData(c.Request().Context(), category)
	data.Newsletter = a.newsletterForm(c)
	if isHTMX(c) && c.QueryParam("partial") == "posts" {
		return Render(c, a.Views.HomePosts(data))
	}
	return Render(c, a.Views.Home(data))
}

func (a *App) handleList(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	data := a.listData(c.Request().Context(), category)
	data.Newsletter = a.newsletterForm(c)
	if isHTMX(c) && c.QueryParam("partial") == "posts" {
		return Render(c, a.Views.ListPosts(data))
	}
	return Render(c, a.Views.List(data))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	data, err := a.postData(ctx, c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	data.Newsletter = a.newsletterForm(c)
	return Render(c, a.Views.Post(data))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts := a.Catalog.AllPosts(c.Request().Context())
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeSitemap(c.Response(), posts)
}

// handleFeed serves the RSS feed, optionally narrowed to one category slug.
func (a *App) handleFeed(c echo.Context) error {
	ctx := c.Request().Context()
	category := strings.TrimSpace(c.QueryParam("category"))
	var posts []content.Post
	if category != "" {
		posts = a.Catalog.PostsByCategory(ctx, category)
	} else {
		posts = a.Catalog.AllPosts(ctx)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.writeRSS(c.Response(), posts, category)
}

func handleBlogRedirect(c echo.Context) error {
	target := "/blog/"
	if q := c.QueryString(); q != "" {
		target += "?" + q
	}
	return c.Redirect(http.StatusMovedPermanently, target)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, a.robotsTxt())
}

func (a *App) robotsTxt() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		logger.ErrorWithFields("server error", logger.Fields{
			"error":      err.Error(),
			"uri":        c.Request().RequestURI,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		})
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
