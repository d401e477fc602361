package blog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/pagrico/blog/internal/logger"
)

// exportWorkers bounds concurrent post fetches during an export.
const exportWorkers = 4

// ExportResult summarizes a static export.
type ExportResult struct {
	Pages   int
	Skipped []string // slugs listed by the CMS whose post could not be loaded
}

// Export writes a static copy of the site to dir: home, listing, one page per
// post slug, sitemap, feed, robots.txt, the fallback image and the widget
// loader. Static pages carry no newsletter form.
func (a *App) Export(ctx context.Context, dir string) (ExportResult, error) {
	var res ExportResult

	write := func(rel string, data []byte) error {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
	render := func(rel string, cmp templ.Component) error {
		var buf bytes.Buffer
		if err := cmp.Render(ctx, &buf); err != nil {
			return fmt.Errorf("render %s: %w", rel, err)
		}
		return write(rel, buf.Bytes())
	}

	if err := render("index.html", a.Views.Home(a.homeData(ctx, ""))); err != nil {
		return res, err
	}
	if err := render("blog/index.html", a.Views.List(a.listData(ctx, ""))); err != nil {
		return res, err
	}
	if err := render("404.html", a.Views.NotFound()); err != nil {
		return res, err
	}
	res.Pages = 3

	slugs := a.Catalog.PostSlugs(ctx)
	pages := make([][]byte, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	for i, slug := range slugs {
		if strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
			continue
		}
		g.Go(func() error {
			data, err := a.postData(gctx, slug)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("post %s: %w", slug, err)
			}
			var buf bytes.Buffer
			if err := a.Views.Post(data).Render(gctx, &buf); err != nil {
				return fmt.Errorf("render post %s: %w", slug, err)
			}
			pages[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	for i, slug := range slugs {
		if pages[i] == nil {
			res.Skipped = append(res.Skipped, slug)
			logger.WarnWithFields("export skipped post", logger.Fields{"slug": slug})
			continue
		}
		if err := write("blog/"+slug+"/index.html", pages[i]); err != nil {
			return res, err
		}
		res.Pages++
	}

	posts := a.Catalog.AllPosts(ctx)
	var sitemap, feed bytes.Buffer
	if err := a.writeSitemap(&sitemap, posts); err != nil {
		return res, err
	}
	if err := a.writeRSS(&feed, posts, ""); err != nil {
		return res, err
	}
	img, err := a.fallbackImage()
	if err != nil {
		return res, err
	}
	loader, err := fs.ReadFile(EmbeddedAssets, "embedded/widget.js")
	if err != nil {
		return res, err
	}
	for rel, data := range map[string][]byte{
		"sitemap.xml":         sitemap.Bytes(),
		"feed.xml":            feed.Bytes(),
		"robots.txt":          []byte(a.robotsTxt()),
		"og-blog-default.jpg": img,
		"widget.js":           loader,
	} {
		if err := write(rel, data); err != nil {
			return res, err
		}
	}

	logger.InfoWithFields("export finished", logger.Fields{
		"dir":     dir,
		"pages":   res.Pages,
		"skipped": len(res.Skipped),
	})
	return res, nil
}
