package blog

import (
	"encoding/xml"
	"io"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists the home page, the listing and every post.
func (a *App) writeSitemap(w io.Writer, posts []content.Post) error {
	site := a.Views.Site
	urls := []sitemapURL{
		{Loc: site.URL + "/"},
		{Loc: site.URL + views.ListPath("")},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: views.PostURL(site, p.Slug)}
		if !p.PublishedAt.IsZero() {
			u.LastMod = p.PublishedAt.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
