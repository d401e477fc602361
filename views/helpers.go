package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/pagrico/blog/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the canonical absolute URL of a post.
func PostURL(site SiteConfig, slug string) string {
	return buildURL(site.URL, "blog", slug)
}

// HomeMeta describes the home page, optionally filtered by category.
func (v *Views) HomeMeta(category string) PageMeta {
	m := PageMeta{
		Title:       v.Site.Name + " - Pagamentos Internacionais e Fintech",
		Description: v.Site.Description,
		URL:         buildURL(v.Site.URL),
		OGType:      "website",
		Image:       v.Site.FallbackImage,
		ImageAlt:    v.Site.Name,
		Keywords:    siteKeywords,
		JSONLD:      WebsiteJsonLD(v.Site),
	}
	if category != "" {
		m.Title = content.CategoryHeading(category) + " | " + v.Site.Name
	}
	return m
}

// ListMeta describes the listing page, optionally filtered by category.
func (v *Views) ListMeta(category string) PageMeta {
	m := PageMeta{
		Title:       v.Site.Name + " - Insights sobre Pagamentos Internacionais",
		Description: v.Site.Description,
		URL:         buildURL(v.Site.URL, "blog"),
		OGType:      "website",
		Image:       v.Site.FallbackImage,
		ImageAlt:    v.Site.Name,
		Keywords:    siteKeywords,
		JSONLD:      WebsiteJsonLD(v.Site),
	}
	if category != "" {
		m.Title = "Posts sobre " + content.CategoryHeading(category) + " | " + v.Site.Name
		m.URL += "?category=" + url.QueryEscape(category)
	}
	return m
}

// PostMeta derives the detail page metadata through the explicit fallback
// chains in package content.
func (v *Views) PostMeta(p content.Post) PageMeta {
	return PageMeta{
		Title:         content.MetaTitle(p) + " | " + v.Site.Name,
		Description:   content.MetaDescription(p),
		URL:           PostURL(v.Site, p.Slug),
		OGType:        "article",
		Image:         content.MetaImage(p, v.Images, v.Site.FallbackImage),
		ImageAlt:      content.MetaImageAlt(p),
		Keywords:      content.MetaKeywords(p),
		Author:        p.AuthorName(v.Site.Author),
		PublishedTime: FormatDateISO(p.PublishedAt),
		JSONLD:        v.BlogPostingJsonLD(p),
	}
}

var siteKeywords = []string{
	"pagamentos internacionais",
	"stablecoins",
	"PIX internacional",
	"fintech brasil",
	"pagamentos B2B",
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) template.JS {
	data := map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.Name,
		"url":        buildURL(cfg.URL),
		"inLanguage": "pt-BR",
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block mirroring
// the page metadata of p.
func (v *Views) BlogPostingJsonLD(p content.Post) template.JS {
	postURL := PostURL(v.Site, p.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    content.MetaTitle(p),
		"description": content.MetaDescription(p),
		"image":       content.MetaImage(p, v.Images, v.Site.FallbackImage),
		"url":         postURL,
		"inLanguage":  "pt-BR",
		"author": map[string]string{
			"@type": "Person",
			"name":  p.AuthorName(v.Site.Author),
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  v.Site.Author,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if iso := FormatDateISO(p.PublishedAt); iso != "" {
		data["datePublished"] = iso
		data["dateModified"] = iso
	}
	if kw := content.MetaKeywords(p); len(kw) > 0 {
		data["keywords"] = strings.Join(kw, ", ")
	}
	return marshalJsonLD(data)
}

// json.Marshal escapes <, > and &, so the result is safe inside a script tag.
func marshalJsonLD(data map[string]interface{}) template.JS {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
