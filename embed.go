package blog

import (
	"embed"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/internal/logger"
	"github.com/pagrico/blog/widget"
)

// EmbeddedAssets holds static files served by the app itself:
// widget.js, the loader third-party pages include.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const (
	embedContainer = "pagrico-embed"
	embedShell     = `<html><head></head><body><div id="` + embedContainer + `"></div></body></html>`
	maxEmbedLimit  = 20
)

type embedResponse struct {
	State  string `json:"state"`
	HTML   string `json:"html"`
	Styles string `json:"styles"`
}

// embedPost is a post as widget.js getters see it, with its card markup in
// both variants so renderCard works without another request.
type embedPost struct {
	content.Post
	Card         string `json:"card"`
	FeaturedCard string `json:"featuredCard"`
}

type embedPostsResponse struct {
	Posts []embedPost `json:"posts"`
}

// embedOptions reads widget options from the query string. Unknown or
// malformed values fall back to the widget defaults.
func embedOptions(c echo.Context) widget.Options {
	truthy := func(name string) bool {
		v, _ := strconv.ParseBool(c.QueryParam(name))
		return v
	}
	opts := widget.Options{
		Featured:   truthy("featured"),
		Category:   strings.TrimSpace(c.QueryParam("category")),
		HideHeader: truthy("hideHeader"),
		HideCTA:    truthy("hideCTA"),
		Title:      c.QueryParam("title"),
		Subtitle:   c.QueryParam("subtitle"),
		Layout:     widget.Layout(c.QueryParam("layout")),
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		opts.Limit = min(n, maxEmbedLimit)
	}
	return opts
}

// handleEmbedSection renders one widget section server-side for widget.js.
// Failures still answer 200 with the error block so the loader can show it.
func (a *App) handleEmbedSection(c echo.Context) error {
	doc, err := widget.ParseDocument(embedShell)
	if err != nil {
		return err
	}
	state := a.Widget.RenderSection(c.Request().Context(), doc, embedContainer, embedOptions(c))
	html, err := doc.InnerHTML(embedContainer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, embedResponse{
		State:  state.String(),
		HTML:   html,
		Styles: widget.Styles,
	})
}

// handleEmbedPosts backs the widget.js getters. A limit of zero or less
// lifts the limit.
func (a *App) handleEmbedPosts(c echo.Context) error {
	opts := embedOptions(c)
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n <= 0 {
		opts.Limit = -1
	}
	posts, err := a.Widget.Posts(c.Request().Context(), opts)
	if err != nil {
		logger.WarnWithFields("embed posts failed", logger.Fields{
			"category": opts.Category,
			"error":    err.Error(),
		})
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "posts unavailable"})
	}
	out := make([]embedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, embedPost{
			Post:         p,
			Card:         a.Widget.RenderCard(p, widget.VariantDefault),
			FeaturedCard: a.Widget.RenderCard(p, widget.VariantFeatured),
		})
	}
	return c.JSON(http.StatusOK, embedPostsResponse{Posts: out})
}
