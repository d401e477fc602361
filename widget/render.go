package widget

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"net/url"
	"time"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/imageurl"
	"github.com/pagrico/blog/internal/logger"
	"github.com/pagrico/blog/views"
)

// Card image size.
const (
	CardImageWidth  = 400
	CardImageHeight = 250
)

//go:embed widget.html
var widgetHTML string

//go:embed styles.css
var Styles string

var tmpl = template.Must(template.New("widget").Parse(widgetHTML))

const defaultBadgeColor = "#00ffaa"

type cardData struct {
	Class       string
	Title       string
	URL         string
	Excerpt     string
	Date        string
	ReadingTime string
	Author      string
	ImageURL    string
	ImageAlt    string
	Category    *badge
}

type badge struct {
	Title string
	Icon  string
	Style template.CSS
}

type sectionData struct {
	Title      string
	Subtitle   string
	ShowHeader bool
	ShowCTA    bool
	ListClass  string
	Cards      []template.HTML
	SiteURL    string
}

// FormatDate renders a publish date in pt-BR long form.
func FormatDate(t time.Time) string {
	return views.FormatDate(t)
}

// OptimizeImage sizes an expanded asset URL through the shared image
// resolver, so it matches what the pages produce for the same asset.
// An empty URL yields "".
func (w *Widget) OptimizeImage(assetURL string, width, height int) string {
	if assetURL == "" {
		return ""
	}
	return w.images.URL(imageurl.Source{URL: assetURL}, width, height)
}

// PostURL is the link a card points to.
func (w *Widget) PostURL(slug string) string {
	return w.cfg.SiteURL + "/blog/" + url.PathEscape(slug) + "/"
}

// RenderCard returns the markup of one post card. Text is escaped.
func (w *Widget) RenderCard(p content.Post, variant Variant) string {
	d := cardData{
		Class:       "pagrico-post-card",
		Title:       p.Title,
		URL:         w.PostURL(p.Slug),
		Excerpt:     p.Excerpt,
		Date:        FormatDate(p.PublishedAt),
		ReadingTime: views.ReadingTimeLabel(p.ReadingTime),
		Author:      p.AuthorName(""),
	}
	if variant == VariantFeatured {
		d.Class += " featured"
	}
	d.ImageURL = w.images.OrFallback(p.MainImage.Source(), CardImageWidth, CardImageHeight, w.cfg.FallbackImage)
	d.ImageAlt = content.MetaImageAlt(p)
	if len(p.Categories) > 0 {
		c := p.Categories[0]
		color := views.SafeColor(c.Color, defaultBadgeColor)
		icon := c.Icon
		if icon == "" {
			icon = "📄"
		}
		d.Category = &badge{Title: c.Title, Icon: icon, Style: template.CSS("background-color: " + color)}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "card", d); err != nil {
		logger.WarnWithFields("widget card render failed", logger.Fields{"slug": p.Slug, "error": err.Error()})
		return ""
	}
	return buf.String()
}

func (w *Widget) renderState(name string) string {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, sectionData{SiteURL: w.cfg.SiteURL}); err != nil {
		return ""
	}
	return buf.String()
}

func (w *Widget) renderSectionHTML(posts []content.Post, opts Options) (string, error) {
	d := sectionData{
		Title:      opts.Title,
		Subtitle:   opts.Subtitle,
		ShowHeader: !opts.HideHeader,
		ShowCTA:    !opts.HideCTA,
		ListClass:  "pagrico-posts-grid",
		SiteURL:    w.cfg.SiteURL,
	}
	if opts.Layout == LayoutList {
		d.ListClass = "pagrico-posts-list"
	}
	for _, p := range posts {
		d.Cards = append(d.Cards, template.HTML(w.RenderCard(p, opts.variant())))
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "section", d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderSection fills the container with id in doc: a loading placeholder
// first, then the posts, an empty block or an error block with a direct
// link to the blog. It never panics and never leaves the placeholder behind;
// the returned State is the final one.
func (w *Widget) RenderSection(ctx context.Context, doc *Document, containerID string, opts Options) (state State) {
	opts = opts.withDefaults(DefaultSectionLimit)
	set := func(s State) {
		state = s
		if opts.OnState != nil {
			opts.OnState(s)
		}
	}
	fail := func(reason string, fields logger.Fields) {
		fields["container"] = containerID
		logger.WarnWithFields(reason, fields)
		_ = doc.SetInnerHTML(containerID, w.renderState("error"))
		set(StateError)
	}
	defer func() {
		if r := recover(); r != nil {
			fail("widget render panicked", logger.Fields{"panic": r})
		}
	}()

	set(StateIdle)
	if !doc.Has(containerID) {
		logger.WarnWithFields("widget container not found", logger.Fields{"container": containerID})
		set(StateError)
		return state
	}
	doc.EnsureStyles(Styles)
	if err := doc.SetInnerHTML(containerID, w.renderState("loading")); err != nil {
		fail("widget placeholder failed", logger.Fields{"error": err.Error()})
		return state
	}
	set(StateLoading)

	posts, err := w.Posts(ctx, opts)
	if err != nil {
		fail("widget fetch failed", logger.Fields{"error": err.Error()})
		return state
	}
	html, err := w.renderSectionHTML(posts, opts)
	if err != nil {
		fail("widget section render failed", logger.Fields{"error": err.Error()})
		return state
	}
	if err := doc.SetInnerHTML(containerID, html); err != nil {
		fail("widget section render failed", logger.Fields{"error": err.Error()})
		return state
	}
	if len(posts) == 0 {
		set(StateEmpty)
		return state
	}
	set(StateSuccess)
	return state
}
