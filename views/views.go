// Package views renders the blog pages. Markup lives in embedded html/template
// files; every page is exposed as a templ.Component so handlers can render
// it like any other component.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/imageurl"
	"github.com/pagrico/blog/portable"
)

//go:embed templates/*.html
var templateFS embed.FS

// Card and hero image sizes.
const (
	CardImageWidth    = 500
	CardImageHeight   = 300
	HeroImageWidth    = 1200
	HeroImageHeight   = 675
	AvatarSmall       = 48
	AvatarLarge       = 64
	maxExpertiseShown = 3
)

var pages = []string{"home", "list", "post", "notfound", "servererror"}

// Views renders pages for one site.
type Views struct {
	Site   SiteConfig
	Images imageurl.Builder
	Body   portable.Renderer

	pages map[string]*template.Template
}

// New parses the embedded templates. It panics on a malformed template since
// they are compiled into the binary.
func New(site SiteConfig, images imageurl.Builder) *Views {
	v := &Views{
		Site:   site,
		Images: images,
		Body:   portable.Renderer{Images: images},
		pages:  make(map[string]*template.Template, len(pages)),
	}
	base := template.Must(template.New("base").Funcs(template.FuncMap{
		"join":        strings.Join,
		"queryEscape": url.QueryEscape,
	}).ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))
	for _, name := range pages {
		t := template.Must(base.Clone())
		v.pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return v
}

type page struct {
	Site SiteConfig
	Meta PageMeta
	Data any
}

func (v *Views) component(name, entry string, meta PageMeta, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := v.pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, entry, page{Site: v.Site, Meta: meta, Data: data})
	})
}

// Home renders the full home page.
func (v *Views) Home(data HomeData) templ.Component {
	return v.component("home", "layout", v.HomeMeta(data.Category), data)
}

// HomePosts renders only the posts section of the home page.
func (v *Views) HomePosts(data HomeData) templ.Component {
	return v.component("home", "posts", PageMeta{}, data)
}

// List renders the full listing page.
func (v *Views) List(data ListData) templ.Component {
	return v.component("list", "layout", v.ListMeta(data.Category), data)
}

// ListPosts renders only the posts section of the listing page.
func (v *Views) ListPosts(data ListData) templ.Component {
	return v.component("list", "posts", PageMeta{}, data)
}

// Post renders a post detail page.
func (v *Views) Post(data PostData) templ.Component {
	return v.component("post", "layout", v.PostMeta(data.Post), data)
}

// NotFound renders the 404 page.
func (v *Views) NotFound() templ.Component {
	return v.component("notfound", "layout", PageMeta{
		Title:  "Página não encontrada | " + v.Site.Name,
		OGType: "website",
		URL:    buildURL(v.Site.URL),
		Image:  v.Site.FallbackImage,
	}, nil)
}

// ServerError renders the 500 page.
func (v *Views) ServerError() templ.Component {
	return v.component("servererror", "layout", PageMeta{
		Title:  "Erro | " + v.Site.Name,
		OGType: "website",
		URL:    buildURL(v.Site.URL),
		Image:  v.Site.FallbackImage,
	}, nil)
}

// Card builds the card for p. Posts without a main image get the fallback.
func (v *Views) Card(p content.Post) Card {
	alt := p.Title
	if p.MainImage != nil && p.MainImage.Alt != "" {
		alt = p.MainImage.Alt
	}
	if alt == "" {
		alt = "Imagem do Post"
	}
	return Card{
		Title:       p.Title,
		URL:         PostPath(p.Slug),
		Excerpt:     p.Excerpt,
		Date:        FormatDate(p.PublishedAt),
		DateISO:     FormatDateISO(p.PublishedAt),
		ImageURL:    v.Images.OrFallback(p.MainImage.Source(), CardImageWidth, CardImageHeight, v.Site.FallbackImage),
		ImageAlt:    alt,
		ReadingTime: ReadingTimeLabel(p.ReadingTime),
		Author:      p.AuthorName(""),
		Pills:       Pills(p.Categories),
	}
}

// Cards maps Card over posts.
func (v *Views) Cards(posts []content.Post) []Card {
	out := make([]Card, 0, len(posts))
	for _, p := range posts {
		out = append(out, v.Card(p))
	}
	return out
}

// Pills builds category pills linking to the filtered listing.
func Pills(cats []content.Category) []Pill {
	out := make([]Pill, 0, len(cats))
	for _, c := range cats {
		if c.Title == "" {
			continue
		}
		out = append(out, Pill{
			Title: c.Title,
			Icon:  c.Icon,
			Href:  ListPath(c.Slug),
			Style: PillStyle(c.Color),
		})
	}
	return out
}

// Filters builds the category filter bar for the page at basePath.
func Filters(basePath, active string) []FilterLink {
	out := []FilterLink{{Label: "Todos os Posts", Href: basePath, Active: active == ""}}
	for _, o := range content.CategoryOptions {
		out = append(out, FilterLink{
			Label:  o.Label,
			Href:   basePath + "?category=" + url.QueryEscape(o.Slug),
			Active: active == o.Slug,
		})
	}
	return out
}

// EmptyFor returns the copy for state, or nil when there is something to show.
func EmptyFor(state content.EmptyState, resetHref string) *Empty {
	switch state {
	case content.EmptyNoPosts:
		return &Empty{
			Title:   "Em breve, novos artigos",
			Message: "Estamos preparando conteúdo incrível sobre pagamentos internacionais para você!",
			Href:    resetHref,
			Link:    "Explorar PagRico",
		}
	case content.EmptyFilteredOut:
		return &Empty{
			Title:   "Nenhum post encontrado",
			Message: "Não há posts nesta categoria ainda.",
			Href:    resetHref,
			Link:    "Ver todos os posts",
		}
	default:
		return nil
	}
}

// NewPostData assembles the detail page for p, rendering its body.
func (v *Views) NewPostData(ctx context.Context, p content.Post) (PostData, error) {
	body, err := templ.ToGoHTML(ctx, v.Body.Component(p.Body))
	if err != nil {
		return PostData{}, fmt.Errorf("views: render body: %w", err)
	}
	d := PostData{
		Post:        p,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Date:        FormatDate(p.PublishedAt),
		DateISO:     FormatDateISO(p.PublishedAt),
		ReadingTime: ReadingTimeLabel(p.ReadingTime),
		Pills:       Pills(p.Categories),
		Body:        body,
		Tags:        p.Tags,
		Related:     v.Cards(p.RelatedPosts),
	}
	if src := p.MainImage.Source(); !src.Empty() {
		d.HeroURL = v.Images.URL(src, HeroImageWidth, HeroImageHeight)
		d.HeroAlt = content.MetaImageAlt(p)
		d.HeroCaption = p.MainImage.Caption
	}
	if a := p.Author; a != nil && a.Name != "" {
		box := &AuthorBox{
			Name:      a.Name,
			Role:      a.Role,
			Bio:       a.Bio,
			Expertise: a.Expertise,
			LinkedIn:  socialLink(a.SocialLinks, "linkedin"),
			Twitter:   socialLink(a.SocialLinks, "twitter"),
		}
		if len(box.Expertise) > maxExpertiseShown {
			box.Expertise = box.Expertise[:maxExpertiseShown]
		}
		if src := a.Image.Source(); !src.Empty() {
			box.ImageURL = v.Images.URL(src, AvatarLarge, AvatarLarge)
			box.ThumbURL = v.Images.URL(src, AvatarSmall, AvatarSmall)
			box.ImageAlt = content.FirstNonEmpty(a.Image.Alt, a.Name)
		}
		d.Author = box
	}
	return d, nil
}

func socialLink(links map[string]string, platform string) string {
	if u := strings.TrimSpace(links[platform]); portable.IsSafeURL(u) {
		return u
	}
	return ""
}

// PostPath is the site-relative URL of a post.
func PostPath(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// ListPath is the listing URL filtered by category slug.
func ListPath(categorySlug string) string {
	if categorySlug == "" {
		return "/blog/"
	}
	return "/blog/?category=" + url.QueryEscape(categorySlug)
}
