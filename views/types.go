package views

import (
	"html/template"

	"github.com/pagrico/blog/content"
)

// SiteConfig holds site-wide settings populated from environment variables.
// Every page receives it so nothing is hardcoded in templates.
type SiteConfig struct {
	Name          string // SITE_NAME
	URL           string // SITE_URL, canonical base
	Description   string // SITE_DESCRIPTION
	Author        string // SITE_AUTHOR, also the JSON-LD publisher
	FallbackImage string // absolute URL used when a post has no main image
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title         string
	Description   string
	URL           string // canonical + og:url
	OGType        string // "website" or "article"
	Image         string
	ImageAlt      string
	Keywords      []string
	Author        string
	PublishedTime string
	JSONLD        template.JS
}

// Pill is a category link styled from the category color.
type Pill struct {
	Title string
	Icon  string
	Href  string
	Style template.CSS
}

// Card is the list representation of a post.
type Card struct {
	Title       string
	URL         string
	Excerpt     string
	Date        string
	DateISO     string
	ImageURL    string
	ImageAlt    string
	ReadingTime string
	Author      string
	Pills       []Pill
}

// FilterLink is one entry of the category filter bar.
type FilterLink struct {
	Label  string
	Href   string
	Active bool
}

// Newsletter is the state of the subscription form.
type Newsletter struct {
	CSRFToken string
	Status    string // "", "ok", "invalid", "exists", "limited"
	Action    string
}

// Empty carries the copy of an empty state.
type Empty struct {
	Title   string
	Message string
	Href    string
	Link    string
}

// HomeData is everything the home page needs.
type HomeData struct {
	Category   string
	Featured   []Card
	Posts      []Card
	Filters    []FilterLink
	Empty      *Empty
	Newsletter Newsletter
}

// ListData is everything the listing page needs.
type ListData struct {
	Category     string
	Heading      string
	CountLabel   string
	ShowFeatured bool
	Featured     []Card
	Posts        []Card
	Filters      []FilterLink
	Empty        *Empty
	Newsletter   Newsletter
}

// AuthorBox is the author section of a post.
type AuthorBox struct {
	Name      string
	Role      string
	Bio       string
	ImageURL  string
	ThumbURL  string
	ImageAlt  string
	Expertise []string
	LinkedIn  string
	Twitter   string
}

// PostData is everything the detail page needs.
type PostData struct {
	Post        content.Post
	Title       string
	Excerpt     string
	Date        string
	DateISO     string
	ReadingTime string
	Pills       []Pill
	HeroURL     string
	HeroAlt     string
	HeroCaption string
	Body        template.HTML
	Tags        []string
	Author      *AuthorBox
	Related     []Card
	Newsletter  Newsletter
}
