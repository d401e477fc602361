package content

import (
	"time"

	"github.com/pagrico/blog/imageurl"
	"github.com/pagrico/blog/portable"
)

// Status is the editorial state of a post. Only StatusPublished is queried.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Image is an image field: an asset pointer plus presentation text.
type Image struct {
	Asset   *imageurl.Asset `json:"asset,omitempty"`
	Alt     string          `json:"alt,omitempty"`
	Caption string          `json:"caption,omitempty"`
}

// Source returns the resolvable part of the image. It is safe on nil.
func (i *Image) Source() imageurl.Source {
	if i == nil {
		return imageurl.Source{}
	}
	return i.Asset.Source()
}

// Category is a post category. Color doubles as a presentation hint.
type Category struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Author is the resolved author reference of a post.
type Author struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name"`
	Role        string            `json:"role,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	Expertise   []string          `json:"expertise,omitempty"`
	Image       *Image            `json:"image,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
	Active      bool              `json:"active,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
}

// Post is a blog post. List queries leave Body and RelatedPosts empty.
type Post struct {
	ID              string           `json:"_id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Excerpt         string           `json:"excerpt,omitempty"`
	Body            []portable.Block `json:"body,omitempty"`
	PublishedAt     time.Time        `json:"publishedAt"`
	ReadingTime     *int             `json:"readingTime,omitempty"`
	Featured        bool             `json:"featured,omitempty"`
	Status          Status           `json:"status,omitempty"`
	SEOTitle        string           `json:"seoTitle,omitempty"`
	MetaDescription string           `json:"metaDescription,omitempty"`
	FocusKeyword    string           `json:"focusKeyword,omitempty"`
	Keywords        []string         `json:"keywords,omitempty"`
	MainImage       *Image           `json:"mainImage,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Author          *Author          `json:"author,omitempty"`
	Categories      []Category       `json:"categories,omitempty"`
	RelatedPosts    []Post           `json:"relatedPosts,omitempty"`
}

// AuthorName returns the author's name or fallback when there is none.
func (p Post) AuthorName(fallback string) string {
	if p.Author == nil || p.Author.Name == "" {
		return fallback
	}
	return p.Author.Name
}

// HasCategory reports whether any category of p satisfies match.
func (p Post) HasCategory(match func(Category) bool) bool {
	for _, c := range p.Categories {
		if match(c) {
			return true
		}
	}
	return false
}
