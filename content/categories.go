package content

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pagrico/blog/portable"
)

// CategoryOption is one entry of the category filter bar.
type CategoryOption struct {
	Slug  string
	Label string
}

// CategoryOptions is the fixed filter enumeration. It is not read from the
// CMS: a category renamed or added there only shows up here once this list
// is edited too.
var CategoryOptions = []CategoryOption{
	{Slug: "pagamentos-internacionais", Label: "🌐 Pagamentos Internacionais"},
	{Slug: "stablecoins", Label: "🪙 Stablecoins"},
	{Slug: "pix-internacional", Label: "⚡ PIX Internacional"},
	{Slug: "cripto-para-empresas", Label: "🏢 Cripto B2B"},
	{Slug: "drex-e-real-digital", Label: "🏦 Drex & Real Digital"},
}

// LookupCategoryOption returns the filter entry for slug.
func LookupCategoryOption(slug string) (CategoryOption, bool) {
	for _, o := range CategoryOptions {
		if o.Slug == slug {
			return o, true
		}
	}
	return CategoryOption{}, false
}

// CategoryHeading turns a filter value into a display name: "stablecoins"
// becomes "Stablecoins", "pix-internacional" becomes "Pix Internacional".
func CategoryHeading(filter string) string {
	words := strings.Fields(strings.ReplaceAll(filter, "-", " "))
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(words, " "))
}

// Matcher decides whether a category satisfies a filter value.
type Matcher func(c Category, filter string) bool

// MatchSlug is the exact slug rule used by the listing page.
func MatchSlug(c Category, filter string) bool {
	return c.Slug != "" && c.Slug == filter
}

// MatchTitle is the case-insensitive title substring rule used by the home
// page. Filter links carry slugs, so the filter is also tried in slug form
// against the slugified title and the category slug.
func MatchTitle(c Category, filter string) bool {
	if strings.Contains(strings.ToLower(c.Title), strings.ToLower(filter)) {
		return true
	}
	slug := portable.Slugify(filter)
	if slug == "" {
		return false
	}
	return c.Slug == slug || strings.Contains(portable.Slugify(c.Title), slug)
}

// FilterByCategory keeps posts with at least one category matching filter.
// An empty filter keeps everything.
func FilterByCategory(posts []Post, filter string, match Matcher) []Post {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.HasCategory(func(c Category) bool { return match(c, filter) }) {
			out = append(out, p)
		}
	}
	return out
}

// ExcludePosts returns posts minus any whose ID appears in exclude.
func ExcludePosts(posts, exclude []Post) []Post {
	if len(exclude) == 0 {
		return posts
	}
	ids := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		ids[p.ID] = true
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !ids[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// EmptyState tells the page which empty message to show.
type EmptyState int

const (
	NotEmpty EmptyState = iota
	EmptyNoPosts
	EmptyFilteredOut
)

// Empty classifies a filtered result: nothing fetched at all is distinct
// from a filter that excluded every post.
func Empty(fetched, shown int, filter string) EmptyState {
	switch {
	case shown > 0:
		return NotEmpty
	case fetched == 0 || strings.TrimSpace(filter) == "":
		return EmptyNoPosts
	default:
		return EmptyFilteredOut
	}
}
