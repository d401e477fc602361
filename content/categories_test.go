package content

import (
	"testing"
)

func catPost(id string, cats ...Category) Post {
	return Post{ID: id, Slug: id, Categories: cats}
}

var (
	stablecoins = Category{Title: "Stablecoins", Slug: "stablecoins"}
	stableB2B   = Category{Title: "Stablecoins para Empresas", Slug: "stablecoins-b2b"}
	pix         = Category{Title: "PIX Internacional", Slug: "pix-internacional"}
)

func TestFilterByCategorySlugIsExact(t *testing.T) {
	posts := []Post{
		catPost("1", stablecoins),
		catPost("2", stableB2B),
		catPost("3", pix, stablecoins),
		catPost("4"),
	}
	got := FilterByCategory(posts, "stablecoins", MatchSlug)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("FilterByCategory(slug) = %v, want posts 1 and 3", ids(got))
	}
	for _, p := range got {
		if !p.HasCategory(func(c Category) bool { return c.Slug == "stablecoins" }) {
			t.Errorf("post %s has no stablecoins category", p.ID)
		}
	}
	if got := FilterByCategory(posts, "Stablecoins", MatchSlug); len(got) != 0 {
		t.Errorf("slug matching must be case sensitive, got %v", ids(got))
	}
}

func TestFilterByCategoryTitleIsSubstring(t *testing.T) {
	posts := []Post{
		catPost("1", stablecoins),
		catPost("2", stableB2B),
		catPost("3", pix),
	}
	tests := []struct {
		filter string
		want   []string
	}{
		{"stablecoins", []string{"1", "2"}},
		{"STABLE", []string{"1", "2"}},
		{"internacional", []string{"3"}},
		{"pix-internacional", []string{"3"}},
		{"stablecoins-para", []string{"2"}},
		{"cambio", []string{}},
		{"", []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		got := ids(FilterByCategory(posts, tt.filter, MatchTitle))
		if len(got) != len(tt.want) {
			t.Errorf("FilterByCategory(%q, title) = %v, want %v", tt.filter, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FilterByCategory(%q, title) = %v, want %v", tt.filter, got, tt.want)
			}
		}
	}
}

func TestExcludePosts(t *testing.T) {
	all := []Post{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := ids(ExcludePosts(all, []Post{{ID: "b"}}))
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("ExcludePosts = %v, want [a c]", got)
	}
	if got := ExcludePosts(all, nil); len(got) != 3 {
		t.Errorf("ExcludePosts(nil) = %v, want all", ids(got))
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		fetched, shown int
		filter         string
		want           EmptyState
	}{
		{3, 3, "", NotEmpty},
		{0, 0, "", EmptyNoPosts},
		{0, 0, "stablecoins", EmptyNoPosts},
		{4, 0, "stablecoins", EmptyFilteredOut},
		{4, 0, "", EmptyNoPosts},
	}
	for _, tt := range tests {
		if got := Empty(tt.fetched, tt.shown, tt.filter); got != tt.want {
			t.Errorf("Empty(%d, %d, %q) = %v, want %v", tt.fetched, tt.shown, tt.filter, got, tt.want)
		}
	}
}

func TestCategoryOptionsAreFixed(t *testing.T) {
	want := []string{
		"pagamentos-internacionais",
		"stablecoins",
		"pix-internacional",
		"cripto-para-empresas",
		"drex-e-real-digital",
	}
	if len(CategoryOptions) != len(want) {
		t.Fatalf("len(CategoryOptions) = %d, want %d", len(CategoryOptions), len(want))
	}
	for i, slug := range want {
		if CategoryOptions[i].Slug != slug {
			t.Errorf("CategoryOptions[%d].Slug = %q, want %q", i, CategoryOptions[i].Slug, slug)
		}
	}
	if _, ok := LookupCategoryOption("nova-categoria"); ok {
		t.Error("a CMS-only category must not appear in the filter enumeration")
	}
}

func TestCategoryHeading(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"stablecoins", "Stablecoins"},
		{"pix-internacional", "Pix Internacional"},
		{"drex-e-real-digital", "Drex E Real Digital"},
	}
	for _, tt := range tests {
		if got := CategoryHeading(tt.input); got != tt.want {
			t.Errorf("CategoryHeading(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
