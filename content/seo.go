package content

import (
	"strings"

	"github.com/pagrico/blog/imageurl"
)

// Social preview image dimensions.
const (
	OGImageWidth  = 1200
	OGImageHeight = 630
)

// FirstNonEmpty returns the first candidate that is not blank.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

// MetaTitle is seoTitle, then title.
func MetaTitle(p Post) string {
	return FirstNonEmpty(p.SEOTitle, p.Title)
}

// MetaDescription is metaDescription, then excerpt.
func MetaDescription(p Post) string {
	return FirstNonEmpty(p.MetaDescription, p.Excerpt)
}

// MetaImage is the main image at 1200x630, then fallback.
func MetaImage(p Post, images imageurl.Builder, fallback string) string {
	return images.OrFallback(p.MainImage.Source(), OGImageWidth, OGImageHeight, fallback)
}

// MetaImageAlt is the main image alt text, then the title.
func MetaImageAlt(p Post) string {
	if p.MainImage != nil {
		return FirstNonEmpty(p.MainImage.Alt, p.Title)
	}
	return p.Title
}

// MetaKeywords is the focus keyword followed by the remaining keywords,
// without blanks or repeats.
func MetaKeywords(p Post) []string {
	var out []string
	seen := map[string]bool{}
	for _, k := range append([]string{p.FocusKeyword}, p.Keywords...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}
