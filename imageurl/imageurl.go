// Package imageurl turns opaque Sanity image references into sized CDN URLs.
//
// It never fetches anything: the CMS image pipeline does the transformation,
// this package only builds the request. Every function is pure so the page
// renderer and the embeddable widget produce identical URLs for the same
// asset and dimensions.
package imageurl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultCDN is the host serving transformed Sanity images.
const DefaultCDN = "https://cdn.sanity.io"

// Default transformation parameters shared by every call site.
const (
	DefaultFit     = "crop"
	DefaultAuto    = "format"
	DefaultQuality = 80
)

// Source identifies an image asset either by its raw reference
// ("image-<id>-<W>x<H>-<fmt>") or by an already expanded asset URL.
type Source struct {
	Ref string
	URL string
}

// Empty reports whether the source carries nothing that can be resolved.
func (s Source) Empty() bool {
	return strings.TrimSpace(s.Ref) == "" && strings.TrimSpace(s.URL) == ""
}

// Builder resolves sources for one project/dataset pair.
type Builder struct {
	ProjectID string
	Dataset   string
	CDN       string // default DefaultCDN
}

// New returns a Builder for the given project and dataset.
func New(projectID, dataset string) Builder {
	return Builder{ProjectID: projectID, Dataset: dataset, CDN: DefaultCDN}
}

// URL returns the CDN URL for src at width x height. A zero dimension is left
// out of the query. It returns "" when src is empty or unparseable; callers
// are expected to check presence first and substitute their fallback.
func (b Builder) URL(src Source, width, height int) string {
	base := b.baseURL(src)
	if base == "" {
		return ""
	}
	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	q.Set("fit", DefaultFit)
	q.Set("auto", DefaultAuto)
	q.Set("q", strconv.Itoa(DefaultQuality))
	return base + "?" + q.Encode()
}

// OrFallback resolves src, or returns fallback when src is empty.
func (b Builder) OrFallback(src Source, width, height int, fallback string) string {
	if src.Empty() {
		return fallback
	}
	if u := b.URL(src, width, height); u != "" {
		return u
	}
	return fallback
}

// baseURL yields the untransformed asset URL. Expanded URLs win over refs;
// any query already present on an expanded URL is dropped so that both forms
// of the same asset resolve identically.
func (b Builder) baseURL(src Source) string {
	if raw := strings.TrimSpace(src.URL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ""
		}
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	ref := strings.TrimSpace(src.Ref)
	if ref == "" {
		return ""
	}
	id, dims, format, err := ParseRef(ref)
	if err != nil {
		return ""
	}
	cdn := b.CDN
	if cdn == "" {
		cdn = DefaultCDN
	}
	return fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", strings.TrimRight(cdn, "/"), b.ProjectID, b.Dataset, id, dims, format)
}

// ParseRef splits an asset reference such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg" into its id, dimensions and
// file format.
func ParseRef(ref string) (id, dims, format string, err error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 4 || parts[0] != "image" {
		return "", "", "", fmt.Errorf("imageurl: malformed asset reference %q", ref)
	}
	format = parts[len(parts)-1]
	dims = parts[len(parts)-2]
	id = strings.Join(parts[1:len(parts)-2], "-")
	w, h, ok := strings.Cut(dims, "x")
	if !ok || !isDigits(w) || !isDigits(h) || id == "" || format == "" {
		return "", "", "", fmt.Errorf("imageurl: malformed asset reference %q", ref)
	}
	return id, dims, format, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Asset is the JSON shape of an image asset inside a Sanity document: either
// an unexpanded reference ("_ref") or an expanded asset ("_id", "url").
type Asset struct {
	Ref string `json:"_ref,omitempty"`
	ID  string `json:"_id,omitempty"`
	URL string `json:"url,omitempty"`
}

// Source converts the asset into a resolvable Source. A nil asset yields an
// empty Source.
func (a *Asset) Source() Source {
	if a == nil {
		return Source{}
	}
	ref := a.Ref
	if ref == "" && strings.HasPrefix(a.ID, "image-") {
		ref = a.ID
	}
	return Source{Ref: ref, URL: a.URL}
}
