package widget

import (
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
)

// StylesID marks the injected style element.
const StylesID = "pagrico-blog-styles"

// ErrContainerNotFound is returned when no element has the requested id.
var ErrContainerNotFound = errors.New("widget: container not found")

// Document is a host page the widget renders into. All mutations are
// serialized, so several sections may render into one page concurrently.
type Document struct {
	mu     sync.Mutex
	doc    *goquery.Document
	styled atomic.Bool
}

// NewDocument parses a host page.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseDocument parses a host page from a string.
func ParseDocument(html string) (*Document, error) {
	return NewDocument(strings.NewReader(html))
}

func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byID(id).Length() > 0
}

// SetInnerHTML replaces the children of the element with id.
func (d *Document) SetInnerHTML(id, html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 {
		return ErrContainerNotFound
	}
	sel.SetHtml(html)
	return nil
}

// InnerHTML returns the children of the element with id.
func (d *Document) InnerHTML(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.byID(id)
	if sel.Length() == 0 {
		return "", ErrContainerNotFound
	}
	return sel.Html()
}

// EnsureStyles inserts css into the head once. It reports whether this call
// inserted it. The atomic flag settles concurrent first calls; the marker
// check covers pages that already carry the styles.
func (d *Document) EnsureStyles(css string) bool {
	if !d.styled.CompareAndSwap(false, true) {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byID(StylesID).Length() > 0 {
		return false
	}
	target := d.doc.Find("head")
	if target.Length() == 0 {
		target = d.doc.Find("body")
	}
	target.First().AppendHtml(`<style id="` + StylesID + `">` + css + `</style>`)
	return true
}

// Count returns how many elements match selector.
func (d *Document) Count(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).Length()
}

// HTML serializes the whole page.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.OuterHtml(d.doc.Selection)
}
