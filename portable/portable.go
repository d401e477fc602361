// Package portable renders Sanity Portable Text documents as HTML templ
// components.
package portable

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/pagrico/blog/imageurl"
)

// Block is one node of a Portable Text document. Which fields are set depends
// on Type: "block" uses Style/ListItem/Children/MarkDefs, "image" uses
// Asset/Alt/Caption, "code" uses Code/Language and "callout" uses
// Tone/Title/Content.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	Asset   *imageurl.Asset `json:"asset,omitempty"`
	Alt     string          `json:"alt,omitempty"`
	Caption string          `json:"caption,omitempty"`

	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`

	Tone    string `json:"type,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Span is an inline run of text with decorator or annotation marks.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef defines an annotation referenced from Span.Marks by key.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// Body image dimensions.
const (
	ImageWidth  = 800
	ImageHeight = 450
)

// Renderer turns blocks into HTML. Images resolves embedded image assets.
type Renderer struct {
	Images imageurl.Builder
}

// Component returns a templ.Component that renders blocks.
func (r Renderer) Component(blocks []Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		r.Render(&buf, blocks)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML for blocks to buf. Unknown block types are skipped.
func (r Renderer) Render(buf *bytes.Buffer, blocks []Block) {
	listTag := ""
	closeList := func() {
		if listTag != "" {
			buf.WriteString("</" + listTag + ">")
			listTag = ""
		}
	}

	for _, b := range blocks {
		if b.Type == "block" && b.ListItem != "" {
			tag := "ul"
			class := "list-disc list-inside space-y-2 mb-6 pl-4"
			if b.ListItem == "number" {
				tag = "ol"
				class = "list-decimal list-inside space-y-2 mb-6 pl-4"
			}
			if tag != listTag {
				closeList()
				buf.WriteString(`<` + tag + ` class="` + class + `">`)
				listTag = tag
			}
			buf.WriteString(`<li class="text-gray-700 leading-relaxed">`)
			writeSpans(buf, b.Children, b.MarkDefs)
			buf.WriteString("</li>")
			continue
		}
		closeList()

		switch b.Type {
		case "block":
			writeTextBlock(buf, b)
		case "blockquote":
			writeQuote(buf, b)
		case "image":
			r.writeImage(buf, b)
		case "code":
			writeCode(buf, b)
		case "callout":
			writeCallout(buf, b)
		}
	}
	closeList()
}

func writeTextBlock(buf *bytes.Buffer, b Block) {
	switch b.Style {
	case "h1", "h2", "h3", "h4":
		id := Slugify(PlainText([]Block{b}))
		buf.WriteString(`<` + b.Style + ` class="` + headingClass[b.Style] + `"`)
		if id != "" {
			buf.WriteString(` id="` + id + `"`)
		}
		buf.WriteString(">")
		writeSpans(buf, b.Children, b.MarkDefs)
		buf.WriteString("</" + b.Style + ">")
	case "blockquote":
		writeQuote(buf, b)
	default:
		buf.WriteString(`<p class="text-gray-700 leading-relaxed mb-6">`)
		writeSpans(buf, b.Children, b.MarkDefs)
		buf.WriteString("</p>")
	}
}

var headingClass = map[string]string{
	"h1": "text-3xl font-bold text-gray-900 mt-12 mb-6 scroll-mt-24",
	"h2": "text-2xl font-bold text-gray-900 mt-10 mb-5 scroll-mt-24",
	"h3": "text-xl font-bold text-gray-900 mt-8 mb-4 scroll-mt-24",
	"h4": "text-lg font-semibold text-gray-900 mt-6 mb-3 scroll-mt-24",
}

func writeQuote(buf *bytes.Buffer, b Block) {
	buf.WriteString(`<blockquote class="border-l-4 border-blue-600 pl-6 py-4 my-8 bg-blue-50 rounded-r-lg"><div class="text-lg italic text-gray-700">`)
	writeSpans(buf, b.Children, b.MarkDefs)
	buf.WriteString("</div></blockquote>")
}

func (r Renderer) writeImage(buf *bytes.Buffer, b Block) {
	src := b.Asset.Source()
	if src.Empty() {
		return
	}
	u := r.Images.URL(src, ImageWidth, ImageHeight)
	if u == "" {
		return
	}
	alt := b.Alt
	if alt == "" {
		alt = "Imagem do post"
	}
	buf.WriteString(`<figure class="my-8"><div class="relative aspect-video rounded-lg overflow-hidden bg-gray-100">`)
	buf.WriteString(`<img class="object-cover w-full h-full" loading="lazy" decoding="async" width="800" height="450" src="` + html.EscapeString(u) + `" alt="` + html.EscapeString(alt) + `"/>`)
	buf.WriteString("</div>")
	if b.Caption != "" {
		buf.WriteString(`<figcaption class="mt-3 text-sm text-gray-500 text-center italic">` + html.EscapeString(b.Caption) + "</figcaption>")
	}
	buf.WriteString("</figure>")
}

func writeCode(buf *bytes.Buffer, b Block) {
	lang := strings.TrimSpace(b.Language)
	if lang == "" {
		lang = "text"
	}
	buf.WriteString(`<pre class="bg-gray-900 text-gray-100 rounded-lg p-4 overflow-x-auto my-6"><code class="language-` + html.EscapeString(lang) + `">`)
	buf.WriteString(html.EscapeString(b.Code))
	buf.WriteString("</code></pre>")
}

var calloutIcons = map[string]string{
	"info":    "💡",
	"warning": "⚠️",
	"success": "✅",
	"error":   "❌",
}

var calloutStyles = map[string]string{
	"info":    "bg-blue-50 border-blue-200 text-blue-900",
	"warning": "bg-yellow-50 border-yellow-200 text-yellow-900",
	"success": "bg-green-50 border-green-200 text-green-900",
	"error":   "bg-red-50 border-red-200 text-red-900",
}

func writeCallout(buf *bytes.Buffer, b Block) {
	tone := b.Tone
	if _, ok := calloutStyles[tone]; !ok {
		tone = "info"
	}
	buf.WriteString(`<div class="callout callout-` + tone + ` border-l-4 p-4 rounded-r-lg my-6 ` + calloutStyles[tone] + `">`)
	buf.WriteString(`<div class="flex items-start gap-3"><span class="text-xl flex-shrink-0 mt-0.5">` + calloutIcons[tone] + `</span><div>`)
	if b.Title != "" {
		buf.WriteString(`<h4 class="font-semibold mb-2">` + html.EscapeString(b.Title) + "</h4>")
	}
	buf.WriteString("<div>" + html.EscapeString(b.Content) + "</div>")
	buf.WriteString("</div></div></div>")
}

// writeSpans renders spans, wrapping each in its marks. Marks that name a
// MarkDef key become annotations; the rest are decorators.
func writeSpans(buf *bytes.Buffer, spans []Span, defs []MarkDef) {
	byKey := make(map[string]MarkDef, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}
	for _, s := range spans {
		text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br/>")
		for _, m := range s.Marks {
			if def, ok := byKey[m]; ok {
				text = wrapAnnotation(text, def)
				continue
			}
			text = wrapDecorator(text, m)
		}
		buf.WriteString(text)
	}
}

func wrapDecorator(text, mark string) string {
	switch mark {
	case "strong":
		return `<strong class="font-semibold text-gray-900">` + text + "</strong>"
	case "em":
		return `<em class="italic">` + text + "</em>"
	case "code":
		return `<code class="bg-gray-100 text-gray-800 px-1.5 py-0.5 rounded text-sm font-mono">` + text + "</code>"
	case "highlight":
		return `<mark class="bg-yellow-200 px-1 py-0.5 rounded">` + text + "</mark>"
	case "underline":
		return "<u>" + text + "</u>"
	case "strike-through":
		return "<s>" + text + "</s>"
	default:
		return text
	}
}

func wrapAnnotation(text string, def MarkDef) string {
	if def.Type != "link" {
		return text
	}
	href := SafeURL(def.Href)
	if href == "" {
		return text
	}
	attrs := `class="text-blue-600 hover:text-blue-800 underline decoration-blue-300 hover:decoration-blue-600 transition-colors"`
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(def.Href)), "http") {
		attrs += ` target="_blank" rel="noopener noreferrer"`
	}
	return `<a href="` + href + `" ` + attrs + `>` + text + `</a>`
}

// SafeURL validates a link target and returns it escaped for an attribute,
// or "" when the scheme is not allowed.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if !IsSafeURL(val) {
		return ""
	}
	return html.EscapeString(val)
}

// IsSafeURL reports whether raw is a site-relative path, a fragment or an
// http, https, mailto or tel URL.
func IsSafeURL(raw string) bool {
	val := strings.TrimSpace(raw)
	if val == "" {
		return false
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return true
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return true
	default:
		return false
	}
}

// PlainText concatenates the text of every span in blocks, separating blocks
// with a blank line.
func PlainText(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		var sb strings.Builder
		for _, s := range b.Children {
			sb.WriteString(s.Text)
		}
		if b.Type == "code" {
			sb.WriteString(b.Code)
		}
		if b.Type == "callout" {
			sb.WriteString(b.Content)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
