package portable

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pagrico/blog/imageurl"
)

func text(style, s string, marks ...string) Block {
	return Block{Type: "block", Style: style, Children: []Span{{Type: "span", Text: s, Marks: marks}}}
}

func render(blocks ...Block) string {
	var buf bytes.Buffer
	Renderer{Images: imageurl.New("proj", "production")}.Render(&buf, blocks)
	return buf.String()
}

func TestRenderParagraphEscapes(t *testing.T) {
	got := render(text("normal", `<script>alert("x")</script>`))
	if strings.Contains(got, "<script>") {
		t.Errorf("Render did not escape text: %q", got)
	}
	if !strings.HasPrefix(got, "<p ") || !strings.HasSuffix(got, "</p>") {
		t.Errorf("Render(normal) = %q, want paragraph", got)
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		style string
		text  string
		want  string
	}{
		{"h2", "Como funciona o Pix Internacional?", `id="como-funciona-o-pix-internacional"`},
		{"h3", "Regulação & Câmbio", `id="regulacao-cambio"`},
		{"h4", "Passo 1", `id="passo-1"`},
	}
	for _, tt := range tests {
		got := render(text(tt.style, tt.text))
		if !strings.HasPrefix(got, "<"+tt.style+" ") {
			t.Errorf("Render(%s) = %q, want <%s> tag", tt.style, got, tt.style)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Render(%s %q) = %q, want %s", tt.style, tt.text, got, tt.want)
		}
	}
}

func TestRenderListsGroupConsecutiveItems(t *testing.T) {
	a := text("normal", "um")
	a.ListItem = "bullet"
	b := text("normal", "dois")
	b.ListItem = "bullet"
	c := text("normal", "primeiro")
	c.ListItem = "number"

	got := render(a, b, c, text("normal", "fim"))
	if strings.Count(got, "<ul ") != 1 || strings.Count(got, "</ul>") != 1 {
		t.Errorf("bullets should share one <ul>: %q", got)
	}
	if strings.Count(got, "<ol ") != 1 || strings.Count(got, "</ol>") != 1 {
		t.Errorf("numbered item should open an <ol>: %q", got)
	}
	if strings.Index(got, "</ol>") > strings.Index(got, "<p ") {
		t.Errorf("list should close before paragraph: %q", got)
	}
}

func TestRenderDecorators(t *testing.T) {
	tests := []struct {
		mark string
		want string
	}{
		{"strong", "<strong"},
		{"em", "<em"},
		{"code", "<code"},
		{"highlight", "<mark"},
		{"underline", "<u>"},
		{"strike-through", "<s>"},
	}
	for _, tt := range tests {
		got := render(text("normal", "x", tt.mark))
		if !strings.Contains(got, tt.want) {
			t.Errorf("Render(mark %q) = %q, want %s", tt.mark, got, tt.want)
		}
	}
}

func TestRenderLinks(t *testing.T) {
	tests := []struct {
		href     string
		want     string
		newTab   bool
		noAnchor bool
	}{
		{"https://pagrico.com", `href="https://pagrico.com"`, true, false},
		{"/blog/outro-post/", `href="/blog/outro-post/"`, false, false},
		{"mailto:oi@pagrico.com", `href="mailto:oi@pagrico.com"`, false, false},
		{"javascript:alert(1)", "", false, true},
	}
	for _, tt := range tests {
		b := text("normal", "link", "l1")
		b.MarkDefs = []MarkDef{{Key: "l1", Type: "link", Href: tt.href}}
		got := render(b)
		if tt.noAnchor {
			if strings.Contains(got, "<a ") {
				t.Errorf("Render(link %q) = %q, want no anchor", tt.href, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Render(link %q) = %q, want %s", tt.href, got, tt.want)
		}
		if tt.newTab != strings.Contains(got, `target="_blank" rel="noopener noreferrer"`) {
			t.Errorf("Render(link %q) new tab mismatch: %q", tt.href, got)
		}
	}
}

func TestRenderImage(t *testing.T) {
	img := Block{Type: "image", Asset: &imageurl.Asset{Ref: "image-abc123-1600x900-png"}, Caption: "Legenda"}
	got := render(img)
	want := "https://cdn.sanity.io/images/proj/production/abc123-1600x900.png?auto=format&amp;fit=crop&amp;h=450&amp;q=80&amp;w=800"
	if !strings.Contains(got, want) {
		t.Errorf("Render(image) = %q, want src %q", got, want)
	}
	if !strings.Contains(got, `alt="Imagem do post"`) {
		t.Errorf("Render(image) should use default alt: %q", got)
	}
	if !strings.Contains(got, "<figcaption") || !strings.Contains(got, "Legenda") {
		t.Errorf("Render(image) missing caption: %q", got)
	}
}

func TestRenderImageWithoutAssetIsSkipped(t *testing.T) {
	if got := render(Block{Type: "image", Alt: "nada"}); got != "" {
		t.Errorf("Render(image without asset) = %q, want empty", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := render(Block{Type: "code", Code: "if a < b {}", Language: "go"})
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("code block should have language class: %q", got)
	}
	if !strings.Contains(got, "if a &lt; b {}") {
		t.Errorf("code block should escape content: %q", got)
	}
	got = render(Block{Type: "code", Code: "x"})
	if !strings.Contains(got, `class="language-text"`) {
		t.Errorf("code block without language should default to text: %q", got)
	}
}

func TestRenderCallouts(t *testing.T) {
	tests := []struct {
		tone string
		icon string
	}{
		{"info", "💡"},
		{"warning", "⚠️"},
		{"success", "✅"},
		{"error", "❌"},
		{"unknown", "💡"},
	}
	for _, tt := range tests {
		got := render(Block{Type: "callout", Tone: tt.tone, Title: "Atenção", Content: "Texto"})
		if !strings.Contains(got, tt.icon) {
			t.Errorf("Render(callout %q) = %q, want icon %s", tt.tone, got, tt.icon)
		}
		if !strings.Contains(got, "Atenção") || !strings.Contains(got, "Texto") {
			t.Errorf("Render(callout %q) missing title or content: %q", tt.tone, got)
		}
	}
}

func TestRenderSkipsUnknownTypes(t *testing.T) {
	got := render(Block{Type: "youtube"}, text("normal", "ok"))
	if !strings.Contains(got, "ok") || strings.Contains(got, "youtube") {
		t.Errorf("Render(unknown) = %q", got)
	}
}

func TestComponentWritesSameHTML(t *testing.T) {
	blocks := []Block{text("h2", "Título"), text("normal", "corpo")}
	r := Renderer{Images: imageurl.New("proj", "production")}
	var direct, viaComponent bytes.Buffer
	r.Render(&direct, blocks)
	if err := r.Component(blocks).Render(context.Background(), &viaComponent); err != nil {
		t.Fatalf("Component.Render: %v", err)
	}
	if direct.String() != viaComponent.String() {
		t.Errorf("Component output = %q, want %q", viaComponent.String(), direct.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"/interno", "/interno"},
		{"#secao", "#secao"},
		{"tel:+5511999999999", "tel:+5511999999999"},
		{"javascript:alert(1)", ""},
		{"data:text/html,x", ""},
		{"relativo", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Olá Mundo", "ola-mundo"},
		{"  Pix -- Internacional  ", "pix-internacional"},
		{"Ação, Reação!", "acao-reacao"},
		{"DREX e Real Digital", "drex-e-real-digital"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText([]Block{text("h2", "Um"), {Type: "image"}, text("normal", "Dois")})
	if got != "Um\n\nDois" {
		t.Errorf("PlainText = %q, want %q", got, "Um\n\nDois")
	}
}
