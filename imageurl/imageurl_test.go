package imageurl

import "testing"

func TestURLFromRef(t *testing.T) {
	b := New("32ysp5d7", "production")
	got := b.URL(Source{Ref: "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg"}, 1200, 630)
	want := "https://cdn.sanity.io/images/32ysp5d7/production/Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000.jpg?auto=format&fit=crop&h=630&q=80&w=1200"
	if got != want {
		t.Fatalf("URL() = %q, want %q", got, want)
	}
}

func TestURLRefAndExpandedAgree(t *testing.T) {
	b := New("32ysp5d7", "production")
	fromRef := b.URL(Source{Ref: "image-abc123-800x600-png"}, 400, 250)
	fromURL := b.URL(Source{URL: "https://cdn.sanity.io/images/32ysp5d7/production/abc123-800x600.png"}, 400, 250)
	if fromRef != fromURL {
		t.Fatalf("ref and expanded url disagree:\n%s\n%s", fromRef, fromURL)
	}
}

func TestURLDropsExistingQuery(t *testing.T) {
	b := New("p", "d")
	got := b.URL(Source{URL: "https://cdn.sanity.io/images/p/d/x-1x1.jpg?w=10#frag"}, 20, 0)
	want := "https://cdn.sanity.io/images/p/d/x-1x1.jpg?auto=format&fit=crop&q=80&w=20"
	if got != want {
		t.Fatalf("URL() = %q, want %q", got, want)
	}
}

func TestURLDeterministic(t *testing.T) {
	b := New("p", "d")
	src := Source{Ref: "image-abc-10x10-webp"}
	first := b.URL(src, 64, 64)
	for i := 0; i < 10; i++ {
		if got := b.URL(src, 64, 64); got != first {
			t.Fatalf("URL() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestOrFallback(t *testing.T) {
	b := New("p", "d")
	const fallback = "https://pagrico.com/og-blog-default.jpg"
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"empty", Source{}, fallback},
		{"whitespace", Source{Ref: "  "}, fallback},
		{"malformed ref", Source{Ref: "file-abc-pdf"}, fallback},
		{"relative url", Source{URL: "/img/x.png"}, fallback},
		{"valid", Source{Ref: "image-a-1x2-jpg"}, "https://cdn.sanity.io/images/p/d/a-1x2.jpg?auto=format&fit=crop&h=630&q=80&w=1200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.OrFallback(tt.src, 1200, 630, fallback); got != tt.want {
				t.Errorf("OrFallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		id      string
		dims    string
		format  string
		wantErr bool
	}{
		{"image-abc-10x20-jpg", "abc", "10x20", "jpg", false},
		{"image-a-b-c-10x20-png", "a-b-c", "10x20", "png", false},
		{"image-abc-10by20-jpg", "", "", "", true},
		{"file-abc-10x20-pdf", "", "", "", true},
		{"image-10x20-jpg", "", "", "", true},
	}
	for _, tt := range tests {
		id, dims, format, err := ParseRef(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRef(%q) err = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if id != tt.id || dims != tt.dims || format != tt.format {
			t.Errorf("ParseRef(%q) = (%q, %q, %q), want (%q, %q, %q)", tt.ref, id, dims, format, tt.id, tt.dims, tt.format)
		}
	}
}
