package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/imageurl"
)

const hostPage = `<!DOCTYPE html><html><head><title>Host</title></head><body>
<div id="blog-a"></div><div id="blog-b"></div></body></html>`

const samplePosts = `{"result":[
 {"_id":"p1","title":"PIX Internacional em 2025","slug":"pix-internacional-2025","excerpt":"O que muda","publishedAt":"2025-01-15T10:00:00Z","readingTime":7,
  "mainImage":{"asset":{"_id":"image-abc123-1600x900-jpg","url":"https://cdn.sanity.io/images/32ysp5d7/production/abc123-1600x900.jpg"},"alt":"Mapa"},
  "categories":[{"title":"PIX Internacional","slug":"pix-internacional","icon":"⚡","color":"#F59E0B"}],
  "author":{"name":"Ana Souza","role":"Editora"}},
 {"_id":"p2","title":"Stablecoins <b>explicadas</b>","slug":"stablecoins","publishedAt":"2024-12-01T10:00:00Z",
  "categories":[{"title":"Stablecoins","slug":"stablecoins","color":"red;x:y"}]}
]}`

type apiStub struct {
	mu      sync.Mutex
	queries []string
	params  []map[string]string
	status  int
	body    string
	calls   atomic.Int32
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	q := r.URL.Query()
	params := map[string]string{}
	for k := range q {
		if strings.HasPrefix(k, "$") {
			params[k] = q.Get(k)
		}
	}
	s.mu.Lock()
	s.queries = append(s.queries, q.Get("query"))
	s.params = append(s.params, params)
	s.mu.Unlock()
	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(s.body))
}

func newTestWidget(t *testing.T, stub *apiStub) *Widget {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, SiteURL: "https://blog.pagrico.com/"}, srv.Client())
}

func TestNewBuildsCDNEndpoint(t *testing.T) {
	w := New(Config{UseCDN: true}, nil)
	assert.Equal(t, "https://32ysp5d7.apicdn.sanity.io/v2024-01-01/data/query/production", w.endpoint)
	assert.Equal(t, "https://blog.pagrico.com", w.cfg.SiteURL)
}

func TestGetPostsByCategoryBindsSlug(t *testing.T) {
	stub := &apiStub{body: `{"result":[]}`}
	w := newTestWidget(t, stub)

	injection := `x"] || true || _id in ["`
	posts, err := w.GetPostsByCategory(context.Background(), injection, Options{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	require.Len(t, stub.queries, 1)
	assert.Contains(t, stub.queries[0], "slug.current == $categorySlug")
	assert.NotContains(t, stub.queries[0], injection)

	var bound string
	require.NoError(t, json.Unmarshal([]byte(stub.params[0]["$categorySlug"]), &bound))
	assert.Equal(t, injection, bound)
	assert.Equal(t, "10", stub.params[0]["$limit"])
}

func TestGetFeaturedPostsDefaults(t *testing.T) {
	stub := &apiStub{body: `{"result":null}`}
	w := newTestWidget(t, stub)

	posts, err := w.GetFeaturedPosts(context.Background(), Options{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Contains(t, stub.queries[0], "featured == true")
	assert.Equal(t, "3", stub.params[0]["$limit"])
}

func TestGetPostsWithoutLimit(t *testing.T) {
	stub := &apiStub{body: `{"result":[]}`}
	w := newTestWidget(t, stub)

	_, err := w.GetPosts(context.Background(), Options{Limit: -1})
	require.NoError(t, err)
	assert.NotContains(t, stub.queries[0], "$limit")
	_, ok := stub.params[0]["$limit"]
	assert.False(t, ok)
}

func TestGetPostsAPIError(t *testing.T) {
	stub := &apiStub{status: http.StatusInternalServerError}
	w := newTestWidget(t, stub)

	_, err := w.GetPosts(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRenderCard(t *testing.T) {
	w := New(Config{}, nil)
	var resp struct{ Result []content.Post }
	require.NoError(t, json.Unmarshal([]byte(samplePosts), &resp))

	html := w.RenderCard(resp.Result[0], VariantFeatured)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	card := doc.Find("article.pagrico-post-card.featured")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "https://blog.pagrico.com/blog/pix-internacional-2025/", card.Find(".pagrico-post-title a").AttrOr("href", ""))
	assert.Equal(t, "15 de janeiro de 2025", card.Find(".pagrico-post-date").Text())
	assert.Equal(t, "7 min de leitura", card.Find(".pagrico-post-reading-time").Text())
	assert.Equal(t, "Por Ana Souza", card.Find(".pagrico-post-author").Text())
	assert.Equal(t, "Mapa", card.Find("img").AttrOr("alt", ""))
	assert.Contains(t, card.Find("img").AttrOr("src", ""), "w=400")
	assert.Contains(t, card.Find(".pagrico-post-category").AttrOr("style", ""), "#F59E0B")

	plain := w.RenderCard(resp.Result[1], VariantDefault)
	plainDoc, err := goquery.NewDocumentFromReader(strings.NewReader(plain))
	require.NoError(t, err)
	assert.Equal(t, "https://pagrico.com/og-blog-default.jpg", plainDoc.Find("img").AttrOr("src", ""))
	assert.Equal(t, "Stablecoins <b>explicadas</b>", plainDoc.Find("img").AttrOr("alt", ""))
	assert.NotContains(t, plain, "<b>")
	assert.Contains(t, plain, "&lt;b&gt;explicadas")
	assert.NotContains(t, plain, "pagrico-post-reading-time")
	assert.NotContains(t, plain, "pagrico-post-author")
}

func TestRenderCardRejectsUnsafeColor(t *testing.T) {
	w := New(Config{}, nil)
	p := content.Post{
		Title:      "X",
		Slug:       "x",
		MainImage:  &content.Image{Asset: &imageurl.Asset{Ref: "image-abc-10x10-png"}},
		Categories: []content.Category{{Title: "Y", Color: "red; background:url(x)"}},
	}
	html := w.RenderCard(p, VariantDefault)
	assert.Contains(t, html, "background-color: #00ffaa")
	assert.NotContains(t, html, "url(x)")
	assert.Contains(t, html, "📄 Y")
}

func TestOptimizeImageMatchesRefResolution(t *testing.T) {
	w := New(Config{}, nil)
	pages := imageurl.New("32ysp5d7", "production")

	fromRef := pages.URL(imageurl.Source{Ref: "image-abc123-1600x900-jpg"}, 500, 300)
	fromURL := w.OptimizeImage("https://cdn.sanity.io/images/32ysp5d7/production/abc123-1600x900.jpg", 500, 300)
	assert.Equal(t, fromRef, fromURL)
	assert.Empty(t, w.OptimizeImage("", 500, 300))
}

func TestRenderSectionTwoContainersOneStyleBlock(t *testing.T) {
	stub := &apiStub{body: samplePosts}
	w := newTestWidget(t, stub)
	doc, err := ParseDocument(hostPage)
	require.NoError(t, err)

	var wg sync.WaitGroup
	states := make([]State, 2)
	for i, id := range []string{"blog-a", "blog-b"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			opts := Options{}
			if id == "blog-b" {
				opts = Options{Layout: LayoutList, HideCTA: true, Title: "Outro título"}
			}
			states[i] = w.RenderSection(context.Background(), doc, id, opts)
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, []State{StateSuccess, StateSuccess}, states)
	assert.Equal(t, 1, doc.Count("#"+StylesID))
	assert.Equal(t, 1, doc.Count("head #"+StylesID))

	assert.Equal(t, 1, doc.Count("#blog-a .pagrico-posts-grid"))
	assert.Equal(t, 1, doc.Count("#blog-a .pagrico-cta-button"))
	assert.Equal(t, 1, doc.Count("#blog-b .pagrico-posts-list"))
	assert.Equal(t, 0, doc.Count("#blog-b .pagrico-cta-button"))
	assert.Equal(t, 0, doc.Count(".pagrico-blog-loading"))

	inner, err := doc.InnerHTML("blog-b")
	require.NoError(t, err)
	assert.Contains(t, inner, "Outro título")
}

func TestRenderSectionStates(t *testing.T) {
	tests := []struct {
		name   string
		stub   *apiStub
		want   State
		marker string
		count  int
	}{
		{"success", &apiStub{body: samplePosts}, StateSuccess, ".pagrico-post-card", 2},
		{"empty", &apiStub{body: `{"result":[]}`}, StateEmpty, ".pagrico-blog-empty", 1},
		{"error", &apiStub{status: http.StatusBadGateway}, StateError, ".pagrico-blog-error", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWidget(t, tt.stub)
			doc, err := ParseDocument(hostPage)
			require.NoError(t, err)

			var seen []State
			got := w.RenderSection(context.Background(), doc, "blog-a", Options{
				OnState: func(s State) { seen = append(seen, s) },
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []State{StateIdle, StateLoading, tt.want}, seen)
			assert.Equal(t, tt.count, doc.Count("#blog-a "+tt.marker))
			assert.Equal(t, 0, doc.Count(".pagrico-blog-loading"))
		})
	}
}

func TestRenderSectionErrorLinksToBlog(t *testing.T) {
	w := newTestWidget(t, &apiStub{status: http.StatusInternalServerError})
	doc, err := ParseDocument(hostPage)
	require.NoError(t, err)

	w.RenderSection(context.Background(), doc, "blog-a", Options{})
	inner, err := doc.InnerHTML("blog-a")
	require.NoError(t, err)
	assert.Contains(t, inner, "Erro ao carregar artigos")
	assert.Contains(t, inner, `href="https://blog.pagrico.com"`)
}

func TestRenderSectionMissingContainer(t *testing.T) {
	stub := &apiStub{body: samplePosts}
	w := newTestWidget(t, stub)
	doc, err := ParseDocument(hostPage)
	require.NoError(t, err)

	assert.Equal(t, StateError, w.RenderSection(context.Background(), doc, "nope", Options{}))
	assert.Equal(t, int32(0), stub.calls.Load())
	assert.Equal(t, 0, doc.Count("#"+StylesID))
}

func TestRenderSectionRecoversFromPanic(t *testing.T) {
	w := newTestWidget(t, &apiStub{body: samplePosts})
	doc, err := ParseDocument(hostPage)
	require.NoError(t, err)

	var got State
	assert.NotPanics(t, func() {
		got = w.RenderSection(context.Background(), doc, "blog-a", Options{
			OnState: func(s State) {
				if s == StateLoading {
					panic("observer failure")
				}
			},
		})
	})
	assert.Equal(t, StateError, got)
	assert.Equal(t, 1, doc.Count("#blog-a .pagrico-blog-error"))
}

func TestRenderSectionCategoryBindsParam(t *testing.T) {
	stub := &apiStub{body: `{"result":[]}`}
	w := newTestWidget(t, stub)
	doc, err := ParseDocument(hostPage)
	require.NoError(t, err)

	w.RenderSection(context.Background(), doc, "blog-a", Options{Category: " stablecoins "})
	require.Len(t, stub.params, 1)
	assert.Equal(t, `"stablecoins"`, stub.params[0]["$categorySlug"])
	assert.Equal(t, "3", stub.params[0]["$limit"])
}

func TestEnsureStylesRespectsExistingMarker(t *testing.T) {
	doc, err := ParseDocument(`<html><head><style id="pagrico-blog-styles"></style></head><body></body></html>`)
	require.NoError(t, err)
	assert.False(t, doc.EnsureStyles("x"))
	assert.Equal(t, 1, doc.Count("#"+StylesID))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 de janeiro de 2025", FormatDate(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)))
}
