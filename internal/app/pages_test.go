package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astroblog/internal/domain/config"
	"astroblog/internal/domain/content"
	"astroblog/internal/domain/site"
	"astroblog/internal/logger"
	"astroblog/internal/render"
)

type memLoader map[content.Kind][]content.Record

func (m memLoader) Load(_ context.Context, kind content.Kind) []content.Record {
	return m[kind]
}

func intPtr(v int) *int { return &v }

func fixture() memLoader {
	return memLoader{
		content.KindPost: {
			content.PostRecord(content.Post{
				ID:      "mars-transit",
				Title:   "<b>Mars</b>",
				Date:    "2024-03-01",
				Tags:    []string{"mars", "transit"},
				Content: "<p>Mars enters Aries.</p>",
			}),
			content.PostRecord(content.Post{
				ID:       "saturn",
				Title:    "Saturn",
				Date:     "2024-05-01",
				Tags:     []string{"saturn", "mars"},
				Markdown: "# Sade Sati\n\nSeven and a half years.",
			}),
			content.PostRecord(content.Post{Title: "No id", Tags: []string{"ghost"}}),
			content.PostRecord(content.Post{ID: "shared", Title: "Shared post", ReadingMinutes: intPtr(7)}),
		},
		content.KindChart: {
			content.ChartRecord(content.Chart{
				ID:         "ana",
				PersonName: "Ana",
				BirthDate:  "1990-07-14",
				BirthPlace: "Lima",
				Positions:  []content.Position{{Label: "Moon", Sign: "Cancer"}},
				Notes:      json.RawMessage(`{"yoga":"Gaja Kesari"}`),
			}),
			content.ChartRecord(content.Chart{ID: "shared", PersonName: "Shared chart"}),
		},
	}
}

func newPages(t *testing.T, src memLoader, mutate ...func(*config.Config)) *Pages {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	r, err := render.NewTemplateRenderer("")
	require.NoError(t, err)
	return NewPages(cfg, src, r, logger.NewNop())
}

func TestDetailRendersPost(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.Detail(context.Background(), "MARS-TRANSIT")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.Status)
	body := string(page.Body)
	assert.Contains(t, body, "&lt;b&gt;Mars&lt;/b&gt;")
	assert.Contains(t, body, `<li class="tag-pill">mars</li>`)
	assert.Contains(t, body, `<li class="tag-pill">transit</li>`)
	assert.Contains(t, body, "<p>Mars enters Aries.</p>")
}

func TestDetailRendersMarkdownWithTOC(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.Detail(context.Background(), "saturn")
	require.NoError(t, err)
	body := string(page.Body)
	assert.Contains(t, body, `<h1 id="sade-sati">Sade Sati</h1>`)
	assert.Contains(t, body, `href="#sade-sati"`)
}

func TestDetailPrefersPostOverChart(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.Detail(context.Background(), "shared")
	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "Shared post")
	assert.Contains(t, string(page.Body), "7 min de lectura")
}

func TestDetailFallsThroughToChart(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.Detail(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.Status)
	body := string(page.Body)
	assert.Contains(t, body, `<table class="positions">`)
	assert.Contains(t, body, "Gaja Kesari")
	assert.Contains(t, body, `href="/cartas"`)
}

func TestChartDetailIgnoresPosts(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.ChartDetail(context.Background(), "shared")
	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "Shared chart")

	page, err = p.ChartDetail(context.Background(), "mars-transit")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.Status)
	assert.Contains(t, string(page.Body), `href="/cartas"`)
}

func TestDetailNotFoundOnEmptySources(t *testing.T) {
	p := newPages(t, memLoader{})

	page, err := p.Detail(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.Status)
	assert.Equal(t, string(render.NotFoundFragment("/blog")), string(page.Body))
}

func TestBlogListOrdersAndIndexesTags(t *testing.T) {
	p := newPages(t, fixture())

	page, err := p.BlogList(context.Background())
	require.NoError(t, err)
	body := string(page.Body)

	saturn := indexOf(t, body, `href="/blog/saturn"`)
	mars := indexOf(t, body, `href="/blog/mars-transit"`)
	shared := indexOf(t, body, `href="/blog/shared"`)
	assert.Less(t, saturn, mars, "newer post first")
	assert.Less(t, mars, shared, "undated post last")
	assert.NotContains(t, body, "No id")
	assert.Contains(t, body, `<option value="transit">`)
	assert.NotContains(t, body, "ghost", "tags of unlisted records stay out of the filter")
}

func TestBlogListWithoutTagIndex(t *testing.T) {
	p := newPages(t, fixture(), func(c *config.Config) { c.Content.TagIndex = false })

	page, err := p.BlogList(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, string(page.Body), `id="tag-filter"`)
}

func TestChartListEmptyState(t *testing.T) {
	p := newPages(t, memLoader{})

	page, err := p.ChartList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Contains(t, string(page.Body), "Todavía no hay cartas publicadas.")
}

func TestSanitizeBody(t *testing.T) {
	src := memLoader{content.KindPost: {content.PostRecord(content.Post{
		ID:      "x",
		Title:   "X",
		Content: `<p>ok</p><script>alert(1)</script>`,
	})}}

	plain, err := newPages(t, src).Detail(context.Background(), "x")
	require.NoError(t, err)
	assert.Contains(t, string(plain.Body), "<script>alert(1)</script>")

	clean, err := newPages(t, src, func(c *config.Config) { c.Content.SanitizeBody = true }).Detail(context.Background(), "x")
	require.NoError(t, err)
	assert.NotContains(t, string(clean.Body), "alert(1)")
	assert.Contains(t, string(clean.Body), "<p>ok</p>")
}

type failingRenderer struct{ render.Renderer }

func (failingRenderer) RenderPost(context.Context, render.PostPage) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestRenderFailureIsReturned(t *testing.T) {
	base, err := render.NewTemplateRenderer("")
	require.NoError(t, err)
	p := NewPages(config.Default(), fixture(), failingRenderer{base}, nil)

	_, err = p.Detail(context.Background(), "mars-transit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mars-transit")
}

func TestRoutes(t *testing.T) {
	src := fixture()
	src[content.KindPost] = append(src[content.KindPost],
		content.PostRecord(content.Post{ID: "Saturn", Title: "dup"}),
		content.PostRecord(content.Post{ID: "../escape", Title: "unsafe"}),
		content.PostRecord(content.Post{ID: "luna.llena", Title: "dotted"}),
	)
	rb := &RouteBuilder{Source: src}

	got := rb.Routes(context.Background())
	want := []site.Route{
		{Kind: site.RouteBlogList, OutPath: "blog/index.html"},
		{Kind: site.RouteChartList, OutPath: "cartas/index.html"},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
		{Kind: site.RouteBlogItem, ID: "mars-transit", OutPath: "blog/mars-transit/index.html"},
		{Kind: site.RouteBlogItem, ID: "saturn", OutPath: "blog/saturn/index.html"},
		{Kind: site.RouteBlogItem, ID: "shared", OutPath: "blog/shared/index.html"},
		{Kind: site.RouteBlogItem, ID: "luna.llena", OutPath: "blog/luna.llena/index.html"},
		{Kind: site.RouteChartItem, ID: "ana", OutPath: "cartas/ana/index.html"},
		{Kind: site.RouteChartItem, ID: "shared", OutPath: "cartas/shared/index.html"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRoute(t *testing.T) {
	p := newPages(t, fixture())
	ctx := context.Background()

	page, err := p.RenderRoute(ctx, site.Route{Kind: site.RouteChartItem, ID: "ana"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.Status)

	page, err = p.RenderRoute(ctx, site.Route{Kind: site.RouteNotFound})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.Status)

	_, err = p.RenderRoute(ctx, site.Route{Kind: "bogus"})
	require.Error(t, err)
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "%q not found", sub)
	return i
}
