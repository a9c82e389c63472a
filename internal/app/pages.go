// Package app turns loaded records into rendered pages. It is the one place
// that knows how a listing or a detail request flows through the content
// store, the resolver, the derived fields and the renderer.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"astroblog/internal/derive"
	"astroblog/internal/domain/config"
	"astroblog/internal/domain/content"
	domainerr "astroblog/internal/domain/errors"
	"astroblog/internal/domain/site"
	"astroblog/internal/logger"
	"astroblog/internal/render"
	"astroblog/internal/resolve"
)

// ListingPageSize is how many cards the client-side paginator shows per page.
const ListingPageSize = 9

// Page is a rendered response body and the status it should be served with.
type Page struct {
	Status int
	Body   []byte
}

type Pages struct {
	cfg      config.Config
	src      resolve.Loader
	resolver *resolve.Resolver
	renderer render.Renderer
	md       *render.MarkdownRenderer
	log      logger.Logger
}

func NewPages(cfg config.Config, src resolve.Loader, r render.Renderer, log logger.Logger) *Pages {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pages{
		cfg:      cfg,
		src:      src,
		resolver: resolve.New(src),
		renderer: r,
		md:       render.NewMarkdownRenderer(),
		log:      log,
	}
}

func (p *Pages) BlogList(ctx context.Context) (Page, error) {
	page := p.listing(ctx, content.KindPost)
	page.PageTitle = "Blog"
	page.Heading = "Blog de astrología védica"
	page.BasePath = site.BlogPath
	page.Empty = "Todavía no hay publicaciones."

	body, err := p.renderer.RenderBlogList(ctx, page)
	if err != nil {
		return Page{}, fmt.Errorf("render blog list: %w", err)
	}
	return Page{Status: http.StatusOK, Body: body}, nil
}

func (p *Pages) ChartList(ctx context.Context) (Page, error) {
	page := p.listing(ctx, content.KindChart)
	page.PageTitle = "Cartas natales"
	page.Heading = "Cartas natales"
	page.BasePath = site.ChartsPath
	page.Empty = "Todavía no hay cartas publicadas."

	body, err := p.renderer.RenderChartList(ctx, page)
	if err != nil {
		return Page{}, fmt.Errorf("render chart list: %w", err)
	}
	return Page{Status: http.StatusOK, Body: body}, nil
}

// Detail resolves id across posts and then charts and renders whichever
// matched. An unknown id yields the not-found fragment with a 404 status.
func (p *Pages) Detail(ctx context.Context, id string) (Page, error) {
	rec, err := p.resolver.Resolve(ctx, id)
	return p.detail(ctx, rec, err, id, site.BlogPath)
}

// ChartDetail only looks at the chart collection.
func (p *Pages) ChartDetail(ctx context.Context, id string) (Page, error) {
	rec, err := p.resolver.ResolveKind(ctx, content.KindChart, id)
	return p.detail(ctx, rec, err, id, site.ChartsPath)
}

// NotFound is the fixed response for an id that matches nothing.
func (p *Pages) NotFound(listPath string) Page {
	return Page{Status: http.StatusNotFound, Body: render.NotFoundFragment(listPath)}
}

// RenderRoute renders one route produced by the RouteBuilder.
func (p *Pages) RenderRoute(ctx context.Context, r site.Route) (Page, error) {
	switch r.Kind {
	case site.RouteBlogList:
		return p.BlogList(ctx)
	case site.RouteChartList:
		return p.ChartList(ctx)
	case site.RouteBlogItem:
		return p.Detail(ctx, r.ID)
	case site.RouteChartItem:
		return p.ChartDetail(ctx, r.ID)
	case site.RouteNotFound:
		return p.NotFound(site.BlogPath), nil
	}
	return Page{}, fmt.Errorf("unknown route kind %q", r.Kind)
}

func (p *Pages) detail(ctx context.Context, rec content.Record, err error, id, listPath string) (Page, error) {
	log := logger.FromContext(ctx, p.log)
	if errors.Is(err, domainerr.ErrRecordNotFound) {
		log.Debug("record not found", logger.String("id", id), logger.String("list", listPath))
		return p.NotFound(listPath), nil
	}
	if err != nil {
		return Page{}, err
	}

	var body []byte
	switch rec.Kind {
	case content.KindPost:
		body, err = p.renderPost(ctx, rec)
	case content.KindChart:
		body, err = p.renderChart(ctx, rec)
	default:
		return Page{}, fmt.Errorf("record %q has unknown kind %q", id, rec.Kind)
	}
	if err != nil {
		return Page{}, err
	}
	return Page{Status: http.StatusOK, Body: body}, nil
}

func (p *Pages) listing(ctx context.Context, kind content.Kind) render.ListPage {
	log := logger.FromContext(ctx, p.log)
	records := derive.SortByDate(p.src.Load(ctx, kind))

	cards := make([]render.Card, 0, len(records))
	listed := make([]content.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID() == "" {
			log.Debug("listing skips record without id", logger.String("title", rec.Title()))
			continue
		}
		cards = append(cards, p.card(rec))
		listed = append(listed, rec)
	}

	page := render.ListPage{
		Site:     p.cfg.Site,
		Kind:     kind,
		Cards:    cards,
		PageSize: ListingPageSize,
	}
	if p.cfg.Content.TagIndex {
		page.TagIndex = derive.TagIndex(listed)
	}
	return page
}

func (p *Pages) card(rec content.Record) render.Card {
	c := render.Card{
		Kind:       rec.Kind,
		ID:         rec.ID(),
		Title:      rec.Title(),
		Excerpt:    rec.Excerpt(),
		CoverImage: rec.CoverImage(),
		Date:       derive.ParseDate(rec.Date()),
		DateRaw:    rec.Date(),
		Tags:       rec.Tags(),
	}
	switch rec.Kind {
	case content.KindPost:
		c.URL = site.ItemURL(site.BlogPath, rec.ID())
		c.ReadingMinutes = derive.RecordReadingMinutes(rec)
	case content.KindChart:
		c.URL = site.ItemURL(site.ChartsPath, rec.ID())
		c.Positions = len(rec.Chart.Positions)
	}
	return c
}

func (p *Pages) renderPost(ctx context.Context, rec content.Record) ([]byte, error) {
	post := rec.Post
	page := render.PostPage{
		Site:      p.cfg.Site,
		PageTitle: post.Title,
		Card:      p.card(rec),
		Author:    post.Author,
		BackURL:   site.BlogPath,
	}

	// content/html bodies are authored HTML; markdown is only used when
	// neither is present.
	if html := post.BodyHTML(); html != "" || post.Markdown == "" {
		page.Body = render.Body(html, p.cfg.Content.SanitizeBody)
	} else {
		res, err := p.md.Render(post.Markdown)
		if err != nil {
			return nil, fmt.Errorf("render markdown for %q: %w", post.ID, err)
		}
		page.Body = render.Body(res.HTML, p.cfg.Content.SanitizeBody)
		page.TOC = res.Headings
	}

	body, err := p.renderer.RenderPost(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("render post %q: %w", post.ID, err)
	}
	return body, nil
}

func (p *Pages) renderChart(ctx context.Context, rec content.Record) ([]byte, error) {
	ch := rec.Chart
	page := render.ChartPage{
		Site:       p.cfg.Site,
		PageTitle:  ch.PersonName,
		Card:       p.card(rec),
		BirthDate:  ch.BirthDate,
		BirthTime:  ch.BirthTime,
		BirthPlace: ch.BirthPlace,
		Positions:  ch.Positions,
		BackURL:    site.ChartsPath,
	}
	if ch.HasNotes() {
		page.Notes = render.FormatNotes(ch.Notes)
	}

	body, err := p.renderer.RenderChart(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("render chart %q: %w", ch.ID, err)
	}
	return body, nil
}
