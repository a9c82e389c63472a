package app

import (
	"context"

	"astroblog/internal/domain/content"
	"astroblog/internal/domain/site"
	"astroblog/internal/logger"
	"astroblog/internal/resolve"
)

type RouteBuilder struct {
	Source resolve.Loader
	Log    logger.Logger
}

func (rb *RouteBuilder) BuildListRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteBlogList, OutPath: site.OutPath(site.RouteBlogList, "")},
		{Kind: site.RouteChartList, OutPath: site.OutPath(site.RouteChartList, "")},
		{Kind: site.RouteNotFound, OutPath: site.OutPath(site.RouteNotFound, "")},
	}
}

// BuildItemRoutes emits one route per addressable record. Ids are compared
// case-insensitively and only the first record with a given id gets a page,
// matching what the resolver would serve. The out dir is the id itself, so
// that dedupe also keeps two records off the same file. Ids that cannot name
// a directory are skipped with a warning.
func (rb *RouteBuilder) BuildItemRoutes(ctx context.Context, kind content.Kind) []site.Route {
	rk := site.RouteBlogItem
	if kind == content.KindChart {
		rk = site.RouteChartItem
	}

	log := rb.Log
	if log == nil {
		log = logger.NewNop()
	}

	seen := make(map[string]struct{})
	var routes []site.Route
	for _, rec := range rb.Source.Load(ctx, kind) {
		if rec.ID() == "" {
			continue
		}
		key := rec.LookupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out := site.OutPath(rk, rec.ID())
		if out == "" {
			log.Warn("id cannot be exported as a page",
				logger.String("kind", string(kind)), logger.String("id", rec.ID()))
			continue
		}
		routes = append(routes, site.Route{Kind: rk, ID: rec.ID(), OutPath: out})
	}
	return routes
}

// Routes is every page the site can render, listings first.
func (rb *RouteBuilder) Routes(ctx context.Context) []site.Route {
	routes := rb.BuildListRoutes()
	routes = append(routes, rb.BuildItemRoutes(ctx, content.KindPost)...)
	routes = append(routes, rb.BuildItemRoutes(ctx, content.KindChart)...)
	return routes
}
