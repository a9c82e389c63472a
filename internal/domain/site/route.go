package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"
)

type RouteKind string

const (
	RouteBlogList  RouteKind = "blog"
	RouteBlogItem  RouteKind = "blog-item"
	RouteChartList RouteKind = "cartas"
	RouteChartItem RouteKind = "carta"
	RouteNotFound  RouteKind = "404"
)

const (
	BlogPath   = "/blog"
	ChartsPath = "/cartas"
)

type Route struct {
	Kind    RouteKind
	ID      string
	OutPath string
}

// URL is the request path that serves the route.
func (r Route) URL() string {
	switch r.Kind {
	case RouteBlogList:
		return BlogPath
	case RouteBlogItem:
		return ItemURL(BlogPath, r.ID)
	case RouteChartList:
		return ChartsPath
	case RouteChartItem:
		return ItemURL(ChartsPath, r.ID)
	}
	return ""
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.ID != "" {
		parts = append(parts, "id="+r.ID)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// ItemURL joins a listing path and a record id, escaping the id as a path segment.
func ItemURL(base, id string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), url.PathEscape(id))
}

// ItemSegment is the directory an item page is exported under. It is the id
// itself, so a static host that decodes the ItemURL link finds the page. ok is
// false for ids that cannot name exactly one directory.
func ItemSegment(id string) (string, bool) {
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return "", false
	}
	for _, r := range id {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return "", false
		}
	}
	return id, true
}

// OutPath is the file a route is exported to, relative to the public dir.
// Item routes whose id has no ItemSegment have no out path.
func OutPath(kind RouteKind, id string) string {
	switch kind {
	case RouteBlogList:
		return path.Join("blog", "index.html")
	case RouteChartList:
		return path.Join("cartas", "index.html")
	case RouteBlogItem, RouteChartItem:
		seg, ok := ItemSegment(id)
		if !ok {
			return ""
		}
		dir := "blog"
		if kind == RouteChartItem {
			dir = "cartas"
		}
		return path.Join(dir, seg, "index.html")
	}
	return "404.html"
}
