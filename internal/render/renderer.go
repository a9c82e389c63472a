package render

import "context"

type Renderer interface {
	RenderBlogList(ctx context.Context, page ListPage) ([]byte, error)
	RenderChartList(ctx context.Context, page ListPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderChart(ctx context.Context, page ChartPage) ([]byte, error)
	// Hash identifies the template set; it changes whenever a template does.
	Hash() string
}
