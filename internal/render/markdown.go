package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer turns markdown post bodies into HTML. Raw HTML inside the
// markdown is kept, matching how html/content bodies are passed through.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML     string
	Headings []Heading
}

func (r *MarkdownRenderer) Render(src string) (MarkdownResult, error) {
	source := []byte(src)
	doc := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var heads []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		heads = append(heads, Heading{
			Level: h.Level,
			ID:    headingID(h),
			Text:  strings.TrimSpace(string(inlineText(h, source))),
		})
		return ast.WalkSkipChildren, nil
	})

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{HTML: buf.String(), Headings: heads}, nil
}

func headingID(h *ast.Heading) string {
	id, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := id.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

// inlineText concatenates the text segments below n, descending into
// emphasis, links and code spans.
func inlineText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.Write(inlineText(c, source))
		}
	}
	return buf.Bytes()
}
