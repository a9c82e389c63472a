package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"astroblog/internal/escape"
)

//go:embed templates/*.tmpl
var embedded embed.FS

var pageTemplates = []string{
	"blog.tmpl",
	"cartas.tmpl",
	"post.tmpl",
	"chart.tmpl",
}

type TemplateRenderer struct {
	tpl  *template.Template
	hash string
}

// NewTemplateRenderer parses the embedded templates and then, when themeDir
// is set, every *.tmpl in it; a theme file redefines the embedded template
// of the same name.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	h := sha256.New()

	tpl := template.New("").Funcs(templateFuncs())
	if err := parseFS(tpl, embedded, "templates", h.Write); err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	if strings.TrimSpace(themeDir) != "" {
		if err := parseFS(tpl, os.DirFS(themeDir), ".", h.Write); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", themeDir, err)
		}
	}

	for _, name := range pageTemplates {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("missing template: %s", name)
		}
	}
	return &TemplateRenderer{tpl: tpl, hash: hex.EncodeToString(h.Sum(nil))}, nil
}

func parseFS(tpl *template.Template, fsys fs.FS, dir string, hash func([]byte) (int, error)) error {
	matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.tmpl")))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for _, m := range matches {
		src, err := fs.ReadFile(fsys, m)
		if err != nil {
			return err
		}
		_, _ = hash([]byte(m))
		_, _ = hash(src)
		if _, err := tpl.New(filepath.Base(m)).Parse(string(src)); err != nil {
			return err
		}
	}
	return nil
}

// templateFuncs: esc writes untrusted text with the site escaper in element
// content, <title> and quoted attribute values. Its result is typed HTML, so
// html/template keeps the entities as written there. URL attributes (href,
// src) stay on html/template's URL escaping.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"esc": func(v any) template.HTML {
			return template.HTML(escape.String(v))
		},
		"dateLabel": func(t time.Time, raw string) string {
			if t.IsZero() {
				return raw
			}
			return t.Format("02/01/2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.DateOnly)
		},
		"longitude": func(v *float64) string {
			if v == nil {
				return ""
			}
			return strconv.FormatFloat(*v, 'f', 2, 64) + "°"
		},
		"join":  strings.Join,
		"lower": strings.ToLower,
		"nowYear": func() int {
			return time.Now().Year()
		},
	}
}

func (r *TemplateRenderer) RenderBlogList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("blog.tmpl", page)
}

func (r *TemplateRenderer) RenderChartList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("cartas.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderChart(ctx context.Context, page ChartPage) ([]byte, error) {
	return r.exec("chart.tmpl", page)
}

func (r *TemplateRenderer) Hash() string {
	return r.hash
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
