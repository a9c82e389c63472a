package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"astroblog/internal/escape"
)

// NotFoundFragment is the fixed body served when an id resolves to nothing.
func NotFoundFragment(listPath string) []byte {
	var b strings.Builder
	b.WriteString(`<section class="not-found">`)
	b.WriteString(`<h1>Contenido no encontrado</h1>`)
	b.WriteString(`<p>La publicación o carta que buscas no existe.</p>`)
	b.WriteString(`<a href="`)
	b.WriteString(escape.String(listPath))
	b.WriteString(`">Volver al listado</a>`)
	b.WriteString(`</section>`)
	return []byte(b.String())
}

var ugc = bluemonday.UGCPolicy()

// Body marks a post body as template-safe. The body is authored content and
// passes through verbatim unless sanitize is set.
func Body(src string, sanitize bool) template.HTML {
	if sanitize {
		return template.HTML(ugc.Sanitize(src))
	}
	return template.HTML(src)
}

// FormatNotes renders a chart's notes as two-space indented JSON. Input
// that is not valid JSON is returned unchanged.
func FormatNotes(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
