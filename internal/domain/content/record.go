package content

import (
	"encoding/json"
	"strings"
)

type Kind string

const (
	KindPost  Kind = "post"
	KindChart Kind = "chart"
)

// DefaultCoverImage is used when a record carries no coverImage.
const DefaultCoverImage = "/images/default-cover.jpg"

type Post struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author,omitempty"`
	Date           string   `json:"date,omitempty"`
	Excerpt        string   `json:"excerpt,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Content        string   `json:"content,omitempty"`
	HTML           string   `json:"html,omitempty"`
	Markdown       string   `json:"markdown,omitempty"`
	CoverImage     string   `json:"coverImage,omitempty"`
	ReadingMinutes *int     `json:"readingMinutes,omitempty"`
}

// BodyHTML is the trusted rich-HTML body. content wins over html.
func (p *Post) BodyHTML() string {
	if strings.TrimSpace(p.Content) != "" {
		return p.Content
	}
	return p.HTML
}

type Chart struct {
	ID         string          `json:"id"`
	PersonName string          `json:"person_name"`
	BirthDate  string          `json:"birth_date,omitempty"`
	BirthTime  string          `json:"birth_time,omitempty"`
	BirthPlace string          `json:"birth_place,omitempty"`
	Date       string          `json:"date,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Positions  []Position      `json:"positions,omitempty"`
	Notes      json.RawMessage `json:"notes,omitempty"`
	CoverImage string          `json:"coverImage,omitempty"`
}

// HasNotes reports whether notes carry anything besides JSON null.
func (c *Chart) HasNotes() bool {
	n := strings.TrimSpace(string(c.Notes))
	return n != "" && n != "null"
}

// Position is one row of a natal chart: a graha with its sidereal placement.
type Position struct {
	Label     string   `json:"label"`
	Longitude *float64 `json:"longitude,omitempty"`
	Degree    string   `json:"degree,omitempty"`
	Nakshatra string   `json:"nakshatra,omitempty"`
	Pada      string   `json:"pada,omitempty"`
	Sign      string   `json:"sign,omitempty"`
	Navamsa   string   `json:"navamsa,omitempty"`
}

func (p *Position) UnmarshalJSON(data []byte) error {
	type plain Position
	var aux struct {
		plain
		Planet string          `json:"planet"`
		Pada   json.RawMessage `json:"pada"`
		Degree json.RawMessage `json:"degree"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Position(aux.plain)
	if p.Label == "" {
		p.Label = aux.Planet
	}
	// pada and degree show up both as numbers and as strings
	p.Pada = scalarString(aux.Pada)
	p.Degree = scalarString(aux.Degree)
	return nil
}

func scalarString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}

// Record is a post or a chart; exactly one of Post and Chart is set,
// matching Kind.
type Record struct {
	Kind  Kind
	Post  *Post
	Chart *Chart
}

func PostRecord(p Post) Record   { return Record{Kind: KindPost, Post: &p} }
func ChartRecord(c Chart) Record { return Record{Kind: KindChart, Chart: &c} }

func (r Record) ID() string {
	switch r.Kind {
	case KindPost:
		return r.Post.ID
	case KindChart:
		return r.Chart.ID
	}
	return ""
}

// Title is the display name: a post title or the chart subject's name.
func (r Record) Title() string {
	switch r.Kind {
	case KindPost:
		return r.Post.Title
	case KindChart:
		return r.Chart.PersonName
	}
	return ""
}

func (r Record) Date() string {
	switch r.Kind {
	case KindPost:
		return r.Post.Date
	case KindChart:
		if r.Chart.Date != "" {
			return r.Chart.Date
		}
		return r.Chart.BirthDate
	}
	return ""
}

// Excerpt is the post excerpt or the chart summary.
func (r Record) Excerpt() string {
	switch r.Kind {
	case KindPost:
		return r.Post.Excerpt
	case KindChart:
		return r.Chart.Summary
	}
	return ""
}

func (r Record) Tags() []string {
	var tags []string
	switch r.Kind {
	case KindPost:
		tags = r.Post.Tags
	case KindChart:
		tags = r.Chart.Tags
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r Record) CoverImage() string {
	var c string
	switch r.Kind {
	case KindPost:
		c = r.Post.CoverImage
	case KindChart:
		c = r.Chart.CoverImage
	}
	if strings.TrimSpace(c) == "" {
		return DefaultCoverImage
	}
	return c
}

// LookupKey is the case-insensitive identifier used for resolution.
func (r Record) LookupKey() string {
	return strings.ToLower(r.ID())
}
