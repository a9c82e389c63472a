package render

import (
	"html/template"
	"time"

	"astroblog/internal/domain/config"
	"astroblog/internal/domain/content"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

// Card is the summary of one record as shown in listings and page headers.
type Card struct {
	Kind           content.Kind
	ID             string
	URL            string
	Title          string
	Excerpt        string
	CoverImage     string
	Date           time.Time
	DateRaw        string
	ReadingMinutes int
	Tags           []string
	Positions      int
}

type ListPage struct {
	Site      config.SiteConfig
	PageTitle string
	Heading   string
	BasePath  string
	Kind      content.Kind
	Cards     []Card
	// TagIndex seeds the tag filter; empty disables it.
	TagIndex []string
	PageSize int
	Empty    string
}

type PostPage struct {
	Site      config.SiteConfig
	PageTitle string
	Card      Card
	Author    string
	Body      template.HTML
	TOC       []Heading
	BackURL   string
}

type ChartPage struct {
	Site       config.SiteConfig
	PageTitle  string
	Card       Card
	BirthDate  string
	BirthTime  string
	BirthPlace string
	Positions  []content.Position
	// Notes is the chart's notes object as indented JSON text, unescaped.
	Notes   string
	BackURL string
}
