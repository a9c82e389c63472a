// Package check reads the content sources strictly and reports problems an
// author should fix before they turn into empty listings or dead links.
package check

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"astroblog/internal/derive"
	"astroblog/internal/domain/content"
	domainerr "astroblog/internal/domain/errors"
	"astroblog/internal/domain/site"
	"astroblog/internal/store"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Finding struct {
	Severity   Severity
	Collection string
	Path       string
	ID         string
	Msg        string
}

func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", f.Severity, f.Collection)
	if f.ID != "" {
		fmt.Fprintf(&b, " id=%q", f.ID)
	}
	b.WriteString(": ")
	b.WriteString(f.Msg)
	if f.Path != "" {
		fmt.Fprintf(&b, " (%s)", f.Path)
	}
	return b.String()
}

type Report struct {
	Findings []Finding
	// Loaded counts readable records per collection name.
	Loaded map[string]int
}

func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r Report) OK() bool { return r.Errors() == 0 }

// Reader is the strict side of the content store.
type Reader interface {
	Read(ctx context.Context, kind content.Kind) (store.Source, error)
}

// Run checks posts and then charts. Unreadable sources, records without an
// id and ids repeated inside one collection (compared case-insensitively, as
// the resolver does) are errors. Everything else it reports is a warning.
func Run(ctx context.Context, r Reader) Report {
	rep := Report{Loaded: make(map[string]int)}
	owner := make(map[string]content.Kind)

	for _, kind := range []content.Kind{content.KindPost, content.KindChart} {
		name := store.Collection(kind)
		src, err := r.Read(ctx, kind)
		if err != nil {
			rep.add(SeverityError, name, pathOf(err), "", err.Error())
			continue
		}
		rep.Loaded[name] = len(src.Records)
		for _, w := range src.Warnings {
			rep.add(SeverityWarning, name, w.Path, "", w.Msg)
		}

		seen := make(map[string]struct{}, len(src.Records))
		for i, rec := range src.Records {
			id := rec.ID()
			if strings.TrimSpace(id) == "" {
				rep.add(SeverityError, name, src.Path, "", fmt.Sprintf("entry %d has no id", i))
				continue
			}
			key := rec.LookupKey()
			if _, dup := seen[key]; dup {
				rep.add(SeverityError, name, src.Path, id, "duplicate id; only the first record is reachable")
			}
			seen[key] = struct{}{}

			if prev, ok := owner[key]; ok && prev != kind {
				rep.add(SeverityWarning, name, src.Path, id,
					fmt.Sprintf("id also used by a %s; /blog/%s shows the %s", prev, id, prev))
			} else if !ok {
				owner[key] = kind
			}

			if _, ok := site.ItemSegment(id); !ok {
				rep.add(SeverityWarning, name, src.Path, id, "id cannot be exported as a page directory")
			}
			if d := strings.TrimSpace(rec.Date()); d != "" && derive.ParseDate(d).IsZero() {
				rep.add(SeverityWarning, name, src.Path, id, fmt.Sprintf("unparsable date %q sorts last", d))
			}
			if strings.TrimSpace(rec.Title()) == "" {
				rep.add(SeverityWarning, name, src.Path, id, "missing title")
			}
		}
	}
	return rep
}

func (r *Report) add(sev Severity, collection, path, id, msg string) {
	r.Findings = append(r.Findings, Finding{
		Severity:   sev,
		Collection: collection,
		Path:       path,
		ID:         id,
		Msg:        msg,
	})
}

func pathOf(err error) string {
	var se *domainerr.SourceError
	if errors.As(err, &se) {
		return se.Path
	}
	return ""
}
