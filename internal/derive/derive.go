// Package derive computes the fields a listing or detail page shows that are
// not stored verbatim in the content files.
package derive

import (
	"bytes"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"astroblog/internal/domain/content"
)

const WordsPerMinute = 200

// ReadingMinutes returns explicit when it is set and positive, otherwise the
// word count of body (tags stripped) over WordsPerMinute, rounded, never below 1.
func ReadingMinutes(explicit *int, body string) int {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	words := len(strings.Fields(StripTags(body)))
	minutes := int(math.Round(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// RecordReadingMinutes is ReadingMinutes for a post record; charts have no
// prose body and report 0.
func RecordReadingMinutes(rec content.Record) int {
	if rec.Kind != content.KindPost || rec.Post == nil {
		return 0
	}
	body := rec.Post.BodyHTML()
	if strings.TrimSpace(body) == "" {
		body = rec.Post.Markdown
	}
	return ReadingMinutes(rec.Post.ReadingMinutes, body)
}

// StripTags returns the text content of an HTML fragment. Script and style
// contents are dropped; element boundaries become spaces so adjacent blocks
// do not merge into one word.
func StripTags(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all there is
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawText(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawText(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(name []byte) bool {
	return bytes.Equal(name, []byte("script")) || bytes.Equal(name, []byte("style"))
}

// TagIndex is the union of all record tags in first-seen order.
func TagIndex(records []content.Record) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, rec := range records {
		for _, tag := range rec.Tags() {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// SortByDate returns a copy of records ordered newest first. Records with a
// missing or unparsable date count as the zero time and therefore sort last;
// ties keep source order.
func SortByDate(records []content.Record) []content.Record {
	type keyed struct {
		rec content.Record
		at  time.Time
	}
	items := make([]keyed, len(records))
	for i, rec := range records {
		items[i] = keyed{rec: rec, at: ParseDate(rec.Date())}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.After(items[j].at)
	})

	out := make([]content.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

// ParseDate accepts the date shapes seen in the content files and returns
// the zero time for anything else.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
