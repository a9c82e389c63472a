// Package store loads post and chart collections from JSON files on disk.
// Nothing is cached: every call resolves the source path and parses the file
// again, so edits made by the content authors show up on the next request.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"astroblog/internal/domain/config"
	"astroblog/internal/domain/content"
	domainerr "astroblog/internal/domain/errors"
	"astroblog/internal/logger"
	"astroblog/internal/metrics"
)

type Warning struct {
	Path string
	Msg  string
}

// Source is the outcome of one successful read.
type Source struct {
	Kind     content.Kind
	Path     string
	Records  []content.Record
	Warnings []Warning
}

type Store struct {
	cfg     config.ContentConfig
	static  string
	log     logger.Logger
	metrics *metrics.Metrics
}

func New(cfg config.Config, log logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		cfg:     cfg.Content,
		static:  cfg.Server.StaticDir,
		log:     log,
		metrics: m,
	}
}

// Collection is the plural name used in logs, metrics and config.
func Collection(kind content.Kind) string {
	if kind == content.KindChart {
		return "charts"
	}
	return "posts"
}

func (s *Store) source(kind content.Kind) config.SourceConfig {
	if kind == content.KindChart {
		return s.cfg.Charts
	}
	return s.cfg.Posts
}

// Candidates lists the paths tried for kind, in order.
func (s *Store) Candidates(kind content.Kind) []string {
	src := s.source(kind)
	out := make([]string, 0, len(src.Files)*2)
	for _, f := range src.Files {
		out = append(out, joinBase(s.cfg.BaseDir, f))
	}
	if s.cfg.StaticFallback && strings.TrimSpace(s.static) != "" {
		for _, f := range src.Files {
			out = append(out, filepath.Join(s.static, "data", filepath.Base(f)))
		}
	}
	return dedupe(out)
}

func joinBase(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Load returns the records of kind in source order. Unavailable or malformed
// sources are logged and yield an empty, non-nil slice.
func (s *Store) Load(ctx context.Context, kind content.Kind) []content.Record {
	log := logger.FromContext(ctx, s.log).With(logger.String("collection", Collection(kind)))

	src, err := s.Read(ctx, kind)
	if err != nil {
		reason := "unknown"
		var se *domainerr.SourceError
		if errors.As(err, &se) {
			reason = se.ReasonLabel()
		}
		log.Warn("content source degraded to empty collection",
			logger.String("reason", reason),
			logger.Error(err),
		)
		s.metrics.LoadFailed(Collection(kind), reason)
		s.metrics.Loaded(Collection(kind), 0)
		return []content.Record{}
	}
	for _, w := range src.Warnings {
		log.Debug("content warning", logger.String("path", w.Path), logger.String("msg", w.Msg))
	}
	s.metrics.Loaded(Collection(kind), len(src.Records))
	return src.Records
}

// Read resolves and parses the source for kind, returning a
// *domainerr.SourceError when it cannot.
func (s *Store) Read(ctx context.Context, kind content.Kind) (Source, error) {
	name := Collection(kind)
	candidates := s.Candidates(kind)

	path, err := firstExisting(candidates)
	if err != nil {
		return Source{}, &domainerr.SourceError{
			Kind:   name,
			Path:   strings.Join(candidates, ", "),
			Reason: domainerr.ErrSourceUnavailable,
			Err:    err,
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, &domainerr.SourceError{Kind: name, Path: path, Reason: domainerr.ErrSourceUnavailable, Err: err}
	}

	items, err := extractArray(raw, s.source(kind).Field)
	if err != nil {
		return Source{}, &domainerr.SourceError{Kind: name, Path: path, Reason: domainerr.ErrSourceMalformed, Err: err}
	}

	recs, warns, err := decodeRecords(kind, items, path)
	if err != nil {
		return Source{}, &domainerr.SourceError{Kind: name, Path: path, Reason: domainerr.ErrSourceMalformed, Err: err}
	}
	return Source{Kind: kind, Path: path, Records: recs, Warnings: warns}, nil
}

func firstExisting(candidates []string) (string, error) {
	for _, p := range candidates {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		if st.IsDir() {
			continue
		}
		return p, nil
	}
	return "", fmt.Errorf("none of %d candidate paths exists: %w", len(candidates), fs.ErrNotExist)
}

// extractArray accepts either a bare array or an object holding the array
// under field.
func extractArray(raw []byte, field string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, err
		}
		if field == "" {
			return nil, errors.New("object document but no array field configured")
		}
		inner, ok := obj[field]
		if !ok {
			return nil, fmt.Errorf("object document has no %q field", field)
		}
		if t := bytes.TrimSpace(inner); len(t) == 0 || t[0] != '[' {
			return nil, fmt.Errorf("field %q is not an array", field)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected document type starting with %q", trimmed[0])
	}
}

func decodeRecords(kind content.Kind, items []json.RawMessage, path string) ([]content.Record, []Warning, error) {
	out := make([]content.Record, 0, len(items))
	var warns []Warning

	for i, item := range items {
		if string(bytes.TrimSpace(item)) == "null" {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("entry %d is null, skipped", i)})
			continue
		}

		var rec content.Record
		switch kind {
		case content.KindChart:
			var c content.Chart
			if err := json.Unmarshal(item, &c); err != nil {
				return nil, nil, fmt.Errorf("entry %d: %w", i, err)
			}
			rec = content.ChartRecord(c)
		default:
			var p content.Post
			if err := json.Unmarshal(item, &p); err != nil {
				return nil, nil, fmt.Errorf("entry %d: %w", i, err)
			}
			rec = content.PostRecord(p)
		}

		if strings.TrimSpace(rec.ID()) == "" {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("entry %d has no id and cannot be resolved", i)})
		}
		out = append(out, rec)
	}
	return out, warns, nil
}
