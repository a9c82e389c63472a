// Package resolve maps a requested identifier to a post or chart.
package resolve

import (
	"context"
	"strings"

	"astroblog/internal/domain/content"
	domainerr "astroblog/internal/domain/errors"
)

// Loader is the part of the content store the resolver reads from.
type Loader interface {
	Load(ctx context.Context, kind content.Kind) []content.Record
}

// Order is the scan order across collections. Posts win ties with charts.
var Order = []content.Kind{content.KindPost, content.KindChart}

type Resolver struct {
	src Loader
}

func New(src Loader) *Resolver {
	return &Resolver{src: src}
}

// Resolve scans posts, then charts, for a record whose lowercased id equals
// the lowercased id. It returns domainerr.ErrRecordNotFound when none does.
func (r *Resolver) Resolve(ctx context.Context, id string) (content.Record, error) {
	return r.resolveIn(ctx, Order, id)
}

// ResolveKind restricts the scan to one collection.
func (r *Resolver) ResolveKind(ctx context.Context, kind content.Kind, id string) (content.Record, error) {
	return r.resolveIn(ctx, []content.Kind{kind}, id)
}

func (r *Resolver) resolveIn(ctx context.Context, kinds []content.Kind, id string) (content.Record, error) {
	if strings.TrimSpace(id) == "" {
		return content.Record{}, domainerr.ErrRecordNotFound
	}
	key := strings.ToLower(id)

	for _, kind := range kinds {
		for _, rec := range r.src.Load(ctx, kind) {
			if rec.ID() == "" {
				continue
			}
			if rec.LookupKey() == key {
				return rec, nil
			}
		}
	}
	return content.Record{}, domainerr.ErrRecordNotFound
}
