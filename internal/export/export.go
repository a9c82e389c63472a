// Package export renders every route of the site to static files.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"astroblog/internal/app"
	"astroblog/internal/domain/build"
	"astroblog/internal/domain/config"
	"astroblog/internal/domain/site"
	"astroblog/internal/logger"
	"astroblog/internal/manifest"
	"astroblog/internal/metrics"
	"astroblog/internal/render"
)

type Builder struct {
	Cfg      config.Config
	Pages    *app.Pages
	Routes   *app.RouteBuilder
	Renderer render.Renderer
	Log      logger.Logger
	Metrics  *metrics.Metrics

	// Now stamps manifest entries; defaults to time.Now.
	Now func() time.Time
}

type Result struct {
	Routes    int
	Written   int
	Unchanged int
	Removed   int
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := b.Log
	if log == nil {
		log = logger.NewNop()
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	st, err := manifest.Open(manifest.OpenOptions{Path: b.Cfg.Build.ManifestPath})
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer st.Close()

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	routes := b.Routes.Routes(ctx)
	res := &Result{Routes: len(routes)}
	current := make(map[string]struct{}, len(routes))

	for _, r := range routes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		current[r.OutPath] = struct{}{}

		written, err := b.exportRoute(ctx, st, outDir, r, now())
		if err != nil {
			return res, fmt.Errorf("export %s: %w", r, err)
		}
		if written {
			res.Written++
			b.Metrics.Exported("written")
			log.Debug("page written", logger.String("route", r.String()))
		} else {
			res.Unchanged++
			b.Metrics.Exported("unchanged")
		}
	}

	removed, err := prune(st, outDir, current)
	res.Removed = removed
	if err != nil {
		return res, fmt.Errorf("prune: %w", err)
	}

	if err := st.SetLastRun(now()); err != nil {
		return res, fmt.Errorf("record run: %w", err)
	}
	log.Info("export complete",
		logger.String("out", outDir),
		logger.Int("routes", res.Routes),
		logger.Int("written", res.Written),
		logger.Int("unchanged", res.Unchanged),
		logger.Int("removed", res.Removed),
	)
	return res, nil
}

// exportRoute renders r and writes it unless the manifest already holds the
// same render hash and the file is still on disk.
func (b *Builder) exportRoute(ctx context.Context, st *manifest.Store, outDir string, r site.Route, at time.Time) (bool, error) {
	page, err := b.Pages.RenderRoute(ctx, r)
	if err != nil {
		return false, err
	}

	fp := build.Fingerprint{
		PageHash:     build.HashBytes(page.Body),
		TemplateHash: b.Renderer.Hash(),
	}
	fp.ComputeRenderHash()

	prev, ok, err := st.Get(r.OutPath)
	if err != nil {
		return false, err
	}
	if ok && prev.RenderHash == fp.RenderHash && fileExists(filepath.Join(outDir, r.OutPath)) {
		return false, nil
	}

	if err := writeFile(outDir, r.OutPath, page.Body); err != nil {
		return false, err
	}
	return true, st.Put(r.OutPath, manifest.Entry{
		Route:        string(r.Kind),
		RenderHash:   fp.RenderHash,
		TemplateHash: fp.TemplateHash,
		Status:       page.Status,
		WrittenAt:    at,
	})
}

// prune deletes pages recorded by an earlier run whose record is gone.
func prune(st *manifest.Store, outDir string, current map[string]struct{}) (int, error) {
	paths, err := st.Paths()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if _, ok := current[p]; ok {
			continue
		}
		full := filepath.Join(outDir, p)
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		// the item directory is empty now unless someone put files there
		_ = os.Remove(filepath.Dir(full))
		if err := st.Delete(p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// copyStaticAssets mirrors server.static_dir into the public dir so the
// export is self-contained.
func (b *Builder) copyStaticAssets(outDir string) error {
	src := b.Cfg.Server.StaticDir
	if src == "" {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}
	absSrc, _ := filepath.Abs(src)
	absOut, _ := filepath.Abs(outDir)
	if absSrc == absOut {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return writeFile(outDir, rel, in)
	})
}
