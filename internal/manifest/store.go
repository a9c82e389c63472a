// Package manifest records what the last export wrote, keyed by output path,
// so an unchanged page is not rewritten.
package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bPages = []byte("pages") // outPath -> Entry JSON
	bMeta  = []byte("meta")  // run-level values

	keyLastRun = []byte("last_run")
)

type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".astroblog/manifest.db"
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("manifest: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bPages, bMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
