package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Entry is what the manifest remembers about one exported file.
type Entry struct {
	Route        string    `json:"route"`
	RenderHash   string    `json:"render_hash"`
	TemplateHash string    `json:"template_hash"`
	Status       int       `json:"status"`
	WrittenAt    time.Time `json:"written_at"`
}

// Get returns the entry for outPath; ok is false when none is stored.
func (s *Store) Get(outPath string) (e Entry, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bPages).Get([]byte(outPath))
		if v == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(v, &e)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("manifest: get %s: %w", outPath, err)
	}
	return e, ok, nil
}

func (s *Store) Put(outPath string, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bPages).Put([]byte(outPath), b)
	})
}

func (s *Store) Delete(outPath string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bPages).Delete([]byte(outPath))
	})
}

// Paths lists every recorded output path in key order.
func (s *Store) Paths() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bPages).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

func (s *Store) SetLastRun(t time.Time) error {
	b, err := t.UTC().MarshalText()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bMeta).Put(keyLastRun, b)
	})
}

// LastRun is the zero time when no export has finished yet.
func (s *Store) LastRun() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bMeta).Get(keyLastRun)
		if v == nil {
			return nil
		}
		return t.UnmarshalText(v)
	})
	return t, err
}
