package manifest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "manifest.db")
	st, err := Open(OpenOptions{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{})
	require.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	st, _ := open(t)

	_, ok, err := st.Get("blog/index.html")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	want := Entry{Route: "blog", RenderHash: "r1", TemplateHash: "t1", Status: 200, WrittenAt: at}
	require.NoError(t, st.Put("blog/index.html", want))
	require.NoError(t, st.Put("404.html", Entry{Route: "404", Status: 404}))

	got, ok, err := st.Get("blog/index.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	paths, err := st.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"404.html", "blog/index.html"}, paths)

	require.NoError(t, st.Delete("404.html"))
	paths, err = st.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/index.html"}, paths)
}

func TestPersistsAcrossOpen(t *testing.T) {
	st, path := open(t)
	require.NoError(t, st.Put("cartas/index.html", Entry{RenderHash: "x"}))
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, st.SetLastRun(at))
	require.NoError(t, st.Close())

	again, err := Open(OpenOptions{Path: path})
	require.NoError(t, err)
	defer again.Close()

	e, ok, err := again.Get("cartas/index.html")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", e.RenderHash)

	last, err := again.LastRun()
	require.NoError(t, err)
	assert.True(t, at.Equal(last))
}

func TestLastRunZeroWhenUnset(t *testing.T) {
	st, _ := open(t)
	last, err := st.LastRun()
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
