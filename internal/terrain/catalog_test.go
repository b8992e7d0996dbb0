package terrain

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLoadDir(t *testing.T) {
	dir := t.TempDir()

	flat, err := NewFlatMap("ignored", 3, 3, 1, 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "steppe.hmap"), Encode(flat), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hill.yaml"), []byte("heights:\n  - [0, 1]\n  - [1, 2]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a map"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.hmap"), 0o755))

	c := NewCatalog()
	n, err := c.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"hill", "steppe"}, c.Names())

	m, ok := c.Get("steppe")
	require.True(t, ok)
	assert.Equal(t, "steppe", m.Name())
	assert.Equal(t, 3, m.Width())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCatalogLoadDirErrors(t *testing.T) {
	c := NewCatalog()
	_, err := c.LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.hmap"), []byte("HMAP"), 0o644))
	_, err = c.LoadDir(dir)
	assert.ErrorIs(t, err, ErrBadFormat)
	assert.Equal(t, 0, c.Len(), "failed load registers nothing")
}

func TestCatalogPutReplaces(t *testing.T) {
	c := NewCatalog()
	a, err := NewFlatMap("arena", 2, 2, 1, 0)
	require.NoError(t, err)
	b, err := NewFlatMap("arena", 5, 5, 1, 0)
	require.NoError(t, err)

	c.Put(a)
	c.Put(b)
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("arena")
	require.True(t, ok)
	assert.Equal(t, 5, got.Width())
}

func TestCatalogConcurrentPut(t *testing.T) {
	c := NewCatalog()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := NewFlatMap(string(rune('a'+i%26))+string(rune('0'+i/26)), 1, 1, 1, 0)
			if err != nil {
				t.Error(err)
				return
			}
			c.Put(m)
			c.Get(m.Name())
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, c.Len())
}
