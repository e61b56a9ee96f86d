package pages

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageUpdateSerialized(t *testing.T) {
	p := NewPage("/out/index.html", "")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, p.Update(func(c string) (string, error) {
				return c + "x", nil
			}))
		}()
	}
	wg.Wait()

	assert.Len(t, p.Content(), 100)
}

func TestPageUpdateErrorKeepsContent(t *testing.T) {
	p := NewPage("/out/index.html", "keep")
	err := p.Update(func(string) (string, error) {
		return "dropped", errors.New("nope")
	})
	assert.Error(t, err)
	assert.Equal(t, "keep", p.Content())
}

func TestPageWriteMakesPageInert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	p := NewPage(path, "<html></html>")

	require.NoError(t, p.Write())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	assert.ErrorIs(t, p.Write(), ErrWritten)
	assert.ErrorIs(t, p.Update(func(c string) (string, error) { return c, nil }), ErrWritten)
}

func TestRegistry(t *testing.T) {
	a := NewPage("/out/a.html", "a")
	b := NewPage("/out/b.html", "b")
	r := NewRegistry(a, b)

	assert.Equal(t, 2, r.Len())
	assert.Same(t, b, r.Get(1))
	assert.Nil(t, r.Get(2))
	assert.Same(t, a, r.Lookup("/out/a.html"))
	assert.Nil(t, r.Lookup("/out/c.html"))

	r.Reset(nil)
	assert.Zero(t, r.Len())
}
