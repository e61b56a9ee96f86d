package pages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/hydrate/pkg/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "pages")
	out := filepath.Join(root, "out")

	writeFile(t, filepath.Join(src, "index.html"), `<img src="{assets}/logo.svg">`)
	writeFile(t, filepath.Join(src, "blog", "post.html"), `<img src="{assets}/logo.svg"><img src="{assets}/a.png">`)
	writeFile(t, filepath.Join(src, "notes.txt"), "not a page")

	report := &diag.Report{}
	found := Discover(DiscoverOptions{
		From:       src,
		Out:        out,
		AssetsRoot: filepath.Join(out, "assets"),
		Sink:       report,
	})

	require.Len(t, found, 2)
	assert.Zero(t, report.Len())

	// Lexical walk order.
	assert.Equal(t, filepath.Join(out, "blog", "post.html"), found[0].Path())
	assert.Equal(t, `<img src="../assets/logo.svg"><img src="../assets/a.png">`, found[0].Content())
	assert.Equal(t, filepath.Join(out, "index.html"), found[1].Path())
	assert.Equal(t, `<img src="./assets/logo.svg">`, found[1].Content())

	// The whole tree is copied, pages or not.
	_, err := os.Stat(filepath.Join(out, "notes.txt"))
	assert.NoError(t, err)
}

func TestDiscoverSkipsUnreadablePage(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")

	writeFile(t, filepath.Join(src, "ok.html"), "<p>ok</p>")
	writeFile(t, filepath.Join(src, "empty.html"), "")

	report := &diag.Report{}
	found := Discover(DiscoverOptions{From: src, Out: out, Sink: report})

	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(out, "ok.html"), found[0].Path())

	reads := report.ByOp(diag.OpRead)
	require.Len(t, reads, 1)
	assert.Equal(t, filepath.Join(out, "empty.html"), reads[0].Path)
}

func TestDiscoverMissingRoots(t *testing.T) {
	report := &diag.Report{}
	found := Discover(DiscoverOptions{From: "", Out: t.TempDir(), Sink: report})

	assert.Empty(t, found)
	discover := report.ByOp(diag.OpDiscover)
	require.Len(t, discover, 1)
	assert.ErrorIs(t, discover[0], ErrMissingRoots)
}

func TestDiscoverMinifiesKeepingMarkers(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")

	writeFile(t, filepath.Join(src, "index.html"), "<html>\n  <head>\n    <!-- {styles} -->\n  </head>\n  <body>\n    <div data-header='{\"x\":1}' id=\"header\"></div>\n  </body>\n</html>\n")

	found := Discover(DiscoverOptions{From: src, Out: out, Minifier: NewMinifier()})
	require.Len(t, found, 1)

	content := found[0].Content()
	assert.Contains(t, content, "<!-- {styles} -->")
	assert.Contains(t, content, `id="header">`)
	assert.NotContains(t, content, "\n  ")
}
