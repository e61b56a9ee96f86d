package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/hydrate/pkg/diag"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "cars", "audi.jpg"))
	touch(t, filepath.Join(root, "cars", "bmw.m3.png"))
	touch(t, filepath.Join(root, "images", "dbz", "goku.webp"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cars", "nested"), 0755))

	report := &diag.Report{}
	c := Build([]string{"cars", "images/dbz", "missing"}, root, report)

	assert.Equal(t, []Entry{
		{Name: "audi", Path: "cars/audi.jpg"},
		{Name: "bmw.m3", Path: "cars/bmw.m3.png"},
	}, c["cars"])
	assert.Equal(t, []Entry{{Name: "goku", Path: "images/dbz/goku.webp"}}, c["images/dbz"])
	assert.Equal(t, []Entry{}, c["missing"])

	missing := report.ByOp(diag.OpCatalog)
	require.Len(t, missing, 1)
	assert.Equal(t, "missing", missing[0].Path)
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "cars", "audi.jpg"))

	require.NoError(t, Write([]string{"cars"}, root, "", nil))

	data, err := os.ReadFile(filepath.Join(root, "galleries.data.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cars":[{"name":"audi","path":"cars/audi.jpg"}]}`, string(data))

	var decoded Catalog
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded["cars"], 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "galleries.data.json", FileName(""))
	assert.Equal(t, "photos.data.json", FileName("photos"))
}
