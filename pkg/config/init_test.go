package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	c := DefaultConfiguration()
	c.RootDir = root
	c.OutDir = "/test/prod"
	c.HTMLFrom = "/test/src/pages"
	c.HTMLOut = "/"
	c.CSSFrom = "/test/src/styles"
	c.AssetsFrom = "/test/src/files"
	c.AssetsOut = "/assets"
	c.JSOut = "/js"
	c.Store = &StoreConfiguration{StateFile: "store/state.json", ProviderTemplate: "store/provider.tpl"}

	p, err := c.Resolve()
	require.NoError(t, err)

	out := filepath.Join(root, "test", "prod")
	assert.Equal(t, out, p.Out)
	assert.Equal(t, filepath.Join(root, "test", "src", "pages"), p.HTMLFrom)
	assert.Equal(t, out, p.HTMLOut)
	assert.Equal(t, filepath.Join(out, "assets"), p.AssetsOut)
	assert.Equal(t, filepath.Join(out, "js"), p.JSOut)
	assert.Empty(t, p.CSSOut)
	assert.Equal(t, p.CSSFrom, p.StylesRoot())
	assert.Equal(t, p.AssetsOut, p.AssetsRoot())
	assert.Equal(t, filepath.Join(root, "store", "state.json"), p.StoreState)
}

func TestResolveRequiresOutDir(t *testing.T) {
	c := DefaultConfiguration()
	_, err := c.Resolve()
	assert.ErrorIs(t, err, ErrMissingOutDir)
}

func TestResolveExpandsEnv(t *testing.T) {
	t.Setenv("HYDRATE_OUT", "dist")
	c := DefaultConfiguration()
	c.RootDir = t.TempDir()
	c.OutDir = "$HYDRATE_OUT"

	p, err := c.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.RootDir, "dist"), p.Out)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydrate.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"out_dir":"/dist","galleries":["cars","images/dbz"],"minify":{"html":false,"css":true}}`), 0644))

	c := DefaultConfiguration()
	require.NoError(t, Load(path, c))
	assert.Equal(t, "/dist", c.OutDir)
	assert.Equal(t, []string{"cars", "images/dbz"}, c.Galleries)
	assert.False(t, c.Minify.HTML)
	assert.True(t, c.Minify.CSS)
	assert.Equal(t, "galleries", c.CatalogName)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out_dir: /dist\nhtml_from: /src/pages\nstore:\n  state_file: state.json\n  provider_template: provider.tpl\nserve_config:\n  port: 9000\n"), 0644))

	c := DefaultConfiguration()
	require.NoError(t, Load(path, c))
	assert.Equal(t, "/src/pages", c.HTMLFrom)
	require.NotNil(t, c.Store)
	assert.Equal(t, "provider.tpl", c.Store.ProviderTemplate)
	assert.Equal(t, 9000, c.ServeConfig.Port)
	assert.True(t, c.Minify.HTML)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydrate.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"out_dir":`), 0644))
	assert.Error(t, Load(path, DefaultConfiguration()))
}
