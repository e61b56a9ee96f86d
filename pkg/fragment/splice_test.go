package fragment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
)

func TestSplice(t *testing.T) {
	got := Splice(`<div id="header">`, "header", "<span>H</span>")
	if diff := cmp.Diff(`<div id="header"><span>H</span>`, got); diff != "" {
		t.Fatalf("splice mismatch (-want +got):\n%s", diff)
	}
}

func TestSplicePushesExistingContent(t *testing.T) {
	in := `<body><div id="app"><p>old</p></div></body>`
	got := Splice(in, "app", "<b>new</b>")
	assert.Equal(t, `<body><div id="app"><b>new</b><p>old</p></div></body>`, got)

	// A second splice nests right after the anchor again.
	got = Splice(got, "app", "<i>newer</i>")
	assert.Equal(t, `<body><div id="app"><i>newer</i><b>new</b><p>old</p></div></body>`, got)
}

func TestSpliceMissingAnchorUnchanged(t *testing.T) {
	in := `<div id="footer"></div><div id="headers"></div>`
	assert.Equal(t, in, Splice(in, "header", "<span>H</span>"))
	assert.False(t, HasAnchor(in, "header"))
}

func TestExtractProps(t *testing.T) {
	page := `<div data-header='{"x":1,"title":"Home"}' id="header"></div>`

	props, d := ExtractProps(page, "header")
	require.Nil(t, d)
	assert.Equal(t, Props{"x": int64(1), "title": "Home"}, props)

	assert.Equal(t, `<div data-header='{"x":1,"title":"Home"}' id="header"><span>H</span></div>`,
		Splice(page, "header", "<span>H</span>"))
}

func TestExtractPropsEntityEncoded(t *testing.T) {
	page := `<div data-nav="{&quot;open&quot;:true}" id="nav"></div>`
	props, d := ExtractProps(page, "nav")
	require.Nil(t, d)
	assert.Equal(t, Props{"open": true}, props)
}

func TestExtractPropsMissingBlob(t *testing.T) {
	props, d := ExtractProps(`<div id="header"></div>`, "header")
	assert.Nil(t, d)
	assert.Equal(t, Props{}, props)
}

func TestExtractPropsMalformed(t *testing.T) {
	props, d := ExtractProps(`<div data-header='{bad' id="header"></div>`, "header")
	assert.Equal(t, Props{}, props)
	require.NotNil(t, d)
	assert.Equal(t, diag.OpProps, d.Op)
	assert.Equal(t, "header", d.Path)
}

func TestExtractPropsNotAnObject(t *testing.T) {
	for _, blob := range []string{`[1,2]`, `null`, `3`} {
		props, _ := ExtractProps(`<div data-x='`+blob+`' id="x"></div>`, "x")
		assert.Equal(t, Props{}, props, blob)
	}
}

func TestExtractPropsMisplaced(t *testing.T) {
	props, d := ExtractProps(`<p id="header"></p><div data-header='{"x":1}' class="a"></div>`, "header")
	assert.Equal(t, Props{}, props)
	require.NotNil(t, d)
	assert.Equal(t, diag.OpProps, d.Op)
}

func TestExtractPropsNumbers(t *testing.T) {
	page := `<div data-counter='{"count":3,"ratio":0.5,"items":[1,{"n":2}]}' id="counter"></div>`

	props, d := ExtractProps(page, "counter")
	require.Nil(t, d)
	assert.Equal(t, Props{
		"count": int64(3),
		"ratio": 0.5,
		"items": []any{int64(1), map[string]any{"n": int64(2)}},
	}, props)
}

func TestExtractPropsTrailingData(t *testing.T) {
	props, d := ExtractProps(`<div data-x='{"a":1}{"b":2}' id="x"></div>`, "x")
	assert.Equal(t, Props{}, props)
	require.NotNil(t, d)
	assert.Equal(t, diag.OpProps, d.Op)
}

func TestPropsDumpIsLazy(t *testing.T) {
	calls := 0
	v := lazy(func() string {
		calls++
		return "dump"
	})

	// Debug is filtered out at the default level.
	tlogger.Debug("data", v)
	assert.Zero(t, calls)

	assert.Equal(t, "dump", v.String())
	assert.Equal(t, 1, calls)
}
