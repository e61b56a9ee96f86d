package relpath

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		target string
		from   string
		want   string
	}{
		{"same directory", "/w/out/app.js", "/w/out/index.html", "./app.js"},
		{"target nested below page", "/w/out/js/app.js", "/w/out/index.html", "./js/app.js"},
		{"page nested below target", "/w/out/app.css", "/w/out/a/b/page.html", "../../app.css"},
		{"sibling directories", "/w/out/css/main.css", "/w/out/blog/post.html", "../css/main.css"},
		{"deep to deep", "/w/out/assets/img/x/logo.svg", "/w/out/docs/v1/guide/intro.html", "../../../assets/img/x/logo.svg"},
		{"directory target", "/w/out/assets", "/w/out/blog/post.html", "../assets"},
		{"same file", "/w/out/index.html", "/w/out/index.html", "./index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.target, tt.from))
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"/srv/site/js/app.js", "/srv/site/index.html"},
		{"/srv/site/js/vendor/lib.js", "/srv/site/docs/a/b.html"},
		{"/srv/site/style.css", "/srv/site/x/y/z/page.html"},
		{"/srv/site/img/a.png", "/srv/site/img/gallery.html"},
	}

	for _, p := range pairs {
		rel := Resolve(p[0], p[1])
		joined := path.Join(path.Dir(p[1]), rel)
		assert.Equal(t, p[0], joined, "resolve(%q, %q) = %q", p[0], p[1], rel)
	}
}

func TestResolvePositionalComparison(t *testing.T) {
	// "x" sits at index 3 in both paths although they diverged at index 2,
	// so it counts as shared.
	got := Resolve("/r/a/x/t.js", "/r/b/x/p.html")
	assert.Equal(t, "../a/t.js", got)
}
