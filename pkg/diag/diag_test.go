package diag

import (
	"errors"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticError(t *testing.T) {
	d := New(OpRead, "/out/index.html", fs.ErrNotExist)
	assert.Equal(t, "read /out/index.html: file does not exist", d.Error())
	assert.True(t, errors.Is(d, fs.ErrNotExist))

	d = New(OpDiscover, "", errors.New("html_from and html_out are required"))
	assert.Equal(t, "discover: html_from and html_out are required", d.Error())
}

func TestReportConcurrentAdd(t *testing.T) {
	r := &Report{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			op := OpRead
			if i%2 == 0 {
				op = OpRender
			}
			r.Add(New(op, "", errors.New("boom")))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, r.Len())
	assert.Len(t, r.ByOp(OpRender), 25)
	assert.Len(t, r.ByOp(OpRead), 25)

	r.Add(nil)
	assert.Equal(t, 50, r.Len())

	r.Reset()
	assert.Zero(t, r.Len())
}
