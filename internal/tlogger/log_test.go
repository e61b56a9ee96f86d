package tlogger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsAndOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stdout)

	Debug("msg", "hidden")
	Info("builder", "pages", "msg", "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "builder=pages")
	assert.Contains(t, out, "msg=shown")
}

func TestLevelOption(t *testing.T) {
	for _, lvl := range []string{"debug", "warn", "error", "all", "none", "info", ""} {
		assert.NotNil(t, levelOption(lvl))
	}
}
