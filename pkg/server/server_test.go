package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toastate/hydrate/pkg/config"
)

func TestNewServer(t *testing.T) {
	c := config.DefaultConfiguration()
	c.OutDir = "/build"

	assert.NotNil(t, NewServer(c, 0))
	assert.NotNil(t, NewServer(nil, 9000))
}
