package server

import (
	"context"
	"strconv"

	"github.com/toastate/hydrate/internal/server"
	"github.com/toastate/hydrate/pkg/config"
)

type Server interface {
	Start(ctx context.Context, withBuilder bool) error
	TriggerReload()
}

// NewServer returns a development server for conf. A zero port uses the
// configured one.
func NewServer(conf *config.Configuration, port int) Server {
	if conf == nil {
		conf = config.Config
	}
	if port <= 0 {
		port = conf.ServeConfig.Port
	}
	return server.NewServer(conf, strconv.Itoa(port), conf.ServeConfig.Redirect404)
}
