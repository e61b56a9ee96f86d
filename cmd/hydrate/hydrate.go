package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/toastate/hydrate/internal/server"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/builder"
	"github.com/toastate/hydrate/pkg/config"
	pubserver "github.com/toastate/hydrate/pkg/server"
)

var CLI struct {
	Build CommandBuild `cmd:"" aliases:"b" help:"Builds or rebuilds the project."`
	Watch CommandWatch `cmd:"" aliases:"w" help:"Builds then rebuilds on every source change."`
	Serve CommandServe `cmd:"" aliases:"s" help:"Run a live dev server."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

type CommandBuild struct {
	RootDir string `help:"Project root, source paths are relative to it." type:"existingdir"`
	OutDir  string `help:"Build output, relative to the project root."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandWatch struct {
	RootDir string `help:"Project root, source paths are relative to it." type:"existingdir"`
	OutDir  string `help:"Build output, relative to the project root."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandServe struct {
	RootDir string `help:"Project root, source paths are relative to it." type:"existingdir"`
	OutDir  string `help:"Build output, relative to the project root."`
	Build   bool   `negatable:"" default:"true" help:"Build and rebuild on changes."`

	Port int `short:"p" help:"Listener port"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.UsageOnError())

	err := config.Init(CLI.ConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	err = ctx.Run(ctx)
	if err != nil {
		tlogger.Error("err", err)
		os.Exit(1)
	}
}

func applyVerbose(v int) {
	switch v {
	case 0:
		tlogger.ApplyLogLevel("info")
	case 1:
		tlogger.ApplyLogLevel("debug")
	default:
		tlogger.ApplyLogLevel("all")
	}
}

// applyDirs lets flags override the configuration file.
func applyDirs(rootDir, outDir string) *config.Configuration {
	if rootDir != "" {
		config.Config.RootDir = rootDir
	}
	if outDir != "" {
		config.Config.OutDir = outDir
	}
	return config.Config
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (r *CommandBuild) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	buildtool := builder.NewBuilder(applyDirs(r.RootDir, r.OutDir))
	return buildtool.Build()
}

func (r *CommandWatch) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	buildtool := builder.NewBuilder(applyDirs(r.RootDir, r.OutDir))
	err := buildtool.Build()
	if err != nil {
		return err
	}

	sigCtx, cancel := signalContext()
	defer cancel()
	return server.Rebuild(sigCtx, buildtool, nil)
}

func (r *CommandServe) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	serv := pubserver.NewServer(applyDirs(r.RootDir, r.OutDir), r.Port)

	sigCtx, cancel := signalContext()
	defer cancel()
	return serv.Start(sigCtx, r.Build)
}
