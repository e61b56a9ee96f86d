package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toastate/hydrate/internal/metrics"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/builder"
	"github.com/toastate/hydrate/pkg/config"
)

//go:embed livereload.html
var liveReloadScript []byte

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		w.WriteHeader(500)
	},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	port         string
	override404  string
	reloadBroker *Broker
	buildtool    *builder.Builder
	registry     *prometheus.Registry
}

func (s *Server) TriggerReload() {
	s.reloadBroker.Publish()
}

func NewServer(conf *config.Configuration, port string, override404 string) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		port:         port,
		override404:  override404,
		reloadBroker: newBroker(),
		registry:     reg,
		buildtool: builder.NewBuilder(conf, &builder.BuilderOpts{
			Recorder: metrics.NewPrometheusRecorder(reg),
		}),
	}

	return s
}

// Start serves the output directory until ctx is done. With withBuilder, the
// project is built first and rebuilt on every source change, reloading the
// connected pages.
func (s *Server) Start(ctx context.Context, withBuilder bool) error {
	err := s.buildtool.Init()
	if err != nil {
		return err
	}

	go s.reloadBroker.Start()
	defer s.reloadBroker.Stop()

	if withBuilder {
		err = s.buildtool.Build()
		if err != nil {
			return err
		}

		go func() {
			if err := Rebuild(ctx, s.buildtool, s.TriggerReload); err != nil {
				tlogger.Error("msg", "Rebuilds stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.port)

	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/__internal/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/__internal/livereload", s.livereloadHandler)
	r.PathPrefix("/").HandlerFunc(s.fileServer(s.buildtool.OutDir(), s.override404))
	return r
}

// lookup finds the file serving upath below dir: the file itself, then
// upath.html, then upath/index.html.
func lookup(dir, upath string) (string, error) {
	const indexPage = "index.html"

	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean(upath)))
	for _, candidate := range []string{fullName, fullName + ".html", filepath.Join(fullName, indexPage)} {
		info, err := os.Stat(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		if !info.IsDir() {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *Server) fileServer(dir string, override404 string) func(http.ResponseWriter, *http.Request) {
	if override404 != "" && !strings.HasPrefix(override404, "/") {
		override404 = "/" + override404
	}

	return func(w http.ResponseWriter, r *http.Request) {
		upath := r.URL.Path
		if !strings.HasPrefix(upath, "/") {
			upath = "/" + upath
		}

		status := http.StatusOK
		fullName, err := lookup(dir, upath)
		if errors.Is(err, os.ErrNotExist) && override404 != "" && upath != override404 {
			status = http.StatusNotFound
			fullName, err = lookup(dir, override404)
		}
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				w.WriteHeader(404)
				w.Write([]byte("404 page not found"))
				return
			}
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file: " + err.Error()))
			return
		}

		content, err := os.Open(fullName)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file"))
			return
		}
		defer content.Close()

		ctype := mime.TypeByExtension(filepath.Ext(fullName))
		if ctype == "" {
			// read a chunk to decide between utf-8 text and binary
			var buf [512]byte
			n, _ := io.ReadFull(content, buf[:])
			ctype = http.DetectContentType(buf[:n])
			_, err := content.Seek(0, io.SeekStart) // rewind to output whole file
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't seek file: " + err.Error()))
				return
			}
		}
		w.Header().Set("Content-Type", ctype)
		w.WriteHeader(status)
		io.Copy(w, content)
		if strings.HasPrefix(ctype, "text/html") {
			_, err = w.Write(liveReloadScript)
			if err != nil {
				tlogger.Error("msg", "could not live reload", "error", err)
			}
		}
	}
}

func (s *Server) livereloadHandler(w http.ResponseWriter, r *http.Request) {
	tlogger.Debug("msg", "WS Established")

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	// Reading is the only way to notice the page went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	waitCh := s.reloadBroker.Subscribe()
	defer s.reloadBroker.Unsubscribe(waitCh)

	select {
	case _, ok := <-waitCh:
		if !ok {
			return
		}
		err = c.WriteMessage(websocket.TextMessage, []byte("reload"))
		if err != nil {
			tlogger.Warn("msg", "Reload socket error", "error", err)
		}
	case <-gone:
	}
}
