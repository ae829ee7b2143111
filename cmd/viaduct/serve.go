package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/viaduct-ui/viaduct/pkg/bridge"
	"github.com/viaduct-ui/viaduct/pkg/middleware"
	"github.com/viaduct-ui/viaduct/pkg/nav"
	"github.com/viaduct-ui/viaduct/pkg/route"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		basePath  string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview application",
		Long: `Serve a preview application backed by the demo route table.

Endpoints:
  /ws       navigation WebSocket
  /metrics  Prometheus metrics
  /static/  asset bundle (when --static is set)
  /*        SPA entry page`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ws := bridge.NewHandler(bridge.Config{
				Views:     demoViews(),
				BasePath:  basePath,
				Logger:    logger,
				Observers: []nav.Observer{middleware.NewMetrics(), middleware.NewTracing()},
			})

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(chimw.Recoverer)
			r.Handle("/ws", ws)
			r.Handle("/metrics", promhttp.Handler())
			if staticDir != "" {
				r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
			}
			r.NotFound(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				fmt.Fprint(w, indexPage)
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}
			success("listening on %s", addr)
			info("websocket at ws://%s/ws", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&basePath, "base", "", "Base path prefix for all routes")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of built assets to serve under /static/")

	return cmd
}

// demoViews is the route table the preview server runs.
func demoViews() *route.Table {
	users := route.New().
		Layout(route.Static("users-shell")).
		View("/", route.Static("user-list")).
		View("/:id", route.Static("user-detail"), route.WithParams("id"))

	return route.New().
		Layout(route.Static("app-shell")).
		View("/", route.Static("home")).
		Child("/users", users).
		View("/files/*path", route.Static("file-browser")).
		View("/about", route.Static("about"))
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Viaduct preview</title></head>
<body>
<h1>Viaduct preview</h1>
<p>Connect a client to <code>/ws</code> to drive the navigation engine.</p>
</body>
</html>
`
