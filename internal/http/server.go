// Package http exposes the dashboard over a JSON API. The handlers end at
// ChartSpec: rendering is the presentation adapter's job and never crosses
// into the core.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JIDAIN/bill/internal/log"
	"github.com/JIDAIN/bill/internal/session"
	"github.com/JIDAIN/bill/internal/source"
)

type Server struct {
	http.Server

	sessions *session.Manager
	logger   *log.Logger

	// Optional alternative to file upload; nil when the backend is "upload".
	sheetsSource source.RowSource
}

// NewServer wires the router and returns a server ready for ListenAndServe.
func NewServer(addr string, sessions *session.Manager, logger *log.Logger, sheetsSource source.RowSource) *Server {
	s := &Server{
		sessions:     sessions,
		logger:       logger.WithComponent(log.ComponentHTTP),
		sheetsSource: sheetsSource,
	}

	r := chi.NewRouter()
	r.Use(log.Middleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleEndSession)
			r.Post("/dataset", s.handleLoadDataset)
			r.Get("/charts", s.handleAllCharts)
			r.Get("/charts/{chartID}", s.handleChart)
			r.Patch("/charts/{chartID}", s.handleUpdateSelection)
		})
	})

	s.Addr = addr
	s.Handler = r
	s.ReadTimeout = 30 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16

	return s
}
