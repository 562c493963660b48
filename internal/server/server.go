package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
	"github.com/eduplex/perfmetrics/internal/server/middleware"
	"github.com/eduplex/perfmetrics/internal/services"
)

// Store is the write side of the remote metric store.
type Store interface {
	Write(ctx context.Context, batch []model.Metric) error
	Ping(ctx context.Context) error
}

// Reports builds the operator-facing 24h summary.
type Reports interface {
	BuildReport(ctx context.Context) (*services.Report, error)
}

type Server struct {
	Srv     *http.Server
	store   Store
	reports Reports
	hashKey string
	logger  *zerolog.Logger
}

func NewServer(addr string, store Store, reports Reports, hashKey string) *Server {
	nop := zerolog.Nop()

	r := chi.NewRouter()
	s := &Server{
		Srv:     &http.Server{Addr: addr, Handler: r},
		store:   store,
		reports: reports,
		hashKey: hashKey,
		logger:  &nop,
	}

	r.Use(logger.Middleware)
	r.Use(middleware.Decompress)

	r.Route("/api/performance-metrics", func(r chi.Router) {
		r.Post("/", s.ingestHandler)
		r.Get("/report", s.reportHandler)
	})
	r.Get("/ping", s.pingHandler)

	r.NotFound(s.notFoundHandler)

	return s
}

func (s *Server) Run(ctx context.Context, runner *errgroup.Group) {
	logger.Log.Info().Msg("Http server started.")

	runner.Go(func() error {
		if err := s.Srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Http server stopped.")

	nctx, stop := context.WithTimeout(ctx, time.Second*10)
	defer stop()

	return s.Srv.Shutdown(nctx)
}

func (s *Server) GetRouter() *chi.Mux {
	return s.Srv.Handler.(*chi.Mux)
}
