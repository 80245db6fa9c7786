package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/breez/feechart/chart"
	"github.com/breez/feechart/shared"
	"github.com/caddyserver/certmagic"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ChartService interface {
	FeesChart(ctx context.Context, backend chart.Backend, req *chart.Request) (*chart.Result, error)
}

type Server struct {
	address         string
	certmagicDomain string
	nodes           shared.NodesService
	charts          ChartService
	log             *zap.Logger
	router          *mux.Router

	// Identical chart requests for the same node in flight at the same time
	// share a single computation.
	chartGroup singleflight.Group

	mtx sync.Mutex
	srv *http.Server
}

func NewServer(
	address string,
	certmagicDomain string,
	nodes shared.NodesService,
	charts ChartService,
	log *zap.Logger,
) *Server {
	s := &Server{
		address:         address,
		certmagicDomain: certmagicDomain,
		nodes:           nodes,
		charts:          charts,
		log:             log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.authenticate)
	v1.HandleFunc("/charts/fees", s.handleFeesChart).Methods(http.MethodGet)
	return r
}

// Handler returns the http handler serving the api.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves the api until Stop is
// called.
func (s *Server) Start() error {
	var lis net.Listener
	if s.certmagicDomain == "" {
		var err error
		lis, err = net.Listen("tcp", s.address)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	} else {
		tlsConfig, err := certmagic.TLS([]string{s.certmagicDomain})
		if err != nil {
			return fmt.Errorf("failed to run certmagic: %w", err)
		}
		lis, err = tls.Listen("tcp", s.address, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mtx.Lock()
	s.srv = srv
	s.mtx.Unlock()

	s.log.Info("http api listening", zap.String("address", lis.Addr().String()), zap.Bool("tls", s.certmagicDomain != ""))
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server, waiting for running requests until
// ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mtx.Lock()
	srv := s.srv
	s.mtx.Unlock()
	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
