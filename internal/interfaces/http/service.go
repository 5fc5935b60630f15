package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/core/application"
	"github.com/invisible-transfer/invisible-daemon/internal/interfaces"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type ServiceOpts struct {
	Address            string
	CORSAllowedOrigins []string

	CommitmentSvc application.CommitmentService
	QuoteSvc      application.QuoteService
}

func (o ServiceOpts) validate() error {
	if _, _, err := net.SplitHostPort(o.Address); err != nil {
		return fmt.Errorf("invalid listening address %s: %s", o.Address, err)
	}
	if o.CommitmentSvc == nil {
		return fmt.Errorf("commitment app service must not be null")
	}
	if o.QuoteSvc == nil {
		return fmt.Errorf("quote app service must not be null")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Info("http interface stopped")
}

// NewRouter returns the handler serving every route of the http interface.
func NewRouter(opts ServiceOpts) http.Handler {
	h := newHandler(opts.CommitmentSvc, opts.QuoteSvc)

	origins := opts.CORSAllowedOrigins
	if len(origins) <= 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler)

	r.Get("/", h.info)
	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-hash", h.generate)
		r.Post("/verify-transaction", h.verify)
		r.Post("/verify-opening", h.verifyOpening)
		r.Get("/transaction-status/{hash}", h.status)
		r.Get("/pending-transfers/{address}", h.pending)
		r.Post("/claim-transaction", h.claim)
		r.Post("/cancel-transaction", h.cancel)
		r.Post("/uniswap/quote", h.quote)
		r.Get("/transactions", h.list)
		r.Get("/stats", h.stats)
		r.Get("/user-stats/{address}", h.participantStats)
	})

	return r
}
