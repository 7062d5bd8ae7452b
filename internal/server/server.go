package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/tjjh89017/readflag/internal/ctrl"
	"github.com/tjjh89017/readflag/internal/entity"
	"github.com/tjjh89017/readflag/internal/metrics"
)

var DefaultSet = wire.NewSet(
	New,
	wire.Bind(new(FlagService), new(*ctrl.FlagController)),
)

type FlagService interface {
	Strict() bool
	Get(ctx context.Context, req *entity.GetReadRequest) (*string, error)
	Set(ctx context.Context, req *entity.SetReadRequest) (ctrl.Ack, error)
}

type Server struct {
	router  *mux.Router
	handler http.Handler
	flags   FlagService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func New(flags FlagService, metrics *metrics.Metrics, logger *zerolog.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		flags:   flags,
		metrics: metrics,
		logger:  logger.With().Str("component", "http").Logger(),
	}

	s.routes()
	s.handler = s.middleware(s.router)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// middleware wraps the whole router rather than using router.Use, which
// mux only applies to matched routes.
func (s *Server) middleware(next http.Handler) http.Handler {
	next = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
	next = hlog.RequestIDHandler("req_id", "X-Request-Id")(next)
	return hlog.NewHandler(s.logger)(next)
}

func (s *Server) routes() {
	s.router.NotFoundHandler = s.instrument("not-found", http.NotFound)
	s.router.MethodNotAllowedHandler = s.instrument("method-not-allowed", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/get-read", s.instrument("get-read", s.getRead)).Methods(http.MethodGet)
	api.Handle("/set-read", s.instrument("set-read", s.setRead)).Methods(http.MethodGet, http.MethodPost)

	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

func (s *Server) instrument(name string, h http.HandlerFunc) http.Handler {
	counter := s.metrics.Requests.MustCurryWith(prometheus.Labels{"handler": name})
	return promhttp.InstrumentHandlerCounter(counter, h)
}
