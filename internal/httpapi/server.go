package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playmate/internal/logging"
	"playmate/internal/metrics"
	"playmate/internal/quiz"
	"playmate/internal/recommend"
)

const maxBodyBytes = 1 << 20

// Recommender runs the catalog-checked recommendation pipeline.
type Recommender interface {
	Run(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// DirectRecommender produces catalog-free picks.
type DirectRecommender interface {
	Recommend(ctx context.Context, profileText string) (*recommend.DirectResult, error)
}

// MoviePicker fetches the movie shown with a quiz result.
type MoviePicker interface {
	Pick(ctx context.Context, result quiz.Result) (*quiz.Movie, error)
}

// Deps are the services behind the API. Nil services answer 503 on their
// routes.
type Deps struct {
	Recommender Recommender
	Direct      DirectRecommender
	Chat        recommend.TextGenerator
	Movies      MoviePicker
	Quiz        quiz.Quiz
	Metrics     *metrics.Recorder
	Gatherer    prometheus.Gatherer
	Token       string
	Logger      *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	bind     string
	deps     Deps
	logger   *slog.Logger
	validate *validator.Validate
	handler  http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// New builds a Server bound to bind. Start must be called to listen.
func New(bind string, deps Deps) *Server {
	if len(deps.Quiz.Questions) == 0 {
		deps.Quiz = quiz.MovieQuiz
	}
	s := &Server{
		bind:     bind,
		deps:     deps,
		logger:   logging.NewComponentLogger(deps.Logger, "httpapi"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(requireToken(s.deps.Token))
		r.Use(limitBody)
		r.Post("/recommendations", s.handleRecommend)
		r.Post("/direct", s.handleDirect)
		r.Get("/quiz", s.handleQuizQuestions)
		r.Post("/quiz", s.handleQuiz)
		r.Post("/chat", s.handleChat)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.mu.Lock()
	s.listener = listener
	s.server = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Args(logging.Error(err))...)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.Args(logging.String("address", listener.Addr().String()))...)
	return nil
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.deps.Metrics.ObserveHTTP(route, status, elapsed)
		s.logger.Debug("api request",
			logging.Args(
				logging.String("method", r.Method),
				logging.String("route", route),
				logging.Int("status", status),
				logging.Duration("elapsed", elapsed),
			)...,
		)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
