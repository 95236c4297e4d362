// Package fakeapi serves the catalog REST contract from memory.
//
// It backs `bookverse fake-api` for local development and gives the client
// packages a real HTTP peer in tests.
package fakeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/http/response"
)

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Wrapped serves payloads inside {"success":..,"data":..} envelopes.
	Wrapped bool
	// Latency delays every API response, to make loading states visible.
	Latency time.Duration
	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string
}

// Server is the HTTP handler for the catalog API mounted at /api.
type Server struct {
	router  *chi.Mux
	catalog *Catalog
	rw      response.Writer
	logger  *slog.Logger
	latency time.Duration

	mu       sync.Mutex
	failures []failure
	requests int
}

type failure struct {
	message string
	status  int
}

// New creates a server over catalog.
func New(catalog *Catalog, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := response.Bare
	if opts.Wrapped {
		mode = response.Wrapped
	}

	s := &Server{
		router:  chi.NewRouter(),
		catalog: catalog,
		rw:      response.Writer{Logger: logger, Mode: mode},
		logger:  logger,
		latency: opts.Latency,
	}

	s.setupMiddleware(opts.AllowedOrigins)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Catalog returns the backing store.
func (s *Server) Catalog() *Catalog {
	return s.catalog
}

// FailNext makes the next n API requests fail with status and message.
func (s *Server) FailNext(n int, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range n {
		s.failures = append(s.failures, failure{status: status, message: message})
	}
}

// Requests returns how many API requests were served, failed ones included.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if len(origins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.rw.Success(w, map[string]string{"status": "ok"})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.injectFailures)
		r.Use(s.delay)

		r.Get("/genres", s.handleListGenres)
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleCreateBook)
			r.Get("/genre/{genreId}", s.handleListBooksByGenre)
			r.Put("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
		})
	})
}

// requestLogger logs one line per request with the status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			s.rw.Error(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 {
			t := time.NewTimer(s.latency)
			select {
			case <-t.C:
			case <-r.Context().Done():
				t.Stop()
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListBooks(w http.ResponseWriter, _ *http.Request) {
	s.rw.Success(w, s.catalog.Books())
}

func (s *Server) handleListGenres(w http.ResponseWriter, _ *http.Request) {
	s.rw.Success(w, s.catalog.Genres())
}

func (s *Server) handleListBooksByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, ok := s.pathID(w, r, "genreId")
	if !ok {
		return
	}
	books, err := s.catalog.BooksByGenre(genreID)
	if err != nil {
		s.rw.HandleError(w, err)
		return
	}
	s.rw.Success(w, books)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in domain.BookInput
	if !s.decode(w, r, &in) {
		return
	}
	book, err := s.catalog.Create(in)
	if err != nil {
		s.rw.HandleError(w, err)
		return
	}
	s.logger.Info("book created", "book", book.String())
	s.rw.Created(w, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var u domain.BookUpdate
	if !s.decode(w, r, &u) {
		return
	}
	book, err := s.catalog.Update(id, u)
	if err != nil {
		s.rw.HandleError(w, err)
		return
	}
	s.logger.Info("book updated", "book", book.String())
	s.rw.Success(w, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.Delete(id); err != nil {
		s.rw.HandleError(w, err)
		return
	}
	s.logger.Info("book deleted", "id", id)
	response.NoContent(w)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.rw.HandleError(w, errors.Validationf("invalid %s: %q", param, raw))
		return 0, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.rw.HandleError(w, errors.Validationf("invalid request body: %v", err))
		return false
	}
	return true
}
