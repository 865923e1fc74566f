// Package httpapi serves answer cards and quiz sessions as JSON.
package httpapi

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/store"
)

// Options configure a Server.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin without credentials.
	AllowedOrigins []string

	// RequestTimeout bounds every request.
	RequestTimeout time.Duration

	// MaxSessions caps the live sessions kept in memory; the oldest is
	// dropped first.
	MaxSessions int

	// Logger receives request and warning logs. Defaults to stderr.
	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{
		RequestTimeout: 15 * time.Second,
		MaxSessions:    1000,
	}
}

// Server holds one bank and the sessions played over it.
type Server struct {
	bank *quiz.Bank
	repo store.EventRepo
	opts Options
	log  *log.Logger

	// mu guards the session index and rng only; each session has its own
	// lock for the requests played on it.
	mu       sync.Mutex
	sessions map[string]*liveSession
	order    []string
	rng      *rand.Rand
}

// liveSession serializes the requests made on one session.
type liveSession struct {
	mu   sync.Mutex
	sess *session.Session
}

// New creates a server. repo may be nil, in which case nothing is persisted.
func New(bank *quiz.Bank, repo store.EventRepo, opts Options) *Server {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultOptions().MaxSessions
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[httpapi] ", log.LstdFlags)
	}
	now := uint64(time.Now().UnixNano())
	return &Server{
		bank:     bank,
		repo:     repo,
		opts:     opts,
		log:      logger,
		sessions: make(map[string]*liveSession),
		rng:      rand.New(rand.NewPCG(now, now>>17)),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bank", s.getBank)
		r.Get("/items/{itemID}/view", s.itemView)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/answer", s.answer)
			r.Post("/next", s.next)
			r.Get("/summary", s.summary)
		})
	})
	return r
}

func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowCredentials = true
	}
	return opts
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Printf("listening on %s (bank %q, %d questions)", addr, s.bank.Title, len(s.bank.Items))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) reporter() session.Reporter {
	if s.repo == nil {
		return session.NopReporter{}
	}
	return session.NewEventReporter(s.repo)
}

// track stores sess, evicting the oldest sessions over the cap. Eviction
// shifts order in place so its backing array never grows past the cap.
func (s *Server) track(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = &liveSession{sess: sess}
	s.order = append(s.order, sess.ID)
	if excess := len(s.order) - s.opts.MaxSessions; excess > 0 {
		for _, id := range s.order[:excess] {
			delete(s.sessions, id)
		}
		s.order = slices.Delete(s.order, 0, excess)
	}
}

// lookup returns the live session with id.
func (s *Server) lookup(id string) (*liveSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	return live, ok
}

// warn logs a reporter failure and returns its message for the response.
func (s *Server) warn(err error) string {
	if err == nil {
		return ""
	}
	s.log.Printf("warning: %v", err)
	return err.Error()
}
