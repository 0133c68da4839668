// Package httpapi is the JSON/HTTP transport of the MindEase server:
// routing, the middleware chain, the authorization gate and the mapping
// from error kinds to responses.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mindease/internal/logging"
	"github.com/dmitrijs2005/mindease/internal/server/metrics"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/dmitrijs2005/mindease/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	limiterSweep      = time.Minute
	limiterIdle       = 10 * time.Minute
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

type MoodService interface {
	Track(ctx context.Context, userID string, mood models.Mood, note string) (*services.MoodResult, error)
	List(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
}

type JournalService interface {
	Save(ctx context.Context, userID, content string) (*models.JournalEntry, error)
	List(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
}

type CompanionService interface {
	Reply(ctx context.Context, message string) (string, error)
}

type WellnessService interface {
	Snapshot(ctx context.Context) (*services.WellnessSnapshot, error)
}

// Pinger reports store liveness for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ UserService      = (*services.UserService)(nil)
	_ MoodService      = (*services.MoodService)(nil)
	_ JournalService   = (*services.JournalService)(nil)
	_ CompanionService = (*services.CompanionService)(nil)
	_ WellnessService  = (*services.WellnessService)(nil)
)

type Services struct {
	Users     UserService
	Moods     MoodService
	Journals  JournalService
	Companion CompanionService
	Wellness  WellnessService
	Health    Pinger
}

type Options struct {
	CORSOrigins   []string
	AuthRateLimit float64
	AuthRateBurst int
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	moods     MoodService
	journals  JournalService
	companion CompanionService
	wellness  WellnessService
	health    Pinger
	limiter   *RateLimiter
	cors      *CORS
	handler   http.Handler
}

func NewServer(address string, l logging.Logger, svc Services, opts Options) *Server {
	l = l.With("module", "http_server")
	s := &Server{
		address:   address,
		logger:    l,
		users:     svc.Users,
		moods:     svc.Moods,
		journals:  svc.Journals,
		companion: svc.Companion,
		wellness:  svc.Wellness,
		health:    svc.Health,
		limiter:   NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst, l),
		cors:      NewCORS(opts.CORSOrigins),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
	r.Use(metrics.InstrumentHandler)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	authAPI := api.PathPrefix("/auth").Subrouter()
	authAPI.Use(s.limiter.Handler)
	authAPI.HandleFunc("/register", s.register).Methods(http.MethodPost)
	authAPI.HandleFunc("/login", s.login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authenticate)
	protected.HandleFunc("/mood", s.trackMood).Methods(http.MethodPost)
	protected.HandleFunc("/mood", s.listMoods).Methods(http.MethodGet)
	protected.HandleFunc("/journal", s.saveJournal).Methods(http.MethodPost)
	protected.HandleFunc("/journal", s.listJournals).Methods(http.MethodGet)
	protected.HandleFunc("/chat", s.chat).Methods(http.MethodPost)
	protected.HandleFunc("/wellness", s.getWellness).Methods(http.MethodGet)

	return s.requestID(s.logRequests(s.recoverPanics(s.cors.Handler(r))))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.limiter.RunCleanup(ctx, limiterSweep, limiterIdle)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
