package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/services"
)

// Server serves the public JSON API.
type Server struct {
	address    string
	logger     logging.Logger
	users      *services.UserService
	notes      *services.NoteService
	jwtSecret  []byte
	corsOrigin string
}

func NewServer(address string, l logging.Logger, us *services.UserService, ns *services.NoteService, secretKey, corsOrigin string) *Server {
	return &Server{
		address:    address,
		logger:     l.With("module", "rest_server"),
		users:      us,
		notes:      ns,
		jwtSecret:  []byte(secretKey),
		corsOrigin: corsOrigin,
	}
}

// Handler builds the route table. Protected routes declare their allowed
// role set here, statically; note deletion is the only privileged-only
// operation.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	anyRole := s.RequireRole(models.RoleStandard, models.RolePrivileged)
	privilegedOnly := s.RequireRole(models.RolePrivileged)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/resend-otp", s.handleResendOTP)
	mux.HandleFunc("POST /api/auth/verify-otp", s.handleVerifyOTP)
	mux.Handle("GET /api/auth/profile", s.Authenticate(anyRole(http.HandlerFunc(s.handleProfile))))

	mux.Handle("GET /api/notes", s.Authenticate(anyRole(http.HandlerFunc(s.handleListNotes))))
	mux.Handle("POST /api/notes", s.Authenticate(anyRole(http.HandlerFunc(s.handleCreateNote))))
	mux.Handle("GET /api/notes/{id}", s.Authenticate(anyRole(http.HandlerFunc(s.handleGetNote))))
	mux.Handle("PUT /api/notes/{id}", s.Authenticate(anyRole(http.HandlerFunc(s.handleUpdateNote))))
	mux.Handle("DELETE /api/notes/{id}", s.Authenticate(privilegedOnly(http.HandlerFunc(s.handleDeleteNote))))

	return s.cors(s.logRequests(mux))
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
