package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avask/interview-lobby/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config        *Config
	repo          *repository.GORMRepository
	db            *gorm.DB
	authService   *AuthService
	authEndpoints *AuthEndpoints
	roomEndpoints *RoomEndpoints
	noteEndpoints *NoteEndpoints
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(repo *repository.GORMRepository, db *gorm.DB) {
	s.repo = repo
	s.db = db
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.config.JWT.Secret != "" && s.repo != nil {
		s.authService = NewAuthService(s.repo, s.config.JWT.Secret)
		s.authEndpoints = NewAuthEndpoints(s.authService)
		slog.Info("Authentication service initialized")
	} else {
		slog.Warn("JWT secret or database missing, authentication disabled")
	}

	if s.repo != nil {
		s.roomEndpoints = NewRoomEndpoints(s.repo)
		s.noteEndpoints = NewNoteEndpoints(s.repo)
		slog.Info("Room and note endpoints initialized")
	}

	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The SPA frontend requests trailing-slash paths.
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(s.config.CORS.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// Authentication routes
	if s.authEndpoints != nil {
		r.Route("/auth", func(r chi.Router) {
			// Public auth routes (no middleware)
			r.Post("/register", s.authEndpoints.RegisterHandler)
			r.Post("/login", s.authEndpoints.LoginHandler)
			r.Post("/refresh_token", s.authEndpoints.RefreshHandler)

			// Protected auth routes (with middleware)
			r.Group(func(r chi.Router) {
				r.Use(s.authService.Middleware)
				r.Post("/logout", s.authEndpoints.LogoutHandler)
				r.Get("/me", s.authEndpoints.MeHandler)
			})
		})
	}

	// Public room view (no middleware)
	if s.roomEndpoints != nil {
		s.roomEndpoints.RegisterPublicRoutes(r)
	}

	// Room and note routes (protected)
	if s.roomEndpoints != nil && s.authService != nil {
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			s.roomEndpoints.RegisterRoutes(r)
			s.noteEndpoints.RegisterRoutes(r)
		})
	}

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// splitOrigins parses the comma-separated allowed origins list.
func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))

	slog.Info("Health check", "status", status, "database", dbStatus)
}
