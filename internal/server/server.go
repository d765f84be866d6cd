package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienlaffont/cvbooster/internal/affiliate"
	"github.com/julienlaffont/cvbooster/internal/ai"
	"github.com/julienlaffont/cvbooster/internal/config"
	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/server/middleware"
	"github.com/julienlaffont/cvbooster/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	db             *db.DB
	store          Store
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	userService    *UserService
	authHandler    *AuthHandler
	generator      ai.Generator
	tracker        *affiliate.Tracker
	commissionRate int
	billingSecret  string
}

// New creates a new server instance wired to Postgres and the OpenAI backend.
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	generator, err := ai.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	tracker := affiliate.NewTracker(database, cfg.AttributionWindow)

	s, err := newServer(database, generator, tracker, cfg.CommissionRate)
	if err != nil {
		return nil, err
	}
	s.db = database

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation endpoints wait on the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer builds a server around an arbitrary store and generator.
// New wires the real database; tests pass fakes.
func newServer(store Store, generator ai.Generator, tracker *affiliate.Tracker, commissionRate int) (*Server, error) {
	s := &Server{
		store:          store,
		generator:      generator,
		tracker:        tracker,
		commissionRate: commissionRate,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	billingConfig, err := config.NewBillingConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create billing config: %w", err)
	}
	s.billingSecret = billingConfig.WebhookSecret

	return s, nil
}

// routes builds the router. Authenticated routes are wrapped with the JWT
// middleware; /health, auth entry points and click tracking stay open.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	authed := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("PUT /api/auth/password", authed(s.handleUpdatePassword))

	// CVs
	mux.Handle("GET /api/cvs", authed(s.handleListDocuments(db.KindCV)))
	mux.Handle("POST /api/cvs", authed(s.handleCreateDocument(db.KindCV)))
	mux.Handle("GET /api/cvs/{id}", authed(s.handleGetDocument(db.KindCV)))
	mux.Handle("PUT /api/cvs/{id}", authed(s.handleUpdateDocument(db.KindCV)))
	mux.Handle("DELETE /api/cvs/{id}", authed(s.handleDeleteDocument(db.KindCV)))
	mux.Handle("GET /api/cvs/{id}/export/{format}", authed(s.handleExportDocument(db.KindCV)))
	mux.Handle("POST /api/cvs/generate", authed(s.handleGenerateCV))
	mux.Handle("POST /api/cvs/{id}/analyze", authed(s.handleAnalyzeCV))

	// Cover letters
	mux.Handle("GET /api/cover-letters", authed(s.handleListDocuments(db.KindCoverLetter)))
	mux.Handle("POST /api/cover-letters", authed(s.handleCreateDocument(db.KindCoverLetter)))
	mux.Handle("GET /api/cover-letters/{id}", authed(s.handleGetDocument(db.KindCoverLetter)))
	mux.Handle("PUT /api/cover-letters/{id}", authed(s.handleUpdateDocument(db.KindCoverLetter)))
	mux.Handle("DELETE /api/cover-letters/{id}", authed(s.handleDeleteDocument(db.KindCoverLetter)))
	mux.Handle("GET /api/cover-letters/{id}/export/{format}", authed(s.handleExportDocument(db.KindCoverLetter)))
	mux.Handle("POST /api/cover-letters/generate", authed(s.handleGenerateCoverLetter))

	// Uploads
	mux.Handle("POST /api/uploads/cv", authed(s.handleUploadCV))

	// Coaching conversations
	mux.Handle("GET /api/conversations", authed(s.handleListConversations))
	mux.Handle("POST /api/conversations", authed(s.handleCreateConversation))
	mux.Handle("GET /api/conversations/{id}/messages", authed(s.handleListMessages))
	mux.Handle("POST /api/conversations/{id}/messages", authed(s.handleSendMessage))

	// Affiliate program. The conversion and commission-status hooks are for
	// the billing reconciliation process and require the shared secret.
	mux.HandleFunc("POST /api/affiliate/track", s.handleTrackClick)
	mux.Handle("GET /api/affiliate/me", authed(s.handleAffiliateStats))
	mux.Handle("POST /api/affiliate/join", authed(s.handleJoinAffiliate))
	mux.HandleFunc("POST /api/affiliate/conversion", s.handleConversion)
	mux.HandleFunc("POST /api/affiliate/commissions/{id}/status", s.handleCommissionStatus)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// handleUpdatePassword resolves the authenticated user before delegating.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError logs the detailed error and answers with the mapped status.
// Internal failures get a generic client message.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// For now this is the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
