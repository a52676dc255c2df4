// Package server provides the HTTP API for résumé analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/analyzer"
	"github.com/jonathan/resume-reviewer/internal/config"
	"github.com/jonathan/resume-reviewer/internal/fetch"
	"github.com/jonathan/resume-reviewer/internal/observability"
	"github.com/jonathan/resume-reviewer/internal/server/middleware"
	"github.com/jonathan/resume-reviewer/internal/server/ratelimit"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         *config.Config
	engine      *analyzer.Engine
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validate    *validator.Validate
	fetchOpts   fetch.Options
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithEngine replaces the engine built from the analysis configuration.
func WithEngine(engine *analyzer.Engine) Option {
	return func(s *Server) { s.engine = engine }
}

// WithFetchOptions overrides the job posting fetch settings derived from the fetch configuration.
func WithFetchOptions(opts fetch.Options) Option {
	return func(s *Server) { s.fetchOpts = opts }
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   zap.NewNop(),
		validate: newValidator(),
		fetchOpts: fetch.Options{
			Timeout:    cfg.Fetch.Timeout,
			UserAgent:  cfg.Fetch.UserAgent,
			UseBrowser: cfg.Fetch.UseBrowser,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = analyzer.NewEngine(analyzer.Options{
			DisplayLimit:    cfg.Analysis.DisplayLimit,
			BlendSimilarity: cfg.Analysis.BlendSimilarity,
		})
	}

	protect, err := s.authMiddleware()
	if err != nil {
		return nil, err
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /analyze", protect(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /export", protect(http.HandlerFunc(s.handleExport)))
	mux.Handle("POST /fetch-jd", protect(http.HandlerFunc(s.handleFetchJD)))
	mux.Handle("POST /check", protect(http.HandlerFunc(s.handleCheck)))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.withBodyLimit(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// authMiddleware builds the optional JWT / API key guard for POST routes.
func (s *Server) authMiddleware() (func(http.Handler) http.Handler, error) {
	jwtConfig, err := s.cfg.Auth.JWT()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	keyConfig, err := s.cfg.Auth.APIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to create API key config: %w", err)
	}

	var tokens middleware.TokenValidator
	if jwtConfig != nil {
		s.jwtService = NewJWTService(jwtConfig)
		tokens = s.jwtService.AsTokenValidator()
	}
	var keys middleware.KeyVerifier
	if keyConfig != nil {
		keys = keyConfig
	}
	if tokens == nil && keys == nil {
		s.logger.Warn("authentication disabled: no jwt secret or api key hash configured")
	}
	return middleware.AuthMiddleware(tokens, keys), nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. It does not stop a running listener; use Start's context for that.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := s.cfg.Server.AllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := allowOrigin(allowed, r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.APIKeyHeader+", "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func allowOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(a, origin) {
			return origin
		}
	}
	return ""
}

// withBodyLimit caps request bodies at server.max_body_bytes.
func (s *Server) withBodyLimit(next http.Handler) http.Handler {
	limit := s.cfg.Server.MaxBodyBytes
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			s.errorResponse(w, r, &ErrPayloadTooLarge{Limit: limit})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging assigns a request id and logs each request with a scoped logger.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := observability.WithFields(s.logger, observability.StringFields(
			observability.StringField{Key: observability.FieldRequestID, Value: requestID},
			observability.StringField{Key: observability.FieldMethod, Value: r.Method},
			observability.StringField{Key: observability.FieldPath, Value: r.URL.Path},
		)...)
		ctx := observability.ContextWithLogger(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info("request completed",
			zap.Int(observability.FieldStatus, rec.status),
			zap.Duration(observability.FieldDuration, time.Since(start)),
			zap.String(observability.FieldClient, extractClientID(r)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.LoggerFromContext(r.Context()).Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse maps err to a status code and writes {"error": ...}.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	logger := observability.LoggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.Int(observability.FieldStatus, status), zap.Error(err))
	}
	s.jsonResponse(w, r, status, map[string]string{"error": clientMessage(err, status)})
}

// extractClientID returns the caller's IP from RemoteAddr.
// X-Forwarded-For is ignored because no trusted proxy list is configured.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second) / time.Second)
		response["retry_after"] = max(seconds, 1)
		w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String(observability.FieldClient, extractClientID(r)),
		zap.String(observability.FieldPath, r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, r, http.StatusTooManyRequests, response)
}
