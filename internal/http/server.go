package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finhealth/internal/cache"
	"finhealth/internal/core"
	applog "finhealth/internal/log"
	"finhealth/internal/services"
	"finhealth/internal/variance"
)

// AnalysisService is the port the server needs from the analyzer layer.
type AnalysisService interface {
	RunAnalysis(ctx context.Context, now time.Time) (*services.AnalysisResult, error)
	ObligationOccurrences(ctx context.Context, obligationID int64, from, to time.Time) ([]core.ProjectedOccurrence, error)
	Statistics(ctx context.Context, obligationID int64) (*core.ObligationStatistics, error)
	RecordBillInstance(ctx context.Context, obligationID int64, actual, estimated core.Money, billDate core.Date, opts variance.RecordOptions) (core.BillHistoryEntry, error)
	AmendBillInstance(ctx context.Context, entryID int64, actual, estimated core.Money, paid bool, paidDate core.Date) (core.BillHistoryEntry, error)
}

type Server struct {
	http.Server
	analysis    AnalysisService
	rateLimiter *rateLimiter

	// Cached rendered JSON bodies keyed per endpoint
	responseCache *cache.LRUCache[[]byte]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and caches, returning a ready-to-run http.Server.
func NewServer(addr string, analysis AnalysisService) *Server {
	mux := http.NewServeMux()

	manager := cache.NewManager()
	responseCache := cache.NewLRUCache[[]byte](200, time.Minute)
	manager.Register(responseCache)
	manager.StartCleanup(10 * time.Minute)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		analysis:      analysis,
		rateLimiter:   newRateLimiter(),
		responseCache: responseCache,
		cacheManager:  manager,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/health-score", s.withSecurityHeaders(s.handleHealthScore))
	mux.HandleFunc("GET /api/alerts", s.withSecurityHeaders(s.handleAlerts))
	mux.HandleFunc("GET /api/obligations/{id}/occurrences", s.withSecurityHeaders(s.handleOccurrences))
	mux.HandleFunc("GET /api/obligations/{id}/statistics", s.withSecurityHeaders(s.handleStatistics))
	mux.HandleFunc("POST /api/obligations/{id}/bills", s.withSecurityHeaders(s.handleRecordBill))
	mux.HandleFunc("PUT /api/bills/{id}", s.withSecurityHeaders(s.handleAmendBill))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutating requests
		if (r.Method == http.MethodPost || r.Method == http.MethodPut) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
