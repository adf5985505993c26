// Package http exposes the JSON API: paginated listings with per-owner
// caching, and the upsert, delete, duplicate and toggle mutations.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/cache"
	"github.com/0xtz/trackzy-finance-app/internal/core"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
	"github.com/0xtz/trackzy-finance-app/internal/services"
)

// contextKey is a private type for request-scoped values.
type contextKey string

const requestIDKey contextKey = "request_id"

type Server struct {
	http.Server
	svc         *services.Services
	rateLimiter *rateLimiter

	// One listing cache per resource. Keys are
	// resource|owner|page|pageSize|filters so a whole owner slice can be
	// dropped by prefix after a mutation.
	budgetCache   *cache.LRUCache[core.Paginated[core.Budget]]
	expenseCache  *cache.LRUCache[core.Paginated[core.Expense]]
	incomeCache   *cache.LRUCache[core.Paginated[core.Income]]
	wishlistCache *cache.LRUCache[core.Paginated[core.WishlistItem]]
	categoryCache *cache.LRUCache[core.Paginated[core.Category]]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
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

	// Allow up to 120 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 120
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, svc *services.Services, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:              svc,
		rateLimiter:      newRateLimiter(),
		budgetCache:      cache.NewLRUCache[core.Paginated[core.Budget]](cacheSize, cacheTTL),
		expenseCache:     cache.NewLRUCache[core.Paginated[core.Expense]](cacheSize, cacheTTL),
		incomeCache:      cache.NewLRUCache[core.Paginated[core.Income]](cacheSize, cacheTTL),
		wishlistCache:    cache.NewLRUCache[core.Paginated[core.WishlistItem]](cacheSize, cacheTTL),
		categoryCache:    cache.NewLRUCache[core.Paginated[core.Category]](cacheSize, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/budgets", s.withMiddleware(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.withMiddleware(s.handleUpsertBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withMiddleware(s.handleDeleteBudget))
	mux.HandleFunc("POST /api/budgets/{id}/duplicate", s.withMiddleware(s.handleDuplicateBudget))

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleUpsertExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/expenses/{id}/duplicate", s.withMiddleware(s.handleDuplicateExpense))

	mux.HandleFunc("GET /api/incomes", s.withMiddleware(s.handleListIncomes))
	mux.HandleFunc("POST /api/incomes", s.withMiddleware(s.handleUpsertIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.withMiddleware(s.handleDeleteIncome))
	mux.HandleFunc("POST /api/incomes/{id}/duplicate", s.withMiddleware(s.handleDuplicateIncome))

	mux.HandleFunc("GET /api/wishlist", s.withMiddleware(s.handleListWishlist))
	mux.HandleFunc("POST /api/wishlist", s.withMiddleware(s.handleUpsertWishlist))
	mux.HandleFunc("DELETE /api/wishlist/{id}", s.withMiddleware(s.handleDeleteWishlist))
	mux.HandleFunc("POST /api/wishlist/{id}/duplicate", s.withMiddleware(s.handleDuplicateWishlist))
	mux.HandleFunc("POST /api/wishlist/{id}/purchased", s.withMiddleware(s.handleToggleWishlist))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleUpsertCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	return s
}

// startCacheCleanup runs periodic cleanup for the listing caches
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.budgetCache.CleanExpired() +
				s.expenseCache.CleanExpired() +
				s.incomeCache.CleanExpired() +
				s.wishlistCache.CleanExpired() +
				s.categoryCache.CleanExpired()
			if cleaned > 0 {
				slog.Debug("Cache cleanup completed", applog.FieldCount, cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// InvalidateResource drops every cached listing of the resource for the
// owner. Category and budget mutations also drop expense and income pages,
// which embed their summaries.
func (s *Server) InvalidateResource(resource, ownerID string) {
	switch resource {
	case core.ResourceBudget:
		s.budgetCache.DeletePrefix(listKeyPrefix(core.ResourceBudget, ownerID))
		s.expenseCache.DeletePrefix(listKeyPrefix(core.ResourceExpense, ownerID))
	case core.ResourceExpense:
		s.expenseCache.DeletePrefix(listKeyPrefix(core.ResourceExpense, ownerID))
	case core.ResourceIncome:
		s.incomeCache.DeletePrefix(listKeyPrefix(core.ResourceIncome, ownerID))
	case core.ResourceWishlist:
		s.wishlistCache.DeletePrefix(listKeyPrefix(core.ResourceWishlist, ownerID))
	case core.ResourceCategory:
		s.categoryCache.DeletePrefix(listKeyPrefix(core.ResourceCategory, ownerID))
		s.expenseCache.DeletePrefix(listKeyPrefix(core.ResourceExpense, ownerID))
		s.incomeCache.DeletePrefix(listKeyPrefix(core.ResourceIncome, ownerID))
	}
}

func listKeyPrefix(resource, ownerID string) string {
	return resource + "|" + ownerID + "|"
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldRemoteAddr, clientIP)

		// Rate limit mutations only; listings are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldRemoteAddr, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatus, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldRemoteAddr, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
