package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"entrepreedge/internal/cache"
	"entrepreedge/internal/log"
	"entrepreedge/internal/middleware/ratelimit"
	"entrepreedge/internal/middleware/security"
	"entrepreedge/internal/middleware/trace"
	"entrepreedge/internal/ports"
	"entrepreedge/internal/segments"
	"entrepreedge/internal/services"
)

const (
	defaultCacheTTL  = 5 * time.Minute
	summaryCacheSize = 64
	computeTimeout   = 10 * time.Second
)

// Options wires a Server. Transactions and Reports are required.
type Options struct {
	Transactions *services.TransactionService
	Reports      *services.ReportService
	Taxonomy     ports.TaxonomyReader
	Segments     *segments.Table
	// Ping reports store reachability for /readyz; nil means always ready.
	Ping func(context.Context) error

	Logger             *log.Logger
	RateLimitPerMinute int
	TrustedProxies     []string
	CacheTTL           time.Duration
	// Now supplies the default transaction date; nil means time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server

	logger       *log.Logger
	structured   *log.StructuredLogger
	transactions *services.TransactionService
	reports      *services.ReportService
	taxonomy     ports.TaxonomyReader
	segments     *segments.Table
	ping         func(context.Context) error
	now          func() time.Time

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	// Computed summaries keyed by query; purged on every append.
	summaries    *cache.LRUCache[any]
	cacheManager *cache.Manager
	generation   atomic.Uint64
	loads        singleflight.Group

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	started           time.Time
	totalTransactions atomic.Int64
	totalReports      atomic.Int64
	reportRequests    atomic.Int64
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) (*Server, error) {
	if opts.Transactions == nil || opts.Reports == nil {
		return nil, errors.New("transaction and report services are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if opts.Segments == nil {
		opts.Segments = segments.Builtin()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	clientIP, err := security.NewClientIP(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:       logger,
		structured:   log.NewStructuredLogger(logger),
		transactions: opts.Transactions,
		reports:      opts.Reports,
		taxonomy:     opts.Taxonomy,
		segments:     opts.Segments,
		ping:         opts.Ping,
		now:          opts.Now,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		traceMiddleware: trace.NewMiddleware(clientIP.Extract, logger),
		summaries:       cache.NewLRUCache[any](summaryCacheSize, opts.CacheTTL),
		cacheManager:    cache.NewManager(),
	}
	s.appMetrics.started = time.Now()
	s.cacheManager.Register(s.summaries)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(clientIP.Extract, []string{http.MethodPost}, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, clientIP.Extract(r), log.FieldPath, r.URL.Path)
		TooManyRequestsError("rate limit exceeded, please try again later").
			RequestID(trace.GetRequestID(r.Context())).Write(w)
	})

	var h http.Handler = mux
	h = limit(h)
	h = headers.Middleware(h)
	h = trace.LoggerMiddleware(logger)(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/months", s.handleMonths)
	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/taxonomy", s.handleTaxonomy)

	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("POST /api/reports", s.handleCreateReport)
	mux.HandleFunc("GET /api/reports/{id}", s.handleGetReport)

	mux.HandleFunc("GET /api/segments", s.handleListSegments)
	mux.HandleFunc("GET /api/segments/{key}", s.handleGetSegment)
}

// cached returns the value under key, computing it at most once at a time.
// Values computed across an invalidation are not stored.
func cached[T any](ctx context.Context, s *Server, key string, compute func(context.Context) (T, error)) (T, error) {
	if v, ok := s.summaries.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := s.generation.Load()
	v, err, _ := s.loads.Do(fmt.Sprintf("%s@%d", key, gen), func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		v, err := compute(cctx)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.summaries.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// invalidate drops every cached summary.
func (s *Server) invalidate() {
	s.generation.Add(1)
	s.summaries.Purge()
}

// Shutdown stops background work and the HTTP server. Safe to call twice.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
