package server

import (
	"context"
	"net/http"

	"github.com/maxbolgarin/devstory/internal/analyzer"
	"github.com/maxbolgarin/devstory/internal/cache"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/devstory/internal/ratelimit"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
)

// Version is reported by /health and /api/info
const Version = "1.0.0"

// Server exposes the analysis pipeline over HTTP
type Server struct {
	analyzer *analyzer.Analyzer
	provider model.CommitProvider
	cache    *cache.Cache[*model.AnalyzeResult]

	apiLimiter     *ratelimit.Limiter
	analyzeLimiter *ratelimit.Limiter

	cfg    Config
	log    logze.Logger
	server *http.Server
}

// New creates a new HTTP server
func New(cfg Config, a *analyzer.Analyzer, provider model.CommitProvider, resultCache *cache.Cache[*model.AnalyzeResult]) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	s := &Server{
		analyzer:       a,
		provider:       provider,
		cache:          resultCache,
		apiLimiter:     ratelimit.New(cfg.APIRateLimit, cfg.APIRateWindow),
		analyzeLimiter: ratelimit.New(cfg.AnalyzeRateLimit, cfg.AnalyzeRateWindow),
		cfg:            cfg,
		log:            logze.With("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/info", s.rateLimited(s.apiLimiter, s.handleInfo))
	mux.HandleFunc("POST /api/analyze", s.rateLimited(s.analyzeLimiter, s.handleAnalyze))
	mux.HandleFunc("GET /api/commit/{owner}/{repo}/{sha}", s.rateLimited(s.apiLimiter, s.handleCommit))
	mux.HandleFunc("/", s.handleNotFound)

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout * 2,
		IdleTimeout:  cfg.Timeout * 2,
	}

	return s, nil
}

// Start starts serving and spawns the limiter sweepers. It returns after the
// listener goroutine is launched; errors surface through the logger.
func (s *Server) Start(ctx context.Context) error {
	s.apiLimiter.StartSweeper(ctx, 0)
	s.analyzeLimiter.StartSweeper(ctx, 0)

	s.log.Info("server starting", "address", s.cfg.Address)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errm.Is(err, http.ErrServerClosed) {
			s.log.Err(err, "server failed")
		}
	}()

	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route "+r.Method+" "+r.URL.Path+" not found")
}
