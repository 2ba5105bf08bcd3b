// Package server exposes the proxy over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/logging"
	"DevBlogProxy/internal/ports"
)

// ArticleLister serves the listing endpoint.
type ArticleLister interface {
	List(ctx context.Context, f domain.Filter) (domain.Envelope, error)
}

// ArticleDetailReader serves the detail endpoint.
type ArticleDetailReader interface {
	Read(ctx context.Context, id int64) (domain.ArticleDetail, error)
}

// Options carries the listener and HTTP-level settings.
type Options struct {
	ListenAddr     string
	TrustedProxies []string
	SSL            bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CacheMaxAge    int
	Limits         Limits
}

// Deps wires the use cases behind the routes; Mappings may be nil.
type Deps struct {
	Listing     ArticleLister
	Reader      ArticleDetailReader
	Mappings    ports.MappingRepository
	Site        domain.SiteSettings
	PopularTags []domain.PopularTag
	Logger      *slog.Logger
}

// Server owns the gin engine and the http.Server around it.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	listing      ArticleLister
	reader       ArticleDetailReader
	mappings     ports.MappingRepository
	site         domain.SiteSettings
	tags         []domain.PopularTag
	limits       Limits
	cacheControl string
	logger       *slog.Logger
}

// New builds the router; it does not start listening.
func New(opts Options, deps Deps) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if opts.Limits.MaxPerPage <= 0 {
		opts.Limits.MaxPerPage = 50
	}
	if opts.Limits.DefaultPerPage <= 0 {
		opts.Limits.DefaultPerPage = min(12, opts.Limits.MaxPerPage)
	}
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = 60
	}
	tags := deps.PopularTags
	if tags == nil {
		tags = []domain.PopularTag{}
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if opts.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	engine.Use(requestID(), recovery(deps.Logger), accessLog(deps.Logger), secure.New(secureConfig))

	s := &Server{
		engine:       engine,
		listing:      deps.Listing,
		reader:       deps.Reader,
		mappings:     deps.Mappings,
		site:         deps.Site,
		tags:         tags,
		limits:       opts.Limits,
		cacheControl: cacheControlValue(opts.CacheMaxAge),
		logger:       deps.Logger,
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.ListenAddr,
		Handler:      engine,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/articles", s.listArticles)
		api.GET("/site", s.getSite)
		api.GET("/tags", s.getTags)
		api.GET("/mappings", s.getMappingBySlug)
		api.GET("/mappings/:id", s.getMappingByID)
		api.GET("/:id/:slug", s.getArticle)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
