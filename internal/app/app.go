package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DevBlogProxy/internal/config"
	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/infrastructure/devto"
	"DevBlogProxy/internal/infrastructure/parser"
	"DevBlogProxy/internal/infrastructure/scheduler"
	"DevBlogProxy/internal/infrastructure/storage"
	"DevBlogProxy/internal/logging"
	"DevBlogProxy/internal/ports"
	"DevBlogProxy/internal/server"
	"DevBlogProxy/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	mappings  ports.MappingRepository
	generator *usecase.MappingGenerator
	scheduler *usecase.Scheduler
	server    *server.Server
}

// New builds every component; storage is opened only when a database driver is configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	if err := a.openStorage(ctx); err != nil {
		return nil, err
	}

	client := devto.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout)

	estimator := usecase.NewEstimator(client, usecase.EstimatorConfig{
		ProbePage:     cfg.Pagination.ProbePage,
		ProbeTimeout:  cfg.Pagination.ProbeTimeout,
		FallbackPages: cfg.Pagination.FallbackPages,
	}, baseLogger.With("component", "estimator"))

	listing := usecase.NewListing(client, estimator, baseLogger.With("component", "listing"))

	reader := usecase.NewArticleReader(usecase.ArticleReaderDeps{
		Source:   client,
		Outline:  parser.NewOutlineExtractor(0),
		Mappings: a.mappings,
		Logger:   baseLogger.With("component", "reader"),
	})

	a.generator = usecase.NewMappingGenerator(usecase.MappingGeneratorDeps{
		Source:          client,
		Repository:      a.mappings,
		Pages:           cfg.Mapping.Pages,
		PerPage:         cfg.Mapping.PerPage,
		RequestInterval: cfg.Mapping.RequestInterval,
		Logger:          baseLogger.With("component", "mapping"),
	})

	if a.mappings != nil && cfg.Mapping.RefreshInterval > 0 {
		a.scheduler = usecase.NewScheduler(
			scheduler.NewTickerScheduler(cfg.Mapping.RefreshInterval),
			a.generator,
			baseLogger.With("component", "scheduler"),
		)
	}

	srv, err := server.New(server.Options{
		ListenAddr:     cfg.Server.ListenAddr,
		TrustedProxies: cfg.Server.TrustedProxies,
		SSL:            cfg.Server.SSL,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		CacheMaxAge:    cfg.Pagination.CacheMaxAgeSecs,
		Limits: server.Limits{
			DefaultPerPage: cfg.Pagination.DefaultPerPage,
			MaxPerPage:     cfg.Pagination.MaxPerPage,
		},
	}, server.Deps{
		Listing:  listing,
		Reader:   reader,
		Mappings: a.mappings,
		Site: domain.SiteSettings{
			OriginURL:  cfg.Site.OriginURL,
			AdClientID: cfg.Site.AdClientID,
			Theme:      domain.Theme{Mode: cfg.Site.Theme()},
		},
		PopularTags: cfg.Site.PopularTags,
		Logger:      baseLogger.With("component", "http"),
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("build http server: %w", err)
	}
	a.server = srv

	return a, nil
}

func (a *Application) openStorage(ctx context.Context) error {
	driver := a.cfg.Database.Driver
	if driver == "" || driver == "none" {
		a.logger.Info("slug mapping storage disabled")
		return nil
	}

	db, err := storage.Open(ctx, driver, a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open mapping storage: %w", err)
	}

	repo := storage.NewMappingRepository(db, driver)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate mapping storage: %w", err)
	}

	a.db = db
	a.mappings = repo
	return nil
}

// Run serves HTTP and the optional mapping refresh until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.Close()

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start mapping scheduler: %w", err)
		}
	}

	runErr := a.server.Run(ctx, shutdownTimeout)

	if a.scheduler != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.scheduler.Stop(stopCtx); err != nil {
			a.logger.Warn("mapping scheduler did not stop cleanly", "error", err)
		}
	}

	return runErr
}

// GenerateMappings runs one generator pass; non-positive limits keep the configured ones.
func (a *Application) GenerateMappings(ctx context.Context, pages, perPage int) (domain.MappingReport, error) {
	return a.generator.WithLimits(pages, perPage).Generate(ctx)
}

// ExportMappings returns the whole id/slug index as a JSON-ready map.
func (a *Application) ExportMappings(ctx context.Context) (map[string]string, error) {
	if a.mappings == nil {
		return nil, usecase.ErrMappingDisabled
	}

	all, err := a.mappings.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export mappings: %w", err)
	}

	out := make(map[string]string, len(all))
	for _, m := range all {
		out[fmt.Sprint(m.ID)] = m.Slug
	}
	return out, nil
}

// LookupByID resolves an article id to its mapping.
func (a *Application) LookupByID(ctx context.Context, id int64) (domain.SlugMapping, error) {
	if a.mappings == nil {
		return domain.SlugMapping{}, usecase.ErrMappingDisabled
	}
	slug, err := a.mappings.SlugByID(ctx, id)
	if err != nil {
		return domain.SlugMapping{}, err
	}
	return domain.SlugMapping{ID: id, Slug: slug}, nil
}

// LookupBySlug resolves a slug to its mapping.
func (a *Application) LookupBySlug(ctx context.Context, slug string) (domain.SlugMapping, error) {
	if a.mappings == nil {
		return domain.SlugMapping{}, usecase.ErrMappingDisabled
	}
	id, err := a.mappings.IDBySlug(ctx, slug)
	if err != nil {
		return domain.SlugMapping{}, err
	}
	return domain.SlugMapping{ID: id, Slug: slug}, nil
}

// OriginURL is the public site origin used to build article links.
func (a *Application) OriginURL() string {
	return a.cfg.Site.OriginURL
}

// Close releases the storage connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	db := a.db
	a.db = nil
	if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("close mapping storage: %w", err)
	}
	return nil
}
