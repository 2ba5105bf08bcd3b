package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/infrastructure/metrics"
	"DevBlogProxy/internal/ports"
)

// ErrMappingDisabled is returned when no mapping repository is configured.
var ErrMappingDisabled = errors.New("slug mapping storage is disabled")

// MappingGeneratorDeps wires all driven adapters into the mapping generator.
type MappingGeneratorDeps struct {
	Source          ports.ArticleSource
	Repository      ports.MappingRepository
	Pages           int
	PerPage         int
	RequestInterval time.Duration
	Logger          *slog.Logger
}

// MappingGenerator walks the upstream listing and indexes id/slug pairs.
type MappingGenerator struct {
	source     ports.ArticleSource
	repository ports.MappingRepository
	pages      int
	perPage    int
	interval   time.Duration
	logger     *slog.Logger
}

// NewMappingGenerator applies defaults: 10 pages of 30 articles, one request per 500ms.
func NewMappingGenerator(deps MappingGeneratorDeps) *MappingGenerator {
	if deps.Pages <= 0 {
		deps.Pages = 10
	}
	if deps.PerPage <= 0 {
		deps.PerPage = 30
	}
	if deps.RequestInterval < 0 {
		deps.RequestInterval = 0
	}
	return &MappingGenerator{
		source:     deps.Source,
		repository: deps.Repository,
		pages:      deps.Pages,
		perPage:    deps.PerPage,
		interval:   deps.RequestInterval,
		logger:     deps.Logger,
	}
}

// WithLimits returns a copy using other page bounds; non-positive values keep the current ones.
func (g *MappingGenerator) WithLimits(pages, perPage int) *MappingGenerator {
	clone := *g
	if pages > 0 {
		clone.pages = pages
	}
	if perPage > 0 {
		clone.perPage = perPage
	}
	return &clone
}

// Generate stops at the first empty or short page. Pages stored before a failure are kept.
func (g *MappingGenerator) Generate(ctx context.Context) (domain.MappingReport, error) {
	var report domain.MappingReport
	if g.repository == nil {
		return report, ErrMappingDisabled
	}

	limit := rate.Inf
	if g.interval > 0 {
		limit = rate.Every(g.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	g.info("mapping generation started", "pages", g.pages, "per_page", g.perPage)

	for page := 1; page <= g.pages; page++ {
		if err := limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("wait for page %d: %w", page, err)
		}

		articles, err := g.source.ListArticles(ctx, ports.ListQuery{Page: page, PerPage: g.perPage})
		if err != nil {
			return report, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if len(articles) == 0 {
			g.info("no more articles", "page", page)
			break
		}

		mappings := make([]domain.SlugMapping, 0, len(articles))
		for _, article := range articles {
			if article.ID == 0 || article.Slug == "" {
				continue
			}
			mappings = append(mappings, domain.SlugMapping{ID: article.ID, Slug: article.Slug})
		}

		if err := g.repository.UpsertMappings(ctx, mappings); err != nil {
			return report, fmt.Errorf("persist page %d: %w", page, err)
		}

		report.Pages++
		report.TotalArticles += len(mappings)
		metrics.RecordMapped(len(mappings))
		g.info("page indexed", "page", page, "of", g.pages, "articles", len(mappings))

		if len(articles) < g.perPage {
			g.info("reached the end of available articles", "page", page)
			break
		}
	}

	g.info("mapping generation finished", "pages", report.Pages, "total_articles", report.TotalArticles)
	return report, nil
}

func (g *MappingGenerator) info(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}
