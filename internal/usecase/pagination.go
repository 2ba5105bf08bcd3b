package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/infrastructure/metrics"
	"DevBlogProxy/internal/ports"
)

// EstimatorConfig tunes the remaining-page probe.
type EstimatorConfig struct {
	ProbePage     int
	ProbeTimeout  time.Duration
	FallbackPages int
}

// Estimator derives pagination state from the shape of one upstream page.
// Remaining pages are approximate: the upstream exposes no total count.
type Estimator struct {
	source        ports.ArticleSource
	probePage     int
	probeTimeout  time.Duration
	fallbackPages int
	logger        *slog.Logger
}

// NewEstimator applies defaults: probe page 50, 5s timeout, fallback ceiling 10.
func NewEstimator(source ports.ArticleSource, cfg EstimatorConfig, logger *slog.Logger) *Estimator {
	if cfg.ProbePage <= 1 {
		cfg.ProbePage = 50
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.FallbackPages <= 0 {
		cfg.FallbackPages = 10
	}
	return &Estimator{
		source:        source,
		probePage:     cfg.ProbePage,
		probeTimeout:  cfg.ProbeTimeout,
		fallbackPages: cfg.FallbackPages,
		logger:        logger,
	}
}

// Estimate computes PaginationInfo; only the first page of a non-empty listing triggers the probe.
func (e *Estimator) Estimate(ctx context.Context, f domain.Filter, resultCount int) domain.PaginationInfo {
	info := domain.PaginationInfo{
		CurrentPage:         f.Page,
		PerPage:             f.PerPage,
		HasNextPage:         resultCount == f.PerPage,
		HasPreviousPage:     f.Page > 1,
		TotalArticlesLoaded: (f.Page-1)*f.PerPage + resultCount,
	}

	if info.HasNextPage {
		next := f.Page + 1
		info.NextPage = &next
	}
	if info.HasPreviousPage {
		prev := f.Page - 1
		info.PreviousPage = &prev
	}

	if f.Page == 1 && resultCount > 0 {
		remaining := e.remainingPages(ctx, f.Page)
		info.EstimatedRemainingPages = &remaining
	}

	return info
}

func (e *Estimator) remainingPages(ctx context.Context, page int) int {
	upper := e.fallbackPages
	if e.probe(ctx) {
		upper = e.probePage
	}
	return max(0, upper-page)
}

// probe reports whether the far page still has content. Failures only degrade the estimate.
func (e *Estimator) probe(ctx context.Context) bool {
	if e.source == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	articles, err := e.source.ListArticles(probeCtx, ports.ListQuery{Page: e.probePage, PerPage: 1})
	switch {
	case err == nil && len(articles) > 0:
		metrics.RecordProbe("content")
		return true
	case err == nil:
		metrics.RecordProbe("empty")
		return false
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordProbe("timeout")
	default:
		metrics.RecordProbe("error")
	}

	if e.logger != nil {
		e.logger.Warn("remaining-page probe failed", "probe_page", e.probePage, "error", err)
	}
	return false
}
