package usecase

import (
	"context"
	"log/slog"
	"time"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/ports"
)

// Listing forwards one listing request upstream and shapes the envelope.
type Listing struct {
	source    ports.ArticleSource
	estimator *Estimator
	logger    *slog.Logger
	now       func() time.Time
}

// NewListing wires the upstream source with the pagination estimator.
func NewListing(source ports.ArticleSource, estimator *Estimator, logger *slog.Logger) *Listing {
	return &Listing{
		source:    source,
		estimator: estimator,
		logger:    logger,
		now:       time.Now,
	}
}

// List always returns a well-formed envelope; err is non-nil exactly when the envelope is a failure.
func (l *Listing) List(ctx context.Context, f domain.Filter) (domain.Envelope, error) {
	articles, err := l.source.ListArticles(ctx, ports.ListQuery{
		Page:    f.Page,
		PerPage: f.PerPage,
		Tags:    f.Tags(),
	})
	if err != nil {
		l.debug("listing failed", "page", f.Page, "per_page", f.PerPage, "tag", f.Tag, "error", err)
		return ShapeFailure(f, err), err
	}

	info := l.estimator.Estimate(ctx, f, len(articles))
	l.debug("listing served", "page", f.Page, "per_page", f.PerPage, "count", len(articles))

	return ShapeSuccess(f, articles, info, l.now()), nil
}

func (l *Listing) debug(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
