package ports

import (
	"context"
	"time"

	"DevBlogProxy/internal/domain"
)

// ListQuery is a single upstream listing request.
type ListQuery struct {
	Page    int
	PerPage int
	Tags    []string
}

// ArticleSource reads articles from the upstream content API.
type ArticleSource interface {
	ListArticles(ctx context.Context, q ListQuery) ([]domain.Article, error)
	GetArticle(ctx context.Context, id int64) (domain.Article, error)
}

// MappingRepository persists the id/slug index of upstream articles.
type MappingRepository interface {
	UpsertMappings(ctx context.Context, mappings []domain.SlugMapping) error
	SlugByID(ctx context.Context, id int64) (string, error)
	IDBySlug(ctx context.Context, slug string) (int64, error)
	Export(ctx context.Context) ([]domain.SlugMapping, error)
}

// OutlineExtractor turns article HTML into a heading outline.
type OutlineExtractor interface {
	Outline(bodyHTML string) ([]domain.Heading, error)
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
