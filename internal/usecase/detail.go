package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/ports"
)

const defaultRelatedCount = 3

// ArticleReaderDeps wires the driven adapters used by the detail page.
type ArticleReaderDeps struct {
	Source       ports.ArticleSource
	Outline      ports.OutlineExtractor
	Mappings     ports.MappingRepository
	RelatedCount int
	Logger       *slog.Logger
}

// ArticleReader loads one article with related reading and an outline.
type ArticleReader struct {
	source       ports.ArticleSource
	outline      ports.OutlineExtractor
	mappings     ports.MappingRepository
	relatedCount int
	logger       *slog.Logger
}

// NewArticleReader constructs the detail use case; Outline and Mappings are optional.
func NewArticleReader(deps ArticleReaderDeps) *ArticleReader {
	if deps.RelatedCount <= 0 {
		deps.RelatedCount = defaultRelatedCount
	}
	return &ArticleReader{
		source:       deps.Source,
		outline:      deps.Outline,
		mappings:     deps.Mappings,
		relatedCount: deps.RelatedCount,
		logger:       deps.Logger,
	}
}

// Read fetches the article; only the primary fetch can fail the call.
func (r *ArticleReader) Read(ctx context.Context, id int64) (domain.ArticleDetail, error) {
	article, err := r.source.GetArticle(ctx, id)
	if err != nil {
		return domain.ArticleDetail{}, fmt.Errorf("get article %d: %w", id, err)
	}

	detail := domain.ArticleDetail{
		Data:            article,
		RelatedArticles: r.related(ctx, article),
		Outline:         r.buildOutline(article),
	}

	r.index(ctx, article)
	return detail, nil
}

func (r *ArticleReader) related(ctx context.Context, article domain.Article) []domain.Article {
	result := make([]domain.Article, 0, r.relatedCount)

	tags := article.Tags()
	if len(tags) == 0 {
		return result
	}

	candidates, err := r.source.ListArticles(ctx, ports.ListQuery{Page: 1, PerPage: r.relatedCount, Tags: tags})
	if err != nil {
		r.warn("related lookup failed", "article_id", article.ID, "error", err)
		return result
	}

	for _, candidate := range candidates {
		if candidate.ID == article.ID {
			continue
		}
		result = append(result, candidate)
		if len(result) == r.relatedCount {
			break
		}
	}
	return result
}

func (r *ArticleReader) buildOutline(article domain.Article) []domain.Heading {
	if r.outline == nil {
		return []domain.Heading{}
	}

	var body string
	if !article.Field("body_html", &body) {
		return []domain.Heading{}
	}

	headings, err := r.outline.Outline(body)
	if err != nil {
		r.warn("outline extraction failed", "article_id", article.ID, "error", err)
		return []domain.Heading{}
	}
	return headings
}

func (r *ArticleReader) index(ctx context.Context, article domain.Article) {
	if r.mappings == nil || article.ID == 0 || article.Slug == "" {
		return
	}
	mapping := []domain.SlugMapping{{ID: article.ID, Slug: article.Slug}}
	if err := r.mappings.UpsertMappings(ctx, mapping); err != nil {
		r.warn("slug indexing failed", "article_id", article.ID, "error", err)
	}
}

func (r *ArticleReader) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
