package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/ports"
)

type fakeSource struct {
	mu      sync.Mutex
	list    func(ctx context.Context, q ports.ListQuery) ([]domain.Article, error)
	get     func(ctx context.Context, id int64) (domain.Article, error)
	queries []ports.ListQuery
}

func (f *fakeSource) ListArticles(ctx context.Context, q ports.ListQuery) ([]domain.Article, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.list == nil {
		return []domain.Article{}, nil
	}
	return f.list(ctx, q)
}

func (f *fakeSource) GetArticle(ctx context.Context, id int64) (domain.Article, error) {
	if f.get == nil {
		return domain.Article{}, &domain.UpstreamError{StatusCode: 404, Status: "404 Not Found"}
	}
	return f.get(ctx, id)
}

func (f *fakeSource) recorded() []ports.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.ListQuery(nil), f.queries...)
}

type memoryRepository struct {
	mu    sync.Mutex
	slugs map[int64]string
	err   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{slugs: map[int64]string{}}
}

func (m *memoryRepository) UpsertMappings(_ context.Context, mappings []domain.SlugMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, mapping := range mappings {
		m.slugs[mapping.ID] = mapping.Slug
	}
	return nil
}

func (m *memoryRepository) SlugByID(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slug, ok := m.slugs[id]
	if !ok {
		return "", domain.ErrMappingNotFound
	}
	return slug, nil
}

func (m *memoryRepository) IDBySlug(_ context.Context, slug string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.slugs {
		if s == slug {
			return id, nil
		}
	}
	return 0, domain.ErrMappingNotFound
}

func (m *memoryRepository) Export(_ context.Context) ([]domain.SlugMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SlugMapping, 0, len(m.slugs))
	for id, slug := range m.slugs {
		out = append(out, domain.SlugMapping{ID: id, Slug: slug})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func articles(startID int64, n int) []domain.Article {
	out := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		id := startID + int64(i)
		out = append(out, domain.NewArticle(id, fmt.Sprintf("post-%d", id), "go"))
	}
	return out
}
