package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/logging"
	"DevBlogProxy/internal/ports"
)

func TestMappingGeneratorStopsOnShortPage(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		switch q.Page {
		case 1:
			return articles(1, 3), nil
		case 2:
			return articles(4, 2), nil
		default:
			return nil, errors.New("should have stopped")
		}
	}}
	repo := newMemoryRepository()

	gen := NewMappingGenerator(MappingGeneratorDeps{
		Source:     source,
		Repository: repo,
		Pages:      5,
		PerPage:    3,
		Logger:     logging.Discard(),
	})

	report, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MappingReport{Pages: 2, TotalArticles: 5}, report)

	all, err := repo.Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, domain.SlugMapping{ID: 4, Slug: "post-4"}, all[3])
}

func TestMappingGeneratorStopsOnEmptyPageAndMaxPages(t *testing.T) {
	t.Parallel()

	empty := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		if q.Page == 2 {
			return []domain.Article{}, nil
		}
		return articles(int64(q.Page*100), q.PerPage), nil
	}}
	report, err := NewMappingGenerator(MappingGeneratorDeps{Source: empty, Repository: newMemoryRepository(), Pages: 5, PerPage: 2}).
		Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MappingReport{Pages: 1, TotalArticles: 2}, report)

	full := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		return articles(int64(q.Page*100), q.PerPage), nil
	}}
	gen := NewMappingGenerator(MappingGeneratorDeps{Source: full, Repository: newMemoryRepository(), Pages: 5, PerPage: 2})
	report, err = gen.WithLimits(3, 0).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MappingReport{Pages: 3, TotalArticles: 6}, report)
	assert.Len(t, full.recorded(), 3)
}

func TestMappingGeneratorKeepsPartialProgress(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		if q.Page == 2 {
			return nil, &domain.UpstreamError{StatusCode: 429, Status: "429 Too Many Requests"}
		}
		return articles(1, q.PerPage), nil
	}}
	repo := newMemoryRepository()

	report, err := NewMappingGenerator(MappingGeneratorDeps{Source: source, Repository: repo, Pages: 3, PerPage: 2}).
		Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page 2")
	assert.Equal(t, 1, report.Pages)

	all, _ := repo.Export(context.Background())
	assert.Len(t, all, 2)
}

func TestMappingGeneratorRateLimited(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		return articles(int64(q.Page*10), q.PerPage), nil
	}}
	gen := NewMappingGenerator(MappingGeneratorDeps{
		Source:          source,
		Repository:      newMemoryRepository(),
		Pages:           3,
		PerPage:         1,
		RequestInterval: 30 * time.Millisecond,
	})

	start := time.Now()
	_, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestMappingGeneratorDisabled(t *testing.T) {
	t.Parallel()

	_, err := NewMappingGenerator(MappingGeneratorDeps{Source: &fakeSource{}}).Generate(context.Background())
	assert.ErrorIs(t, err, ErrMappingDisabled)
}

type recordingDriver struct {
	started bool
	stopped bool
}

func (d *recordingDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started = true
	job(time.Now())
	return nil
}

func (d *recordingDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsGenerator(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepository()
	source := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		return articles(1, 1), nil
	}}
	gen := NewMappingGenerator(MappingGeneratorDeps{Source: source, Repository: repo, Pages: 1, PerPage: 5})
	driver := &recordingDriver{}

	s := NewScheduler(driver, gen, logging.Discard())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))

	assert.True(t, driver.started)
	assert.True(t, driver.stopped)
	slug, err := repo.SlugByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "post-1", slug)
}
