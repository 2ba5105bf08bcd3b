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

func newEstimator(source ports.ArticleSource, timeout time.Duration) *Estimator {
	return NewEstimator(source, EstimatorConfig{ProbeTimeout: timeout}, logging.Discard())
}

func TestEstimateInvariants(t *testing.T) {
	t.Parallel()

	est := newEstimator(&fakeSource{}, time.Second)
	ctx := context.Background()

	for _, perPage := range []int{1, 7, 12, 50} {
		for _, page := range []int{1, 2, 3, 11, 40} {
			for count := 0; count <= perPage; count++ {
				info := est.Estimate(ctx, domain.Filter{Page: page, PerPage: perPage}, count)

				assert.Equal(t, (page-1)*perPage+count, info.TotalArticlesLoaded)
				assert.Equal(t, count == perPage, info.HasNextPage)
				assert.Equal(t, page > 1, info.HasPreviousPage)

				if info.HasNextPage {
					require.NotNil(t, info.NextPage)
					assert.Equal(t, page+1, *info.NextPage)
				} else {
					assert.Nil(t, info.NextPage)
				}
				if info.HasPreviousPage {
					require.NotNil(t, info.PreviousPage)
					assert.Equal(t, page-1, *info.PreviousPage)
				} else {
					assert.Nil(t, info.PreviousPage)
				}
				if info.EstimatedRemainingPages != nil {
					assert.GreaterOrEqual(t, *info.EstimatedRemainingPages, 0)
				}
			}
		}
	}
}

func TestEstimateProbeFindsContent(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(_ context.Context, q ports.ListQuery) ([]domain.Article, error) {
		return articles(1, q.PerPage), nil
	}}

	info := newEstimator(source, time.Second).Estimate(context.Background(), domain.Filter{Page: 1, PerPage: 12}, 12)

	assert.True(t, info.HasNextPage)
	assert.Equal(t, 12, info.TotalArticlesLoaded)
	require.NotNil(t, info.EstimatedRemainingPages)
	assert.Equal(t, 49, *info.EstimatedRemainingPages)
	assert.Equal(t, []ports.ListQuery{{Page: 50, PerPage: 1}}, source.recorded())
}

func TestEstimateProbeTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(ctx context.Context, _ ports.ListQuery) ([]domain.Article, error) {
		<-ctx.Done()
		return nil, &domain.TransportError{Op: "request list", Err: ctx.Err()}
	}}

	start := time.Now()
	info := newEstimator(source, 20*time.Millisecond).Estimate(context.Background(), domain.Filter{Page: 1, PerPage: 12}, 12)

	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, info.EstimatedRemainingPages)
	assert.Equal(t, 9, *info.EstimatedRemainingPages)
}

func TestEstimateProbeEmptyOrErrorFallsBack(t *testing.T) {
	t.Parallel()

	empty := &fakeSource{}
	info := newEstimator(empty, time.Second).Estimate(context.Background(), domain.Filter{Page: 1, PerPage: 12}, 3)
	require.NotNil(t, info.EstimatedRemainingPages)
	assert.Equal(t, 9, *info.EstimatedRemainingPages)
	assert.False(t, info.HasNextPage)

	failing := &fakeSource{list: func(context.Context, ports.ListQuery) ([]domain.Article, error) {
		return nil, &domain.UpstreamError{StatusCode: 500, Status: "500 Internal Server Error"}
	}}
	info = newEstimator(failing, time.Second).Estimate(context.Background(), domain.Filter{Page: 1, PerPage: 12}, 12)
	require.NotNil(t, info.EstimatedRemainingPages)
	assert.Equal(t, 9, *info.EstimatedRemainingPages)
}

func TestEstimateSkipsProbe(t *testing.T) {
	t.Parallel()

	source := &fakeSource{list: func(context.Context, ports.ListQuery) ([]domain.Article, error) {
		return nil, errors.New("must not be called")
	}}
	est := newEstimator(source, time.Second)

	info := est.Estimate(context.Background(), domain.Filter{Page: 3, PerPage: 12}, 5)
	assert.False(t, info.HasNextPage)
	assert.Nil(t, info.NextPage)
	assert.Equal(t, 29, info.TotalArticlesLoaded)
	assert.Nil(t, info.EstimatedRemainingPages)

	info = est.Estimate(context.Background(), domain.Filter{Page: 1, PerPage: 12}, 0)
	assert.Nil(t, info.EstimatedRemainingPages)

	assert.Empty(t, source.recorded())
}

func TestEstimateClampsNegativeEstimate(t *testing.T) {
	t.Parallel()

	est := NewEstimator(&fakeSource{}, EstimatorConfig{FallbackPages: 1}, logging.Discard())
	assert.Equal(t, 0, est.remainingPages(context.Background(), 5))
}
