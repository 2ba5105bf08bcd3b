package usecase

import (
	"errors"
	"time"

	"DevBlogProxy/internal/domain"
)

const (
	fetchedAtLayout  = "2006-01-02T15:04:05.000Z"
	transportMessage = "failed to reach Dev.to API"
)

// ShapeSuccess wraps one page of articles with pagination and fetch metadata.
func ShapeSuccess(f domain.Filter, articles []domain.Article, info domain.PaginationInfo, now time.Time) domain.SuccessResponse {
	if articles == nil {
		articles = []domain.Article{}
	}
	return domain.SuccessResponse{
		Success:    true,
		Data:       articles,
		Pagination: info,
		Meta: domain.Meta{
			Source:    domain.SourceName,
			FetchedAt: now.UTC().Format(fetchedAtLayout),
			Search:    f.Search,
			Tag:       f.Tag,
		},
	}
}

// ShapeFailure stringifies err and keeps the request parameters for rendering controls.
func ShapeFailure(f domain.Filter, err error) domain.FailureResponse {
	return domain.FailureResponse{
		Success: false,
		Error:   failureMessage(err),
		Pagination: domain.FailurePagination{
			CurrentPage:     f.Page,
			PerPage:         f.PerPage,
			HasNextPage:     false,
			HasPreviousPage: f.Page > 1,
		},
	}
}

func failureMessage(err error) string {
	var upstream *domain.UpstreamError
	var transport *domain.TransportError
	switch {
	case err == nil:
		return "Unknown error occurred"
	case errors.As(err, &upstream):
		return upstream.Error()
	case errors.As(err, &transport):
		return transportMessage
	default:
		return err.Error()
	}
}
