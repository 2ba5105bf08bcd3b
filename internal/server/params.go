package server

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"DevBlogProxy/internal/domain"
)

// maxPage keeps (page-1)*per_page and page+1 within int range.
const maxPage = math.MaxInt32

// Limits bounds the per_page parameter.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// parseFilter clamps listing parameters; malformed values never produce an error.
func parseFilter(c *gin.Context, limits Limits) domain.Filter {
	rawPage := strings.TrimSpace(c.Query("page"))
	page, err := strconv.Atoi(rawPage)
	switch {
	case err != nil && isOverflow(err) && !strings.HasPrefix(rawPage, "-"):
		page = maxPage
	case err != nil || page < 1:
		page = 1
	case page > maxPage:
		page = maxPage
	}

	raw, ok := c.GetQuery("per_page")
	if !ok {
		raw = c.Query("size")
	}

	return domain.Filter{
		Page:    page,
		PerPage: clampPerPage(raw, limits),
		Search:  strings.TrimSpace(c.Query("search")),
		Tag:     strings.TrimSpace(c.Query("tag")),
	}
}

func isOverflow(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)
}

func clampPerPage(raw string, limits Limits) int {
	perPage, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil || perPage == 0:
		return limits.DefaultPerPage
	case perPage < 1:
		return 1
	case perPage > limits.MaxPerPage:
		return limits.MaxPerPage
	default:
		return perPage
	}
}

// parseArticleID accepts positive decimal ids only.
func parseArticleID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
