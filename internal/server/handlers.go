package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"DevBlogProxy/internal/domain"
)

const (
	notFoundMessage      = "Article not found"
	internalErrorMessage = "Internal server error"
)

type mappingView struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (s *Server) listArticles(c *gin.Context) {
	filter := parseFilter(c, s.limits)

	envelope, err := s.listing.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Warn("listing failed",
			"page", filter.Page,
			"per_page", filter.PerPage,
			"error", err,
			"request_id", c.GetString(requestIDKey),
		)
		c.JSON(http.StatusInternalServerError, envelope)
		return
	}

	c.Header("Cache-Control", s.cacheControl)
	c.JSON(http.StatusOK, envelope)
}

func (s *Server) getArticle(c *gin.Context) {
	id, ok := parseArticleID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return
	}

	detail, err := s.reader.Read(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, detail)
	case errors.Is(err, domain.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	default:
		s.logger.Error("article lookup failed", "id", id, "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

func (s *Server) getMappingByID(c *gin.Context) {
	id, ok := parseArticleID(c.Param("id"))
	if !ok || s.mappings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrMappingNotFound.Error()})
		return
	}

	slug, err := s.mappings.SlugByID(c.Request.Context(), id)
	s.writeMapping(c, domain.SlugMapping{ID: id, Slug: slug}, err)
}

func (s *Server) getMappingBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug query parameter is required"})
		return
	}
	if s.mappings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrMappingNotFound.Error()})
		return
	}

	id, err := s.mappings.IDBySlug(c.Request.Context(), slug)
	s.writeMapping(c, domain.SlugMapping{ID: id, Slug: slug}, err)
}

func (s *Server) writeMapping(c *gin.Context, mapping domain.SlugMapping, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, mappingView{
			ID:   mapping.ID,
			Slug: mapping.Slug,
			Path: mapping.Path(),
			URL:  mapping.URL(s.site.OriginURL),
		})
	case errors.Is(err, domain.ErrMappingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("mapping lookup failed", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

func (s *Server) getSite(c *gin.Context) {
	c.JSON(http.StatusOK, s.site)
}

func (s *Server) getTags(c *gin.Context) {
	c.JSON(http.StatusOK, s.tags)
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func cacheControlValue(maxAge int) string {
	return fmt.Sprintf("public, s-maxage=%d", maxAge)
}
