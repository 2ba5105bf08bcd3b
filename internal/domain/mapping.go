package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMappingNotFound is returned when an id or slug is not indexed.
var ErrMappingNotFound = errors.New("mapping not found")

// SlugMapping links an upstream article id to its slug.
type SlugMapping struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Path is the front-end route of the article.
func (m SlugMapping) Path() string {
	return fmt.Sprintf("/%d/%s", m.ID, m.Slug)
}

// URL joins the article path onto the site origin.
func (m SlugMapping) URL(origin string) string {
	return strings.TrimSuffix(origin, "/") + m.Path()
}

// MappingReport summarizes one generator run.
type MappingReport struct {
	Pages         int `json:"pages"`
	TotalArticles int `json:"total_articles"`
}
