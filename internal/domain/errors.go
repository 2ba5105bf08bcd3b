package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrArticleNotFound matches an UpstreamError carrying HTTP 404.
var ErrArticleNotFound = errors.New("article not found")

// UpstreamError reports a non-2xx answer from the content API.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	text := strings.TrimSpace(strings.TrimPrefix(e.Status, strconv.Itoa(e.StatusCode)))
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s API error: %d %s", SourceName, e.StatusCode, text)
}

// Is lets errors.Is(err, ErrArticleNotFound) match 404 answers.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrArticleNotFound && e.StatusCode == http.StatusNotFound
}

// TransportError reports a network failure, timeout or undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
