package devto

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/infrastructure/metrics"
	"DevBlogProxy/internal/ports"
)

const (
	acceptHeader     = "application/vnd.forem.api-v1+json"
	defaultUserAgent = "DevBlogProxy/1.0"
)

// ErrNotFound is matched by errors.Is on 404 answers.
var ErrNotFound = domain.ErrArticleNotFound

// Client talks to the Dev.to articles API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

var _ ports.ArticleSource = (*Client)(nil)

// NewClient creates a reusable HTTP client; a zero timeout falls back to 10s.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithHTTP(baseURL, userAgent, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP wires a caller-provided http.Client.
func NewClientWithHTTP(baseURL, userAgent string, httpClient *http.Client) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
	}
}

// ListArticles fetches one listing page. Exactly one attempt is made.
func (c *Client) ListArticles(ctx context.Context, q ports.ListQuery) ([]domain.Article, error) {
	endpoint, err := buildListURL(c.baseURL, q)
	if err != nil {
		return nil, err
	}

	var articles []domain.Article
	if err := c.get(ctx, "list", endpoint, &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}

// GetArticle fetches a single article by upstream id.
func (c *Client) GetArticle(ctx context.Context, id int64) (domain.Article, error) {
	endpoint := fmt.Sprintf("%s/api/articles/%d", c.baseURL, id)

	var article domain.Article
	if err := c.get(ctx, "get", endpoint, &article); err != nil {
		return domain.Article{}, err
	}
	return article, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstream(op, "transport_error")
		return &domain.TransportError{Op: "request " + op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		metrics.RecordUpstream(op, strconv.Itoa(resp.StatusCode))
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.RecordUpstream(op, "decode_error")
		return &domain.TransportError{Op: "decode " + op, Err: err}
	}

	metrics.RecordUpstream(op, "ok")
	return nil
}

func buildListURL(base string, q ports.ListQuery) (string, error) {
	parsed, err := url.Parse(base + "/api/articles")
	if err != nil {
		return "", fmt.Errorf("invalid upstream url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("per_page", strconv.Itoa(q.PerPage))
	for _, tag := range q.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			query.Add("tag", tag)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
