package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Article is an upstream record carried through the proxy untouched.
// Only the identity fields and tags are decoded; the original payload is re-emitted as-is.
type Article struct {
	ID   int64
	Slug string
	tags []string
	raw  json.RawMessage
}

type articleHeader struct {
	ID      int64           `json:"id"`
	Slug    string          `json:"slug"`
	Tags    json.RawMessage `json:"tags"`
	TagList json.RawMessage `json:"tag_list"`
}

// NewArticle builds an article without an upstream payload (used by tests and fixtures).
func NewArticle(id int64, slug string, tags ...string) Article {
	return Article{ID: id, Slug: slug, tags: tags}
}

// UnmarshalJSON keeps the raw payload and extracts id, slug and tags.
func (a *Article) UnmarshalJSON(data []byte) error {
	var head articleHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode article: %w", err)
	}

	a.ID = head.ID
	a.Slug = head.Slug
	a.raw = append(json.RawMessage(nil), data...)

	// Dev.to swaps the array and string forms of tags/tag_list between listing and detail payloads.
	a.tags = parseTags(head.Tags)
	if len(a.tags) == 0 {
		a.tags = parseTags(head.TagList)
	}

	return nil
}

// MarshalJSON writes the upstream payload back verbatim.
func (a Article) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	return json.Marshal(struct {
		ID      int64    `json:"id"`
		Slug    string   `json:"slug"`
		TagList []string `json:"tag_list"`
	}{ID: a.ID, Slug: a.Slug, TagList: a.Tags()})
}

// Tags returns the article tags in upstream order.
func (a Article) Tags() []string {
	if a.tags == nil {
		return []string{}
	}
	return a.tags
}

// Field decodes a single top-level field of the upstream payload into v.
// It reports false when the field is absent or cannot be decoded.
func (a Article) Field(name string, v any) bool {
	if len(a.raw) == 0 {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(a.raw, &fields); err != nil {
		return false
	}
	value, ok := fields[name]
	if !ok || bytes.Equal(value, []byte("null")) {
		return false
	}
	return json.Unmarshal(value, v) == nil
}

func parseTags(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var list []string
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil
		}
	} else {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil
		}
		list = strings.Split(joined, ",")
	}

	seen := make(map[string]struct{}, len(list))
	tags := make([]string, 0, len(list))
	for _, tag := range list {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Heading is one entry of an article outline extracted from body_html.
type Heading struct {
	Level  int    `json:"level"`
	Anchor string `json:"id"`
	Text   string `json:"text"`
}

// ArticleDetail is the single-article response with related reading.
type ArticleDetail struct {
	Data            Article   `json:"data"`
	RelatedArticles []Article `json:"relatedArticles"`
	Outline         []Heading `json:"outline"`
}
