package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/ports"
)

const headingSelector = "h2, h3"

// OutlineExtractor builds a heading outline from Dev.to body_html.
type OutlineExtractor struct {
	maxHeadings int
}

var _ ports.OutlineExtractor = (*OutlineExtractor)(nil)

// NewOutlineExtractor caps the outline length; maxHeadings <= 0 defaults to 50.
func NewOutlineExtractor(maxHeadings int) *OutlineExtractor {
	if maxHeadings <= 0 {
		maxHeadings = 50
	}
	return &OutlineExtractor{maxHeadings: maxHeadings}
}

// Outline walks h2/h3 elements in document order.
func (o *OutlineExtractor) Outline(bodyHTML string) ([]domain.Heading, error) {
	headings := make([]domain.Heading, 0)
	if strings.TrimSpace(bodyHTML) == "" {
		return headings, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return headings, fmt.Errorf("parse body html: %w", err)
	}

	seen := map[string]int{}
	doc.Find(headingSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := collapseSpace(sel.Text())
		if text == "" {
			return true
		}

		level := 2
		if goquery.NodeName(sel) == "h3" {
			level = 3
		}

		anchor := headingAnchor(sel, text)
		if anchor == "" {
			anchor = fmt.Sprintf("section-%d", len(headings)+1)
		}
		if n := seen[anchor]; n > 0 {
			seen[anchor] = n + 1
			anchor = fmt.Sprintf("%s-%d", anchor, n)
		} else {
			seen[anchor] = 1
		}

		headings = append(headings, domain.Heading{Level: level, Anchor: anchor, Text: text})
		return len(headings) < o.maxHeadings
	})

	return headings, nil
}

func headingAnchor(sel *goquery.Selection, text string) string {
	if id, ok := sel.Attr("id"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if name, ok := sel.Find("a[name]").First().Attr("name"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if href, ok := sel.Find("a[href^=\"#\"]").First().Attr("href"); ok && len(href) > 1 {
		return strings.TrimPrefix(href, "#")
	}
	return slugify(text)
}

func slugify(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
