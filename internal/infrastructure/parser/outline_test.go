package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DevBlogProxy/internal/domain"
)

func TestOutline(t *testing.T) {
	t.Parallel()

	html := `
	<p>intro</p>
	<h2>
	  <a name="getting-started" href="#getting-started"></a>
	  Getting   started
	</h2>
	<h3 id="install">Install the CLI</h3>
	<h4>ignored</h4>
	<h3>Install the CLI</h3>
	<h2><a href="#wrap-up"></a>Wrap up!</h2>
	<h2>   </h2>`

	headings, err := NewOutlineExtractor(0).Outline(html)
	require.NoError(t, err)

	assert.Equal(t, []domain.Heading{
		{Level: 2, Anchor: "getting-started", Text: "Getting started"},
		{Level: 3, Anchor: "install", Text: "Install the CLI"},
		{Level: 3, Anchor: "install-the-cli", Text: "Install the CLI"},
		{Level: 2, Anchor: "wrap-up", Text: "Wrap up!"},
	}, headings)
}

func TestOutlineDuplicateAnchors(t *testing.T) {
	t.Parallel()

	headings, err := NewOutlineExtractor(0).Outline(`<h2>Setup</h2><h2>Setup</h2><h3>Setup</h3>`)
	require.NoError(t, err)
	require.Len(t, headings, 3)
	assert.Equal(t, "setup", headings[0].Anchor)
	assert.Equal(t, "setup-1", headings[1].Anchor)
	assert.Equal(t, "setup-2", headings[2].Anchor)
}

func TestOutlineSymbolOnlyHeadings(t *testing.T) {
	t.Parallel()

	headings, err := NewOutlineExtractor(0).Outline(`<h2>!!!</h2><h2>Intro</h2><h3>???</h3>`)
	require.NoError(t, err)
	require.Len(t, headings, 3)
	assert.Equal(t, "section-1", headings[0].Anchor)
	assert.Equal(t, "intro", headings[1].Anchor)
	assert.Equal(t, "section-3", headings[2].Anchor)
	assert.Equal(t, "!!!", headings[0].Text)
}

func TestOutlineLimitAndEmpty(t *testing.T) {
	t.Parallel()

	headings, err := NewOutlineExtractor(2).Outline(`<h2>a</h2><h2>b</h2><h2>c</h2>`)
	require.NoError(t, err)
	assert.Len(t, headings, 2)

	headings, err = NewOutlineExtractor(2).Outline("  ")
	require.NoError(t, err)
	assert.NotNil(t, headings)
	assert.Empty(t, headings)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "what-s-new-in-go-1-25", slugify("What's new in Go 1.25?"))
	assert.Equal(t, "", slugify("!!!"))
}
