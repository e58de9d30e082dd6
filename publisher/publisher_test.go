package publisher

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsfeed/logging"
	"newsfeed/types"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMirror struct {
	names        []string
	bodies       [][]byte
	contentTypes []string
	err          error
}

func (m *fakeMirror) Upload(_ context.Context, name string, body []byte, contentType string) error {
	m.names = append(m.names, name)
	m.bodies = append(m.bodies, body)
	m.contentTypes = append(m.contentTypes, contentType)
	return m.err
}

func testChannel() Channel {
	return Channel{
		Title:       "Latest News",
		Description: "News releases",
		Link:        "https://www.example.gov/news",
		Language:    "en",
		Image:       "https://www.example.gov/logo.png",
		Favicon:     "https://www.example.gov/favicon.ico",
		Copyright:   "Example Government",
		Generator:   "newsfeed",
		Author:      "Press Office",
		AuthorEmail: "press@example.gov",
		SelfURL: func(name string) string {
			return "https://feeds.example.org/feeds/" + name
		},
	}
}

func testArticles() []types.Article {
	return []types.Article{
		types.NewArticle("Council <approves> \"budget\" & more", "https://www.example.gov/news/c", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), "Government"),
		types.NewArticle("Road work", "https://www.example.gov/news/b", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), ""),
		types.NewArticle("Library hours", "https://www.example.gov/news/a", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "Community"),
	}
}

func parse(t *testing.T, body []byte) *gofeed.Feed {
	t.Helper()
	feed, err := gofeed.NewParser().ParseString(string(body))
	require.NoError(t, err)
	return feed
}

func TestPublishWritesOrderedFeed(t *testing.T) {
	dir := t.TempDir()
	p := New(dir, testChannel(), nil, logging.Discard())

	path, err := p.Publish(context.Background(), testArticles(), "news")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "feed_news.xml"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	feed := parse(t, body)

	require.Len(t, feed.Items, 3)
	assert.Equal(t, "https://www.example.gov/news/c", feed.Items[0].Link)
	assert.Equal(t, "https://www.example.gov/news/b", feed.Items[1].Link)
	assert.Equal(t, "https://www.example.gov/news/a", feed.Items[2].Link)

	first := feed.Items[0]
	assert.Equal(t, "Council <approves> \"budget\" & more", first.Title)
	assert.Equal(t, []string{"Government"}, first.Categories)
	assert.Equal(t, "https://www.example.gov/news/c", first.GUID)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, first.PublishedParsed.Equal(time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{types.DefaultCategory}, feed.Items[1].Categories)
}

func TestRenderChannelMetadata(t *testing.T) {
	p := New(t.TempDir(), testChannel(), nil, logging.Discard())

	body, err := p.Render(testArticles(), "news")
	require.NoError(t, err)
	feed := parse(t, body)

	assert.Equal(t, "Latest News", feed.Title)
	assert.Equal(t, "News releases", feed.Description)
	assert.Equal(t, "https://www.example.gov/news", feed.Link)
	assert.Equal(t, "en", feed.Language)
	assert.Equal(t, "Example Government", feed.Copyright)
	assert.Equal(t, "newsfeed", feed.Generator)
	require.NotNil(t, feed.Image)
	assert.Equal(t, "https://www.example.gov/logo.png", feed.Image.URL)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `<rss version="2.0"`)
	assert.Contains(t, text, `xmlns:atom="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, text, `<atom:link href="https://feeds.example.org/feeds/news" rel="self" type="application/rss+xml">`)
	assert.Contains(t, text, `<atom:icon>https://www.example.gov/favicon.ico</atom:icon>`)
	assert.Contains(t, text, `<managingEditor>press@example.gov (Press Office)</managingEditor>`)
	assert.Contains(t, text, "<title>Council &lt;approves&gt; &#34;budget&#34; &amp; more</title>")
}

func TestRenderEmptyCollection(t *testing.T) {
	p := New(t.TempDir(), testChannel(), nil, logging.Discard())

	body, err := p.Render(nil, "news")
	require.NoError(t, err)

	feed := parse(t, body)
	assert.Empty(t, feed.Items)
	assert.Equal(t, "Latest News", feed.Title)
}

func TestPublishReplacesExistingFeed(t *testing.T) {
	dir := t.TempDir()
	p := New(dir, testChannel(), nil, logging.Discard())
	articles := testArticles()

	_, err := p.Publish(context.Background(), articles[1:], "news")
	require.NoError(t, err)
	path, err := p.Publish(context.Background(), articles, "news")
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, parse(t, body).Items, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "feed_news.xml", entries[0].Name())
}

func TestPublishFailureIsPublishError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "feed_news.xml", "child"), 0o755))
	mirror := &fakeMirror{}
	p := New(dir, testChannel(), mirror, logging.Discard())

	_, err := p.Publish(context.Background(), testArticles(), "news")

	var pe *types.PublishError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, filepath.Join(dir, "feed_news.xml"), pe.Path)
	assert.Empty(t, mirror.names, "nothing is mirrored when the local write fails")
}

func TestPublishMirrorsDocument(t *testing.T) {
	dir := t.TempDir()
	mirror := &fakeMirror{}
	p := New(dir, testChannel(), mirror, logging.Discard())

	path, err := p.Publish(context.Background(), testArticles(), "city")
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, mirror.names, 1)
	assert.Equal(t, "feed_city.xml", mirror.names[0])
	assert.Equal(t, body, mirror.bodies[0])
	assert.Equal(t, ContentType, mirror.contentTypes[0])
}

func TestPublishIgnoresMirrorFailure(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("bucket unavailable")}
	p := New(t.TempDir(), testChannel(), mirror, logging.Discard())

	path, err := p.Publish(context.Background(), testArticles(), "news")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestManagingEditor(t *testing.T) {
	assert.Equal(t, "a@b.c (Name)", managingEditor("Name", "a@b.c"))
	assert.Equal(t, "a@b.c", managingEditor("", "a@b.c"))
	assert.Equal(t, "Name", managingEditor("Name", ""))
	assert.Equal(t, "", managingEditor("", ""))
}

func TestRenderControlCharactersStayWellFormed(t *testing.T) {
	p := New(t.TempDir(), testChannel(), nil, logging.Discard())
	articles := []types.Article{
		types.NewArticle("Budget\x01vote ]]> done", "https://www.example.gov/news/a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ""),
	}

	body, err := p.Render(articles, "news")
	require.NoError(t, err)

	dec := xml.NewDecoder(strings.NewReader(string(body)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	feed := parse(t, body)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Budget\uFFFDvote ]]> done", feed.Items[0].Title)
	assert.Equal(t, "Budget\uFFFDvote ]]> done", feed.Items[0].Content)
}

func TestXMLSafe(t *testing.T) {
	cases := map[string]string{
		"plain":              "plain",
		"tab\there":          "tab\there",
		"nul\x00byte":        "nul\uFFFDbyte",
		"bell\x07":           "bell\uFFFD",
		"noncharacter\uFFFE": "noncharacter\uFFFD",
		"emoji \U0001F4F0":   "emoji \U0001F4F0",
	}
	for in, want := range cases {
		assert.Equal(t, want, xmlSafe(in), "%q", in)
	}
}
