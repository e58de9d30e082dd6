package listing

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"newsfeed/logging"
	"newsfeed/types"

	"github.com/PuerkitoBio/goquery"
)

// DateLayouts are the month/day/year label formats accepted on the listing page
var DateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
}

// Selectors locates the pieces of each listing entry
type Selectors struct {
	Entry    string
	Title    string
	Link     string
	Date     string
	Category string
}

// DefaultSelectors matches the common news listing markup
func DefaultSelectors() Selectors {
	return Selectors{
		Entry:    "article, .news-item, li.views-row",
		Title:    "h2, h3, .title",
		Link:     "a[href]",
		Date:     "time, .date, .published",
		Category: ".category, .tag, .label",
	}
}

// Extractor turns listing markup into normalized articles
type Extractor struct {
	base      *url.URL
	selectors Selectors
	log       logging.Logger
}

// NewExtractor creates an extractor resolving relative links against baseURL
func NewExtractor(baseURL string, selectors Selectors, log logging.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("base URL must be absolute")
	}
	return &Extractor{base: base, selectors: selectors, log: log}, nil
}

// Extract parses markup into articles in page order. Entries without a title or link are dropped;
// an unreadable date becomes now. Only an unparseable document fails, with *types.ParseError.
func (e *Extractor) Extract(markup string, now time.Time) ([]types.Article, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, &types.ParseError{Err: errors.New("empty document")}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &types.ParseError{Err: err}
	}

	now = now.UTC()
	entries := doc.Find(e.selectors.Entry)
	articles := make([]types.Article, 0, entries.Length())

	entries.Each(func(i int, entry *goquery.Selection) {
		titleSel := entry.Find(e.selectors.Title).First()
		title := cleanText(titleSel.Text())
		if title == "" {
			e.log.Debug("dropping listing entry without title", "index", i)
			return
		}

		link := e.resolveLink(e.findHref(entry, titleSel))
		if link == "" {
			e.log.Debug("dropping listing entry without link", "index", i, "title", title)
			return
		}

		date, ok := parseDate(entry.Find(e.selectors.Date).First())
		if !ok {
			e.log.Debug("date fallback to fetch time", "link", link)
			date = now
		}

		category := cleanText(entry.Find(e.selectors.Category).First().Text())

		articles = append(articles, types.NewArticle(title, link, date, category))
	})

	return articles, nil
}

// findHref prefers the anchor wrapping or inside the title, then any anchor in the entry
func (e *Extractor) findHref(entry, title *goquery.Selection) string {
	candidates := []*goquery.Selection{
		title.Find(e.selectors.Link),
		title.Closest(e.selectors.Link),
		entry.Find(e.selectors.Link),
	}
	for _, sel := range candidates {
		if href, ok := sel.First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}
	return ""
}

// resolveLink rewrites site-relative links to absolute ones; absolute links pass unchanged
func (e *Extractor) resolveLink(href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

func parseDate(sel *goquery.Selection) (time.Time, bool) {
	if sel.Length() == 0 {
		return time.Time{}, false
	}
	if dt, ok := sel.Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(dt)); err == nil {
			return t.UTC(), true
		}
	}
	label := cleanText(sel.Text())
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// cleanText collapses runs of whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
