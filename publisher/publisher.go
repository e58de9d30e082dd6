// Package publisher renders the article collection as an RSS 2.0 document and writes it in place.
package publisher

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"newsfeed/common"
	"newsfeed/logging"
	"newsfeed/types"

	"github.com/gorilla/feeds"
)

// ContentType is served and uploaded with every feed document
const ContentType = "application/rss+xml; charset=utf-8"

const (
	contentNamespace = "http://purl.org/rss/1.0/modules/content/"
	atomNamespace    = "http://www.w3.org/2005/Atom"
)

// Channel is the fixed channel metadata of every published feed
type Channel struct {
	Title       string
	Description string
	Link        string
	Language    string
	Image       string
	Favicon     string
	Copyright   string
	Generator   string
	Author      string
	AuthorEmail string
	// SelfURL returns the public address of the named feed
	SelfURL func(feedName string) string
}

// Mirror receives a copy of every successfully written feed document
type Mirror interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) error
}

// Publisher writes feed_<name>.xml documents into a directory
type Publisher struct {
	dir     string
	channel Channel
	mirror  Mirror
	log     logging.Logger
	now     func() time.Time
}

// New creates a publisher writing into dir. mirror may be nil.
func New(dir string, channel Channel, mirror Mirror, log logging.Logger) *Publisher {
	return &Publisher{dir: dir, channel: channel, mirror: mirror, log: log, now: time.Now}
}

// FeedFileName is the document name for a logical feed
func FeedFileName(feedName string) string {
	return "feed_" + feedName + ".xml"
}

// FeedPath is where the named feed is written inside dir
func FeedPath(dir, feedName string) string {
	return filepath.Join(dir, FeedFileName(feedName))
}

// Publish renders articles in the given order and atomically replaces the feed file.
// Write failures are returned as *types.PublishError; mirror failures are only logged.
func (p *Publisher) Publish(ctx context.Context, articles []types.Article, feedName string) (string, error) {
	path := FeedPath(p.dir, feedName)

	body, err := p.Render(articles, feedName)
	if err != nil {
		return "", &types.PublishError{Path: path, Err: err}
	}
	if err := common.WriteFileAtomic(path, body, 0o644); err != nil {
		return "", &types.PublishError{Path: path, Err: err}
	}

	if p.mirror != nil {
		if err := p.mirror.Upload(ctx, FeedFileName(feedName), body, ContentType); err != nil {
			p.log.Warn("feed mirror upload failed", "feed", feedName, "error", err)
		}
	}
	return path, nil
}

// Render builds the RSS document for articles without touching the filesystem
func (p *Publisher) Render(articles []types.Article, feedName string) ([]byte, error) {
	now := p.now().UTC()
	ch := p.channel

	feed := &feeds.Feed{
		Title:       ch.Title,
		Link:        &feeds.Link{Href: ch.Link},
		Description: ch.Description,
		Id:          ch.Link,
		Copyright:   ch.Copyright,
		Created:     now,
		Updated:     now,
	}
	if len(articles) > 0 {
		feed.Created = articles[0].Date
	}
	if ch.Image != "" {
		feed.Image = &feeds.Image{Url: ch.Image, Title: ch.Title, Link: ch.Link}
	}

	for _, a := range articles {
		description := xmlSafe(a.Description)
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       xmlSafe(a.Title),
			Link:        &feeds.Link{Href: a.Link},
			Id:          a.Link,
			Description: description,
			Content:     description,
			Created:     a.Date,
		})
	}

	rss := (&feeds.Rss{Feed: feed}).RssFeed()
	for i, item := range rss.Items {
		item.Category = articles[i].Category
	}

	selfURL := ch.Link
	if ch.SelfURL != nil {
		selfURL = ch.SelfURL(feedName)
	}

	doc := &rssDocument{
		Version:          "2.0",
		ContentNamespace: contentNamespace,
		AtomNamespace:    atomNamespace,
		Channel: &rssChannel{
			Title:          rss.Title,
			Link:           rss.Link,
			Description:    rss.Description,
			Language:       ch.Language,
			Copyright:      rss.Copyright,
			ManagingEditor: managingEditor(ch.Author, ch.AuthorEmail),
			PubDate:        rss.PubDate,
			LastBuildDate:  rss.LastBuildDate,
			Generator:      ch.Generator,
			Image:          rss.Image,
			SelfLink:       atomLink{Href: selfURL, Rel: "self", Type: "application/rss+xml"},
			Icon:           ch.Favicon,
			Items:          rss.Items,
		},
	}

	out, err := feeds.ToXML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render feed: %w", err)
	}
	return []byte(out), nil
}

// rssDocument is the <rss> root with the namespaces the channel uses
type rssDocument struct {
	XMLName          xml.Name `xml:"rss"`
	Version          string   `xml:"version,attr"`
	ContentNamespace string   `xml:"xmlns:content,attr"`
	AtomNamespace    string   `xml:"xmlns:atom,attr"`
	Channel          *rssChannel
}

// FeedXml implements feeds.XmlFeed
func (d *rssDocument) FeedXml() interface{} { return d }

type rssChannel struct {
	XMLName        xml.Name `xml:"channel"`
	Title          string   `xml:"title"`
	Link           string   `xml:"link"`
	Description    string   `xml:"description"`
	Language       string   `xml:"language,omitempty"`
	Copyright      string   `xml:"copyright,omitempty"`
	ManagingEditor string   `xml:"managingEditor,omitempty"`
	PubDate        string   `xml:"pubDate,omitempty"`
	LastBuildDate  string   `xml:"lastBuildDate,omitempty"`
	Generator      string   `xml:"generator,omitempty"`
	Image          *feeds.RssImage
	SelfLink       atomLink
	Icon           string           `xml:"atom:icon,omitempty"`
	Items          []*feeds.RssItem `xml:"item"`
}

type atomLink struct {
	XMLName xml.Name `xml:"atom:link"`
	Href    string   `xml:"href,attr"`
	Rel     string   `xml:"rel,attr"`
	Type    string   `xml:"type,attr"`
}

// xmlSafe replaces runes outside the XML character range with U+FFFD.
// content:encoded is written as CDATA, which encoding/xml does not sanitise.
func xmlSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return utf8.RuneError
	}, s)
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func managingEditor(name, email string) string {
	switch {
	case email != "" && name != "":
		return fmt.Sprintf("%s (%s)", email, name)
	case email != "":
		return email
	default:
		return name
	}
}
