package blog

import (
	"encoding/xml"
	"io"

	"github.com/pagrico/blog/content"
	"github.com/pagrico/blog/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

// writeRSS writes an RSS 2.0 feed of posts. category, when set, is the slug
// the posts were selected by and narrows the channel title.
func (a *App) writeRSS(w io.Writer, posts []content.Post, category string) error {
	site := a.Views.Site
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := views.PostURL(site, p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: content.MetaDescription(p),
			Author:      p.AuthorName(""),
			GUID:        postURL,
		}
		if !p.PublishedAt.IsZero() {
			item.PubDate = p.PublishedAt.UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700")
		}
		for _, c := range p.Categories {
			if c.Title != "" {
				item.Categories = append(item.Categories, c.Title)
			}
		}
		items = append(items, item)
	}
	title := site.Name
	if category != "" {
		title = content.CategoryHeading(category) + " | " + site.Name
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        site.URL + "/",
			Description: site.Description,
			Language:    "pt-BR",
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}
