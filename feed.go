package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aquilax/catalog/node"
	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sourcegraph/sitemap"
)

// Feed readers render item descriptions as HTML.
var plainText = bluemonday.StrictPolicy()

// sitemapPriority is indexed by tree depth; deeper nodes use the last entry.
var sitemapPriority = []float64{1.0, 0.8, 0.6, 0.5}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (c *Catalog) feed(w http.ResponseWriter, baseURL string, nodes node.NodeList) error {
	feed := &feeds.Feed{
		Title:       c.config.Title,
		Link:        &feeds.Link{Href: baseURL},
		Description: "Recently changed catalog nodes",
		Created:     time.Now(),
	}
	for _, n := range nodes {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          nodeURL(baseURL, n),
			Title:       n.Name,
			Link:        &feeds.Link{Href: nodeURL(baseURL, n)},
			Description: plainText.Sanitize(fmt.Sprintf("%s (%s)", n.Name, n.Type)),
			Created:     n.CreatedAt,
			Updated:     n.UpdatedAt,
		})
	}
	w.Header().Set("Content-Type", "application/rss+xml")
	return feed.WriteRss(w)
}

func (c *Catalog) feedHandler(w http.ResponseWriter, r *http.Request) error {
	nodes, err := c.m.Recent(r.Context(), c.config.FeedSize)
	if err != nil {
		return err
	}
	return c.feed(w, baseURL(r), nodes)
}

// sitemapHandler lists every node, parents before their children.
func (c *Catalog) sitemapHandler(w http.ResponseWriter, r *http.Request) error {
	nodes, err := c.m.Find(r.Context(), node.Filter{})
	if err != nil {
		return err
	}
	forest, err := node.BuildForest(nodes, c.m.maxDepth)
	if err != nil {
		return err
	}
	base := baseURL(r)
	var urlSet sitemap.URLSet
	forest.Walk(func(t *node.Tree, depth int) {
		p := sitemapPriority[len(sitemapPriority)-1]
		if depth <= len(sitemapPriority) {
			p = sitemapPriority[depth-1]
		}
		lastMod := t.UpdatedAt
		urlSet.URLs = append(urlSet.URLs, sitemap.URL{
			Loc:        nodeURL(base, t.Node),
			LastMod:    &lastMod,
			ChangeFreq: sitemap.Daily,
			Priority:   p,
		})
	})
	xml, err := sitemap.Marshal(&urlSet)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/xml")
	_, err = w.Write(xml)
	return err
}
