// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// xmlns is the sitemaps.org namespace required on the root element.
const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Document is a generated sitemap ready to serve or publish.
type Document struct {
	XML      []byte
	URLCount int
}

// sitemapURL is one <url> entry in the document.
type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// urlSet is the <urlset> root element.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap generates the sitemap XML document: one entry per static page,
// one per published listing, one per active category. Listing entries use
// the ID-based URL form, the one form every record is guaranteed to
// have; the runtime resolver canonicalizes to the pretty form on visit.
//
// The output is deterministic for a given dataset and now-time: same
// inputs, byte-identical document.
func (b *Builder) Sitemap(baseURL string, now time.Time) (*Document, error) {
	contents, categories := b.fetch()

	base := strings.TrimRight(baseURL, "/")
	today := now.Format("2006-01-02")

	set := urlSet{Xmlns: xmlns}

	for _, p := range staticPaths {
		entry := sitemapURL{
			Loc:        base + p,
			LastMod:    today,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		}
		if p == "/" {
			entry.ChangeFreq = "daily"
			entry.Priority = "1.0"
		}
		set.URLs = append(set.URLs, entry)
	}

	for _, c := range contents {
		if !c.IsPublished() {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/content/" + c.ID.String(),
			LastMod:    c.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	for _, c := range categories {
		if !c.Active {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/search?category=" + c.Slug,
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   "0.6",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	doc := append([]byte(xml.Header), body...)
	doc = append(doc, '\n')

	return &Document{XML: doc, URLCount: len(set.URLs)}, nil
}
