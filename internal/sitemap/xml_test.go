// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package sitemap

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"glinda/internal/models"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

// parseSitemap unmarshals a generated document back into a urlSet.
func parseSitemap(t *testing.T, doc []byte) urlSet {
	t.Helper()
	var set urlSet
	if err := xml.Unmarshal(doc, &set); err != nil {
		t.Fatalf("unmarshal sitemap: %v", err)
	}
	return set
}

// TestSitemapStaticEntries verifies an empty dataset still yields the five
// static pages with the homepage prioritized.
func TestSitemapStaticEntries(t *testing.T) {
	b := NewBuilder(&fakeContent{}, &fakeCategories{})

	doc, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if doc.URLCount != 5 {
		t.Errorf("URLCount = %d, want 5", doc.URLCount)
	}

	set := parseSitemap(t, doc.XML)
	if set.Xmlns != xmlns {
		t.Errorf("xmlns = %q, want %q", set.Xmlns, xmlns)
	}

	byLoc := make(map[string]sitemapURL)
	for _, u := range set.URLs {
		byLoc[u.Loc] = u
	}

	home, ok := byLoc["https://www.glinda.it/"]
	if !ok {
		t.Fatal("missing homepage entry")
	}
	if home.Priority != "1.0" || home.ChangeFreq != "daily" {
		t.Errorf("homepage priority/changefreq = %s/%s, want 1.0/daily", home.Priority, home.ChangeFreq)
	}

	about, ok := byLoc["https://www.glinda.it/about"]
	if !ok {
		t.Fatal("missing /about entry")
	}
	if about.Priority != "0.5" || about.ChangeFreq != "monthly" {
		t.Errorf("/about priority/changefreq = %s/%s, want 0.5/monthly", about.Priority, about.ChangeFreq)
	}
	if about.LastMod != "2026-03-15" {
		t.Errorf("/about lastmod = %q, want 2026-03-15", about.LastMod)
	}
}

// TestSitemapContentUsesIDForm verifies listing entries always use the
// ID-based URL, even when the listing has a slug and category, and carry
// the listing's update date.
func TestSitemapContentUsesIDForm(t *testing.T) {
	c := published(uuid.New(), "corso-nuoto", "nuoto")

	b := NewBuilder(&fakeContent{items: []models.Content{c}}, &fakeCategories{})

	doc, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}

	xmlStr := string(doc.XML)
	want := "https://www.glinda.it/content/" + c.ID.String()
	if !strings.Contains(xmlStr, "<loc>"+want+"</loc>") {
		t.Errorf("missing ID-form loc %q", want)
	}
	if strings.Contains(xmlStr, "/content/corso-nuoto") || strings.Contains(xmlStr, "/nuoto/corso-nuoto") {
		t.Error("sitemap must not contain slug-form listing URLs")
	}
	if !strings.Contains(xmlStr, "<lastmod>2026-03-01</lastmod>") {
		t.Error("listing entry should carry its updated_at date")
	}
}

// TestSitemapSkipsDrafts verifies draft listings never enter the document.
func TestSitemapSkipsDrafts(t *testing.T) {
	draft := published(uuid.New(), "", "")
	draft.Status = models.ContentStatusDraft

	b := NewBuilder(&fakeContent{items: []models.Content{draft}}, &fakeCategories{})

	doc, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if strings.Contains(string(doc.XML), draft.ID.String()) {
		t.Error("draft listing leaked into sitemap")
	}
	if doc.URLCount != 5 {
		t.Errorf("URLCount = %d, want 5 (static only)", doc.URLCount)
	}
}

// TestSitemapCategoryEntries verifies active categories map to search URLs.
func TestSitemapCategoryEntries(t *testing.T) {
	b := NewBuilder(&fakeContent{}, &fakeCategories{items: []models.Category{
		{ID: uuid.New(), Slug: "nuoto", Active: true},
		{ID: uuid.New(), Slug: "vecchia", Active: false},
	}})

	doc, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}

	xmlStr := string(doc.XML)
	if !strings.Contains(xmlStr, "https://www.glinda.it/search?category=nuoto") {
		t.Error("missing category search URL")
	}
	if strings.Contains(xmlStr, "vecchia") {
		t.Error("inactive category leaked into sitemap")
	}
}

// TestSitemapDeterministic verifies the document is byte-identical for the
// same dataset and timestamp.
func TestSitemapDeterministic(t *testing.T) {
	c := published(uuid.New(), "corso-nuoto", "nuoto")
	content := &fakeContent{items: []models.Content{c}}
	categories := &fakeCategories{items: []models.Category{{ID: uuid.New(), Slug: "nuoto", Active: true}}}

	b := NewBuilder(content, categories)

	first, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	second, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if !bytes.Equal(first.XML, second.XML) {
		t.Error("same inputs should produce a byte-identical document")
	}
}

// TestSitemapTrimsBaseURL verifies a trailing slash on the base URL does
// not produce double slashes.
func TestSitemapTrimsBaseURL(t *testing.T) {
	b := NewBuilder(&fakeContent{}, &fakeCategories{})

	doc, err := b.Sitemap("https://www.glinda.it/", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if strings.Contains(string(doc.XML), "glinda.it//") {
		t.Error("double slash in generated URLs")
	}
}

// TestSitemapHeader verifies the XML declaration leads the document.
func TestSitemapHeader(t *testing.T) {
	b := NewBuilder(&fakeContent{}, &fakeCategories{})

	doc, err := b.Sitemap("https://www.glinda.it", testNow)
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	if !bytes.HasPrefix(doc.XML, []byte(xml.Header)) {
		t.Error("document should start with the XML declaration")
	}
	if !bytes.HasSuffix(doc.XML, []byte("\n")) {
		t.Error("document should end with a newline")
	}
}
