// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// Package sitemap enumerates the site's URL paths from published listings
// and active categories, and renders them as a pre-render route list or a
// sitemap XML document. Both outputs share one fetch path, so they cannot
// drift apart in what they consider "published".
//
// Failure policy: a failed backend fetch is logged and degrades to an
// empty slice. The aggregate therefore never errors and never shrinks
// below the fixed static path list.
package sitemap

import (
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"glinda/internal/models"
)

// ContentLister provides published listings joined with their active
// category slug. Satisfied by store.ContentStore.
type ContentLister interface {
	ListPublished() ([]models.Content, error)
}

// CategoryLister provides active categories. Satisfied by store.CategoryStore.
type CategoryLister interface {
	ListActive() ([]models.Category, error)
}

// staticPaths are always present in the route list regardless of what the
// database returns.
var staticPaths = []string{"/", "/about", "/contact", "/privacy", "/search"}

// StaticPaths returns a copy of the fixed static path list.
func StaticPaths() []string {
	return slices.Clone(staticPaths)
}

// Builder enumerates URL paths and generates sitemap documents.
type Builder struct {
	content    ContentLister
	categories CategoryLister
}

// NewBuilder creates a Builder reading from the given listers.
func NewBuilder(content ContentLister, categories CategoryLister) *Builder {
	return &Builder{content: content, categories: categories}
}

// Routes returns the deduplicated route list for static pre-rendering:
// static paths, then category listing paths, then content paths, in
// first-seen order. It never fails; with both fetches down it returns
// exactly the static list.
func (b *Builder) Routes() []string {
	contents, categories := b.fetch()
	return dedupe(staticPaths, categoryPaths(categories), contentPaths(contents))
}

// fetch runs the content and category queries concurrently. The two have
// no ordering dependency; each degrades independently to nil on error.
func (b *Builder) fetch() ([]models.Content, []models.Category) {
	var (
		g          errgroup.Group
		contents   []models.Content
		categories []models.Category
	)

	g.Go(func() error {
		items, err := b.content.ListPublished()
		if err != nil {
			slog.Error("content path fetch failed", "error", err)
			return nil
		}
		contents = items
		return nil
	})

	g.Go(func() error {
		items, err := b.categories.ListActive()
		if err != nil {
			slog.Error("category path fetch failed", "error", err)
			return nil
		}
		categories = items
		return nil
	})

	g.Wait()
	return contents, categories
}

// contentPaths derives the candidate URL paths for each published listing:
// the slug form, the category+slug form, and always the ID form. A single
// listing can contribute up to three paths; the ID fallback is emitted
// even when the pretty forms exist so the ID-based route stays
// pre-rendered no matter what happens to slugs. Callers deduplicate.
func contentPaths(items []models.Content) []string {
	var paths []string
	for _, c := range items {
		if !c.IsPublished() {
			continue
		}
		if c.Slug != nil && *c.Slug != "" {
			paths = append(paths, "/content/"+*c.Slug)
			if c.CategorySlug != nil && *c.CategorySlug != "" {
				paths = append(paths, "/"+*c.CategorySlug+"/"+*c.Slug)
			}
		}
		paths = append(paths, "/content/"+c.ID.String())
	}
	return paths
}

// categoryPaths derives the listing path for each active category.
func categoryPaths(items []models.Category) []string {
	var paths []string
	for _, c := range items {
		if !c.Active {
			continue
		}
		paths = append(paths, "/"+c.Slug)
	}
	return paths
}

// dedupe merges path groups, dropping exact-string duplicates while
// preserving first-seen order.
func dedupe(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, p := range group {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
