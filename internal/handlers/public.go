// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"glinda/internal/cache"
	"glinda/internal/markdown"
	"glinda/internal/models"
	"glinda/internal/resolver"
	"glinda/internal/sitemap"
	"glinda/internal/store"
)

var sitemapGenerations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "glinda_sitemap_generations_total",
	Help: "Number of times the sitemap document was generated from the database.",
})

// Public serves the unauthenticated JSON API the SPA reads from, plus
// /sitemap.xml for crawlers.
type Public struct {
	content    *store.ContentStore
	categories *store.CategoryStore
	builder    *sitemap.Builder
	docs       *cache.DocCache
	siteURL    string
}

// NewPublic creates the public handler group.
func NewPublic(content *store.ContentStore, categories *store.CategoryStore, builder *sitemap.Builder, docs *cache.DocCache, siteURL string) *Public {
	return &Public{
		content:    content,
		categories: categories,
		builder:    builder,
		docs:       docs,
		siteURL:    siteURL,
	}
}

// contentDetailResponse is the body for a resolved listing page.
type contentDetailResponse struct {
	models.Content
	DescriptionHTML string `json:"description_html"`
	CanonicalPath   string `json:"canonical_path"`
	CanonicalURL    string `json:"canonical_url"`
}

// ContentDetail resolves GET /api/content/{seg} and GET /api/{category}/{seg}.
// A listing reached under a non-canonical path gets a 308 pointing at its
// canonical one; the SPA follows it with a replace-navigation so the
// canonical URL lands in the address bar without polluting history.
func (h *Public) ContentDetail(w http.ResponseWriter, r *http.Request) {
	seg := chi.URLParam(r, "seg")
	category := chi.URLParam(r, "category")

	res := resolver.Resolve(h.content, category, seg)
	switch res.Status {
	case resolver.StatusNotFound:
		writeError(w, http.StatusNotFound, "content not found")

	case resolver.StatusRedirect:
		w.Header().Set("Location", res.CanonicalPath)
		writeJSON(w, http.StatusPermanentRedirect, map[string]string{
			"redirect_to": res.CanonicalPath,
		})

	default:
		html, err := markdown.ToHTML(res.Content.Description)
		if err != nil {
			// Serve the listing anyway; the raw description is still in the body.
			html = ""
		}
		writeJSON(w, http.StatusOK, contentDetailResponse{
			Content:         *res.Content,
			DescriptionHTML: html,
			CanonicalPath:   res.CanonicalPath,
			CanonicalURL:    h.siteURL + res.CanonicalPath,
		})
	}
}

// Categories returns the active categories for the SPA's navigation and
// search filters.
func (h *Public) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.ListActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// Search returns published listings filtered by ?category= and ?q=.
func (h *Public) Search(w http.ResponseWriter, r *http.Request) {
	categorySlug := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")

	items, err := h.content.SearchPublished(categorySlug, query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

// Sitemap serves the sitemap XML at /sitemap.xml, generated on demand and
// cached in Valkey. With the backend down the document still contains the
// static pages.
func (h *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if doc, ok := h.docs.Get(ctx, cache.SitemapKey()); ok {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write(doc)
		return
	}

	doc, err := h.builder.Sitemap(h.siteURL, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sitemap generation failed")
		return
	}
	sitemapGenerations.Inc()
	h.docs.Set(ctx, cache.SitemapKey(), doc.XML)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(doc.XML)
}

// Routes serves the pre-render route list consumed by the static site
// build, cached like the sitemap.
func (h *Public) Routes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if doc, ok := h.docs.Get(ctx, cache.RoutesKey()); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(doc)
		return
	}

	routes := h.builder.Routes()
	body := routesBody(routes)
	h.docs.Set(ctx, cache.RoutesKey(), body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// routesBody marshals the route list as the JSON payload served and cached.
func routesBody(routes []string) []byte {
	body, err := json.Marshal(map[string][]string{"routes": routes})
	if err != nil {
		return []byte(`{"routes":[]}`)
	}
	return body
}

// Health is a liveness endpoint for the load balancer.
func (h *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
