// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"glinda/internal/cache"
	"glinda/internal/middleware"
	"glinda/internal/sitemap"
	"glinda/internal/storage"
	"glinda/internal/store"
)

// AdminSitemap exposes sitemap tooling in the admin panel: preview and
// download of a freshly generated document, publication to object storage,
// and the publish audit log. Preview and publish always regenerate instead
// of reading the cache, so the admin sees and ships the current dataset.
type AdminSitemap struct {
	builder *sitemap.Builder
	docs    *cache.DocCache
	storage *storage.Client // nil when object storage is not configured
	log     *store.PublishLogStore
	siteURL string
}

// NewAdminSitemap creates the admin sitemap handler group.
func NewAdminSitemap(builder *sitemap.Builder, docs *cache.DocCache, st *storage.Client, log *store.PublishLogStore, siteURL string) *AdminSitemap {
	return &AdminSitemap{
		builder: builder,
		docs:    docs,
		storage: st,
		log:     log,
		siteURL: siteURL,
	}
}

// generate builds a fresh sitemap document, writing the error response
// itself on failure.
func (h *AdminSitemap) generate(w http.ResponseWriter) (*sitemap.Document, bool) {
	doc, err := h.builder.Sitemap(h.siteURL, time.Now())
	if err != nil {
		slog.Error("sitemap generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sitemap generation failed")
		return nil, false
	}
	sitemapGenerations.Inc()
	return doc, true
}

// Preview serves a freshly generated sitemap inline.
func (h *AdminSitemap) Preview(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.generate(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(doc.XML)
}

// Download serves a freshly generated sitemap as a file attachment.
func (h *AdminSitemap) Download(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.generate(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sitemap.xml"`)
	w.Write(doc.XML)
}

// RoutesPreview returns the current pre-render route list, uncached.
func (h *AdminSitemap) RoutesPreview(w http.ResponseWriter, r *http.Request) {
	routes := h.builder.Routes()
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": routes,
		"count":  len(routes),
	})
}

// Publish generates the sitemap and uploads it to the public bucket, then
// records the publication and drops the cached copy so /sitemap.xml serves
// the new document immediately.
func (h *AdminSitemap) Publish(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	doc, ok := h.generate(w)
	if !ok {
		return
	}

	url, err := h.storage.PublishSitemap(r.Context(), doc.XML)
	if err != nil {
		slog.Error("sitemap publish failed", "error", err)
		writeError(w, http.StatusBadGateway, "sitemap upload failed")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	h.log.Log(sess.UserID, storage.SitemapKey, len(doc.XML), doc.URLCount)
	h.docs.Invalidate(r.Context(), cache.SitemapKey())

	slog.Info("sitemap published",
		"url", url,
		"url_count", doc.URLCount,
		"byte_size", len(doc.XML),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"url":       url,
		"url_count": doc.URLCount,
		"byte_size": len(doc.XML),
	})
}

// PublishLog returns the most recent publish events.
func (h *AdminSitemap) PublishLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.log.RecentEntries(20)
	if err != nil {
		slog.Error("publish log query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load publish log")
		return
	}
	if entries == nil {
		entries = []store.PublishLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"publishes": entries})
}
