// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"glinda/internal/cache"
	"glinda/internal/models"
	"glinda/internal/slug"
	"glinda/internal/store"
)

// Admin handles listing and category CRUD for the admin panel. Every
// write invalidates the cached sitemap and route list, since any of them
// can change the enumerated paths.
type Admin struct {
	content    *store.ContentStore
	categories *store.CategoryStore
	docs       *cache.DocCache
}

// NewAdmin creates the admin CRUD handler group.
func NewAdmin(content *store.ContentStore, categories *store.CategoryStore, docs *cache.DocCache) *Admin {
	return &Admin{content: content, categories: categories, docs: docs}
}

// invalidateDocs drops the cached generated documents after a write.
func (h *Admin) invalidateDocs(r *http.Request) {
	h.docs.Invalidate(r.Context(), cache.SitemapKey(), cache.RoutesKey())
}

// ContentList returns all listings regardless of status.
func (h *Admin) ContentList(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.List()
	if err != nil {
		slog.Error("admin content list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load content")
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": items})
}

// ContentCreate creates a listing. An empty slug is generated from the
// title; records whose title folds to nothing keep a NULL slug and stay
// reachable through their ID URL.
func (h *Admin) ContentCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeContentPayload(w, r)
	if !ok {
		return
	}

	c, ok := contentFromPayload(w, payload)
	if !ok {
		return
	}

	created, err := h.content.Create(c)
	if err != nil {
		slog.Error("content create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create content")
		return
	}

	h.invalidateDocs(r)
	writeJSON(w, http.StatusCreated, created)
}

// ContentUpdate replaces a listing's fields.
func (h *Admin) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	existing, err := h.content.FindByID(id)
	if err != nil {
		slog.Error("content lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load content")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	payload, ok := decodeContentPayload(w, r)
	if !ok {
		return
	}

	c, ok := contentFromPayload(w, payload)
	if !ok {
		return
	}
	c.ID = existing.ID
	c.PublishedAt = existing.PublishedAt

	if err := h.content.Update(c); err != nil {
		slog.Error("content update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update content")
		return
	}

	updated, err := h.content.FindByID(id)
	if err != nil || updated == nil {
		writeError(w, http.StatusInternalServerError, "failed to reload content")
		return
	}

	h.invalidateDocs(r)
	writeJSON(w, http.StatusOK, updated)
}

// ContentDelete removes a listing.
func (h *Admin) ContentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	if err := h.content.Delete(id); err != nil {
		slog.Error("content delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete content")
		return
	}

	h.invalidateDocs(r)
	w.WriteHeader(http.StatusNoContent)
}

// decodeContentPayload reads and validates a content payload, writing the
// error response itself on failure.
func decodeContentPayload(w http.ResponseWriter, r *http.Request) (contentPayload, bool) {
	var payload contentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return payload, false
	}
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return payload, false
	}
	return payload, true
}

// contentFromPayload maps a validated payload onto a model, generating the
// slug from the title when none was supplied.
func contentFromPayload(w http.ResponseWriter, payload contentPayload) (*models.Content, bool) {
	c := &models.Content{
		Type:        models.ContentType(payload.Type),
		Title:       payload.Title,
		Description: payload.Description,
		AgeMin:      payload.AgeMin,
		AgeMax:      payload.AgeMax,
		Status:      models.ContentStatus(payload.Status),
	}

	s := payload.Slug
	if s == "" {
		s = slug.Generate(payload.Title)
	}
	if s != "" {
		c.Slug = &s
	}

	if payload.City != "" {
		city := payload.City
		c.City = &city
	}

	if payload.CategoryID != "" {
		catID, err := uuid.Parse(payload.CategoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return nil, false
		}
		c.CategoryID = &catID
	}

	if c.AgeMin != nil && c.AgeMax != nil && *c.AgeMin > *c.AgeMax {
		writeError(w, http.StatusBadRequest, "age_min must not exceed age_max")
		return nil, false
	}

	return c, true
}

// CategoryList returns all categories with their listing counts.
func (h *Admin) CategoryList(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		slog.Error("admin category list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// CategoryCreate creates a category. An empty slug is generated from the name.
func (h *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCategoryPayload(w, r)
	if !ok {
		return
	}

	cat := categoryFromPayload(payload)

	created, err := h.categories.Create(cat)
	if err != nil {
		slog.Error("category create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.invalidateDocs(r)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate replaces a category's fields.
func (h *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	existing, err := h.categories.FindByID(id)
	if err != nil {
		slog.Error("category lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load category")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	payload, ok := decodeCategoryPayload(w, r)
	if !ok {
		return
	}

	cat := categoryFromPayload(payload)
	cat.ID = existing.ID

	if err := h.categories.Update(cat); err != nil {
		slog.Error("category update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	h.invalidateDocs(r)
	writeJSON(w, http.StatusOK, cat)
}

// CategoryDelete removes a category. Listings keep existing with a NULL
// category (the FK is ON DELETE SET NULL) and fall back to their ID URLs.
func (h *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.Delete(id); err != nil {
		slog.Error("category delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.invalidateDocs(r)
	w.WriteHeader(http.StatusNoContent)
}

// decodeCategoryPayload reads and validates a category payload.
func decodeCategoryPayload(w http.ResponseWriter, r *http.Request) (categoryPayload, bool) {
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return payload, false
	}
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return payload, false
	}
	return payload, true
}

// categoryFromPayload maps a validated payload onto a model. Active
// defaults to true when omitted.
func categoryFromPayload(payload categoryPayload) *models.Category {
	cat := &models.Category{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		Active:      true,
		SortOrder:   payload.SortOrder,
	}
	if cat.Slug == "" {
		cat.Slug = slug.Generate(payload.Name)
	}
	if payload.Active != nil {
		cat.Active = *payload.Active
	}
	return cat
}
