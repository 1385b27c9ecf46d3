// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// Package resolver maps an incoming URL segment (a slug or an opaque
// listing ID) to a published listing and decides whether the request
// should redirect to the listing's canonical path.
//
// A lookup ends in one of three states: canonical, redirect, or
// not-found. Query errors are logged and collapse into the
// not-found outcome; the caller never sees a distinction between "the
// database broke" and "this listing does not exist". There are no retries.
package resolver

import (
	"log/slog"

	"github.com/google/uuid"

	"glinda/internal/models"
)

// ContentFinder provides published-listing lookups. Satisfied by
// store.ContentStore.
type ContentFinder interface {
	FindPublishedBySlug(slug string) (*models.Content, error)
	FindPublishedByID(id uuid.UUID) (*models.Content, error)
}

// Status is the terminal state of a resolution attempt.
type Status string

const (
	// StatusCanonical: the listing was found and the requested path is
	// already its canonical form. Render in place.
	StatusCanonical Status = "canonical"
	// StatusRedirect: the listing was found under a non-canonical path.
	// Issue one replace-navigation to CanonicalPath.
	StatusRedirect Status = "redirect"
	// StatusNotFound: no published listing matched, or the lookup failed.
	StatusNotFound Status = "not_found"
)

// Resolution is the outcome of resolving one request path.
type Resolution struct {
	Status        Status
	Content       *models.Content // nil when StatusNotFound
	RequestedPath string
	CanonicalPath string // empty when StatusNotFound
}

// Resolve looks up seg as a published listing, trying slug-match first and
// falling back to ID-match when seg parses as a UUID. categorySlug is the
// category segment of the requested route, or "" for /content/{seg} routes.
//
// The redirect decision compares the requested path against the listing's
// own canonical path. A request that already sits at the canonical path
// resolves to StatusCanonical, so following the redirect once always
// terminates; the canonical page never redirects again.
func Resolve(finder ContentFinder, categorySlug, seg string) *Resolution {
	requested := "/content/" + seg
	if categorySlug != "" {
		requested = "/" + categorySlug + "/" + seg
	}

	notFound := &Resolution{Status: StatusNotFound, RequestedPath: requested}

	content, err := finder.FindPublishedBySlug(seg)
	if err != nil {
		slog.Error("content slug lookup failed", "segment", seg, "error", err)
		return notFound
	}

	// Slug miss: the segment may be an opaque ID.
	if content == nil {
		id, parseErr := uuid.Parse(seg)
		if parseErr != nil {
			return notFound
		}
		content, err = finder.FindPublishedByID(id)
		if err != nil {
			slog.Error("content id lookup failed", "id", seg, "error", err)
			return notFound
		}
	}

	if content == nil {
		return notFound
	}

	canonical := content.CanonicalPath()
	res := &Resolution{
		Content:       content,
		RequestedPath: requested,
		CanonicalPath: canonical,
	}
	if canonical == requested {
		res.Status = StatusCanonical
	} else {
		res.Status = StatusRedirect
	}
	return res
}
