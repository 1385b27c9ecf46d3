// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes the kinds of listings in the unified content table.
type ContentType string

const (
	ContentTypeCourse  ContentType = "course"
	ContentTypeEvent   ContentType = "event"
	ContentTypeService ContentType = "service"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// Content represents a marketplace listing (course, event, or service).
// All kinds share the same table, differentiated by the Type field.
//
// Slug is nullable: imported or hastily created listings may have none,
// in which case the item is only reachable through its ID-based URL.
type Content struct {
	ID          uuid.UUID     `json:"id"`
	Type        ContentType   `json:"type"`
	Title       string        `json:"title"`
	Slug        *string       `json:"slug,omitempty"`
	Description string        `json:"description"`
	City        *string       `json:"city,omitempty"`
	AgeMin      *int          `json:"age_min,omitempty"`
	AgeMax      *int          `json:"age_max,omitempty"`
	CategoryID  *uuid.UUID    `json:"category_id,omitempty"`
	Status      ContentStatus `json:"status"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// CategorySlug is a virtual field populated by store queries that join
	// the categories table. It is set only when the listing's category
	// exists and is active.
	CategorySlug *string `json:"category_slug,omitempty"`
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// CanonicalPath returns the single preferred URL path for this listing.
// Pretty category+slug form when both are available, slug-only form when
// only the slug exists, and the always-valid ID form otherwise.
func (c *Content) CanonicalPath() string {
	if c.Slug != nil && *c.Slug != "" {
		if c.CategorySlug != nil && *c.CategorySlug != "" {
			return "/" + *c.CategorySlug + "/" + *c.Slug
		}
		return "/content/" + *c.Slug
	}
	return "/content/" + c.ID.String()
}
