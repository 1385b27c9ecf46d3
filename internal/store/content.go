// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"glinda/internal/models"
)

// ContentStore handles all listing-related database operations.
// Every published-content query joins the active category so callers get
// the category slug in the same round trip; path enumeration, sitemap
// generation, and runtime URL resolution all share these read methods
// rather than issuing their own variants of the query.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// contentColumns lists the selected columns; every query below appends the
// joined category slug as the final column.
const contentColumns = `
	c.id, c.type, c.title, c.slug, c.description, c.city, c.age_min, c.age_max,
	c.category_id, c.status, c.published_at, c.created_at, c.updated_at,
	cat.slug AS category_slug`

// categoryJoin joins only active categories, so category_slug is NULL when
// the category is missing or inactive.
const categoryJoin = `LEFT JOIN categories cat ON cat.id = c.category_id AND cat.active`

// scanContent scans a row produced by contentColumns into a Content struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Description, &c.City,
		&c.AgeMin, &c.AgeMax, &c.CategoryID, &c.Status,
		&c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
		&c.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all listings regardless of status, newest first. Admin use.
func (s *ContentStore) List() ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT ` + contentColumns + `
		FROM content c ` + categoryJoin + `
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

// ListPublished returns all published listings with their active category
// slug, ordered by published date descending.
func (s *ContentStore) ListPublished() ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT ` + contentColumns + `
		FROM content c ` + categoryJoin + `
		WHERE c.status = 'published'
		ORDER BY c.published_at DESC NULLS LAST
	`)
	if err != nil {
		return nil, fmt.Errorf("list published content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

// SearchPublished returns published listings filtered by an optional
// category slug and an optional case-insensitive title substring.
func (s *ContentStore) SearchPublished(categorySlug, query string) ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT `+contentColumns+`
		FROM content c `+categoryJoin+`
		WHERE c.status = 'published'
		  AND ($1 = '' OR cat.slug = $1)
		  AND ($2 = '' OR c.title ILIKE '%' || $2 || '%')
		ORDER BY c.published_at DESC NULLS LAST
	`, categorySlug, query)
	if err != nil {
		return nil, fmt.Errorf("search published content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

// FindByID retrieves a listing by its UUID regardless of status.
// Returns nil if not found. Admin use.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+`
		FROM content c `+categoryJoin+`
		WHERE c.id = $1
	`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindPublishedByID retrieves a published listing by its UUID.
// Returns nil if not found or not published.
func (s *ContentStore) FindPublishedByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+`
		FROM content c `+categoryJoin+`
		WHERE c.id = $1 AND c.status = 'published'
	`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published content by id: %w", err)
	}
	return c, nil
}

// FindPublishedBySlug retrieves a published listing by its slug.
// Returns nil if not found or not published.
func (s *ContentStore) FindPublishedBySlug(slug string) (*models.Content, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+`
		FROM content c `+categoryJoin+`
		WHERE c.slug = $1 AND c.status = 'published'
	`, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published content by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new listing and returns it with the generated ID.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	// If publishing, set the published_at timestamp.
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO content (type, title, slug, description, city, age_min, age_max,
		                     category_id, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, c.Type, c.Title, c.Slug, c.Description, c.City, c.AgeMin, c.AgeMax,
		c.CategoryID, c.Status, c.PublishedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	// Re-read through the category join so the virtual fields are populated.
	return s.FindByID(id)
}

// Update modifies an existing listing.
func (s *ContentStore) Update(c *models.Content) error {
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE content SET
			type = $1, title = $2, slug = $3, description = $4, city = $5,
			age_min = $6, age_max = $7, category_id = $8, status = $9,
			published_at = $10, updated_at = NOW()
		WHERE id = $11
	`, c.Type, c.Title, c.Slug, c.Description, c.City,
		c.AgeMin, c.AgeMax, c.CategoryID, c.Status, c.PublishedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// Delete removes a listing by ID.
func (s *ContentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// collectContent drains rows into a slice.
func collectContent(rows *sql.Rows) ([]models.Content, error) {
	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
