// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// publish_log.go records sitemap publications in the database for audit
// and debugging. Each entry captures who published, the object key, and
// the document size.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PublishLogStore handles sitemap publish log operations.
type PublishLogStore struct {
	db *sql.DB
}

// NewPublishLogStore creates a new PublishLogStore.
func NewPublishLogStore(db *sql.DB) *PublishLogStore {
	return &PublishLogStore{db: db}
}

// Log records a sitemap publication. Best-effort: failures are logged,
// never returned, so a broken audit table cannot block publishing.
func (s *PublishLogStore) Log(publishedBy uuid.UUID, objectKey string, byteSize, urlCount int) {
	_, err := s.db.Exec(`
		INSERT INTO sitemap_publish_log (published_by, object_key, byte_size, url_count)
		VALUES ($1, $2, $3, $4)
	`, publishedBy, objectKey, byteSize, urlCount)
	if err != nil {
		slog.Warn("failed to log sitemap publish",
			"object_key", objectKey,
			"byte_size", byteSize,
			"error", err,
		)
		return
	}
	slog.Debug("sitemap publish logged", "object_key", objectKey, "url_count", urlCount)
}

// RecentEntries returns the most recent publish events, newest first.
func (s *PublishLogStore) RecentEntries(limit int) ([]PublishLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, published_by, object_key, byte_size, url_count, published_at
		FROM sitemap_publish_log
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query publish log: %w", err)
	}
	defer rows.Close()

	var entries []PublishLogEntry
	for rows.Next() {
		var e PublishLogEntry
		if err := rows.Scan(&e.ID, &e.PublishedBy, &e.ObjectKey, &e.ByteSize, &e.URLCount, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan publish log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PublishLogEntry represents a single sitemap publication event.
type PublishLogEntry struct {
	ID          int64      `json:"id"`
	PublishedBy *uuid.UUID `json:"published_by"`
	ObjectKey   string     `json:"object_key"`
	ByteSize    int        `json:"byte_size"`
	URLCount    int        `json:"url_count"`
	PublishedAt time.Time  `json:"published_at"`
}
