// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// store_test.go provides shared database setup for store integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"glinda/internal/database"
	"glinda/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "glinda")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "glinda")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testCategory inserts a category and schedules its removal.
func testCategory(t *testing.T, db *sql.DB, name, slug string, active bool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, active, sort_order)
		VALUES ($1, $2, $3, 999)
		RETURNING id
	`, name, slug, active).Scan(&id)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", id) })
	return id
}

// testListing inserts a content row through the store and schedules its
// removal.
func testListing(t *testing.T, db *sql.DB, c *models.Content) *models.Content {
	t.Helper()
	created, err := NewContentStore(db).Create(c)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM content WHERE id = $1", created.ID) })
	return created
}

func strPtr(s string) *string { return &s }
