// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"glinda/internal/cache"
	"glinda/internal/database"
	"glinda/internal/middleware"
	"glinda/internal/session"
	"glinda/internal/sitemap"
	"glinda/internal/store"
)

const testSiteURL = "https://www.glinda.it"

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

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "doc:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Sessions      *session.Store
	ContentStore  *store.ContentStore
	CategoryStore *store.CategoryStore
	UserStore     *store.UserStore
	PublishLog    *store.PublishLogStore
	Docs          *cache.DocCache
	Builder       *sitemap.Builder
	Public        *Public
	Auth          *Auth
	Admin         *Admin
	AdminSitemap  *AdminSitemap
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	publishLog := store.NewPublishLogStore(db)
	docs := cache.NewDocCache(vk, cache.DefaultDocTTL)
	builder := sitemap.NewBuilder(contentStore, categoryStore)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Sessions:      sessions,
		ContentStore:  contentStore,
		CategoryStore: categoryStore,
		UserStore:     userStore,
		PublishLog:    publishLog,
		Docs:          docs,
		Builder:       builder,
		Public:        NewPublic(contentStore, categoryStore, builder, docs, testSiteURL),
		Auth:          NewAuth(userStore, sessions),
		Admin:         NewAdmin(contentStore, categoryStore, docs),
		// Storage deliberately nil: publish tests exercise the 503 path.
		AdminSitemap: NewAdminSitemap(builder, docs, nil, publishLog, testSiteURL),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParams adds chi URL parameters to a request.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedCategory inserts an active category, removed on cleanup.
func seedCategory(t *testing.T, db *sql.DB, name, slug string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, active, sort_order)
		VALUES ($1, $2, TRUE, 999)
		RETURNING id
	`, name, slug).Scan(&id)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", id) })
	return id
}

// seedListing inserts a published listing, removed on cleanup. slug may be
// empty for a slugless record, categoryID may be uuid.Nil for none.
func seedListing(t *testing.T, db *sql.DB, title, slug string, categoryID uuid.UUID) uuid.UUID {
	t.Helper()

	var slugVal *string
	if slug != "" {
		slugVal = &slug
	}
	var catVal *uuid.UUID
	if categoryID != uuid.Nil {
		catVal = &categoryID
	}

	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO content (type, title, slug, description, status, category_id, published_at)
		VALUES ('course', $1, $2, 'Descrizione di prova.', 'published', $3, NOW())
		RETURNING id
	`, title, slugVal, catVal).Scan(&id)
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM content WHERE id = $1", id) })
	return id
}
