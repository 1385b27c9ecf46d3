package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a few active categories, and sample published listings.
// It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password. The admin will be prompted to set
	// up 2FA on first login (totp_enabled = false).
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@glinda.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A few active categories typical of the catalog.
	categories := []struct {
		name, slug string
		order      int
	}{
		{"Nuoto", "nuoto", 0},
		{"Calcio", "calcio", 1},
		{"Musica", "musica", 2},
		{"Danza", "danza", 3},
	}
	for _, c := range categories {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, active, sort_order)
			VALUES ($1, $2, TRUE, $3)
		`, c.name, c.slug, c.order); err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	// Sample published listings: one with a slug and category (gets pretty
	// URLs), one without a slug (reachable only through its ID).
	_, err = db.Exec(`
		INSERT INTO content (type, title, slug, description, city, age_min, age_max, category_id, status, published_at)
		VALUES ('course', 'Corso di nuoto per bambini', 'corso-nuoto-bambini',
		        'Corso base di nuoto per bambini dai 4 agli 8 anni.', 'Milano', 4, 8,
		        (SELECT id FROM categories WHERE slug = 'nuoto'), 'published', NOW())
	`)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO content (type, title, slug, description, city, status, published_at)
		VALUES ('event', 'Open day scuola calcio', NULL,
		        'Giornata di prova gratuita presso la scuola calcio.', 'Torino', 'published', NOW())
	`)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@glinda.local",
		"password", "admin",
	)

	return nil
}
