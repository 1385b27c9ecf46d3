// Command glinda-routes is the build-time companion to the API server.
// The static site build runs it to get the pre-render route list and a
// sitemap snapshot without going through HTTP: it reads the database
// directly and writes routes.json and sitemap.xml into the build
// directory, optionally publishing the sitemap to object storage.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"glinda/internal/config"
	"glinda/internal/database"
	"glinda/internal/models"
	"glinda/internal/sitemap"
	"glinda/internal/storage"
	"glinda/internal/store"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "glinda-routes",
		Usage: "generate the pre-render route list and sitemap for the static site build",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Value: "dist",
				Usage: "directory to write routes.json and sitemap.xml into",
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "upload the generated sitemap to object storage",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("glinda-routes failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		// Degrade rather than fail the build: the route list falls back to
		// the static pages and the sitemap to the static entries.
		slog.Error("database unavailable, emitting static routes only", "error", err)
		db = nil
	}

	builder := sitemap.NewBuilder(contentLister(db), categoryLister(db))

	outDir := cmd.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	routes := builder.Routes()
	routesJSON, err := json.MarshalIndent(map[string][]string{"routes": routes}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal routes: %w", err)
	}
	routesPath := filepath.Join(outDir, "routes.json")
	if err := os.WriteFile(routesPath, append(routesJSON, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", routesPath, err)
	}
	slog.Info("routes written", "path", routesPath, "count", len(routes))

	doc, err := builder.Sitemap(cfg.SiteURL, time.Now())
	if err != nil {
		return fmt.Errorf("generate sitemap: %w", err)
	}
	sitemapPath := filepath.Join(outDir, "sitemap.xml")
	if err := os.WriteFile(sitemapPath, doc.XML, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", sitemapPath, err)
	}
	slog.Info("sitemap written", "path", sitemapPath, "urls", doc.URLCount)

	if cmd.Bool("publish") {
		st, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return fmt.Errorf("storage init: %w", err)
		}
		if st == nil {
			return fmt.Errorf("--publish requires S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
		url, err := st.PublishSitemap(ctx, doc.XML)
		if err != nil {
			return fmt.Errorf("publish sitemap: %w", err)
		}
		slog.Info("sitemap published", "url", url)
	}

	if db != nil {
		db.Close()
	}
	return nil
}

var errDBUnavailable = errors.New("database unavailable")

// unavailable satisfies both lister interfaces with a permanent error,
// which the builder degrades to the static path list.
type unavailable struct{}

func (unavailable) ListPublished() ([]models.Content, error) { return nil, errDBUnavailable }
func (unavailable) ListActive() ([]models.Category, error)   { return nil, errDBUnavailable }

func contentLister(db *sql.DB) sitemap.ContentLister {
	if db == nil {
		return unavailable{}
	}
	return store.NewContentStore(db)
}

func categoryLister(db *sql.DB) sitemap.CategoryLister {
	if db == nil {
		return unavailable{}
	}
	return store.NewCategoryStore(db)
}
