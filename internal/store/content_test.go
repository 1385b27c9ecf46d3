// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"glinda/internal/models"
)

func TestContentCreateAndFindBySlug(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	catID := testCategory(t, db, "Nuoto Store "+suffix, "nuoto-store-"+suffix, true)

	created := testListing(t, db, &models.Content{
		Type:        models.ContentTypeCourse,
		Title:       "Corso store " + suffix,
		Slug:        strPtr("corso-store-" + suffix),
		Description: "desc",
		CategoryID:  &catID,
		Status:      models.ContentStatusPublished,
	})

	if created.PublishedAt == nil {
		t.Error("publishing through Create should set PublishedAt")
	}
	// The re-read goes through the category join, so the virtual field is
	// populated on the returned struct.
	if created.CategorySlug == nil || *created.CategorySlug != "nuoto-store-"+suffix {
		t.Errorf("CategorySlug = %v, want nuoto-store-%s", created.CategorySlug, suffix)
	}

	found, err := s.FindPublishedBySlug("corso-store-" + suffix)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("FindPublishedBySlug returned %+v", found)
	}
}

func TestContentFindPublishedIgnoresDrafts(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	draft := testListing(t, db, &models.Content{
		Type:   models.ContentTypeEvent,
		Title:  "Bozza " + suffix,
		Slug:   strPtr("bozza-" + suffix),
		Status: models.ContentStatusDraft,
	})

	found, err := s.FindPublishedBySlug("bozza-" + suffix)
	if err != nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if found != nil {
		t.Error("draft should be invisible to published lookups")
	}

	byID, err := s.FindPublishedByID(draft.ID)
	if err != nil {
		t.Fatalf("FindPublishedByID: %v", err)
	}
	if byID != nil {
		t.Error("draft should be invisible to published ID lookups")
	}

	// Admin lookup still sees it.
	adminView, err := s.FindByID(draft.ID)
	if err != nil || adminView == nil {
		t.Fatalf("FindByID should see drafts: %v", err)
	}
}

func TestContentFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	found, err := s.FindPublishedByID(uuid.New())
	if err != nil {
		t.Fatalf("FindPublishedByID: %v", err)
	}
	if found != nil {
		t.Error("missing listing should return nil, nil")
	}
}

func TestContentInactiveCategoryYieldsNilSlug(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	catID := testCategory(t, db, "Spenta "+suffix, "spenta-"+suffix, false)

	created := testListing(t, db, &models.Content{
		Type:       models.ContentTypeService,
		Title:      "Servizio " + suffix,
		Slug:       strPtr("servizio-" + suffix),
		CategoryID: &catID,
		Status:     models.ContentStatusPublished,
	})

	// The join filters inactive categories, so the virtual slug stays nil
	// and the canonical path degrades to the slug-only form.
	if created.CategorySlug != nil {
		t.Errorf("CategorySlug = %v, want nil for inactive category", created.CategorySlug)
	}
	if got := created.CanonicalPath(); got != "/content/servizio-"+suffix {
		t.Errorf("CanonicalPath = %q", got)
	}

	found, err := s.FindPublishedBySlug("servizio-" + suffix)
	if err != nil || found == nil {
		t.Fatalf("FindPublishedBySlug: %v", err)
	}
	if found.CategorySlug != nil {
		t.Error("join should not expose inactive category slugs")
	}
}

func TestContentSearchPublished(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	catID := testCategory(t, db, "Ricerca "+suffix, "ricerca-"+suffix, true)

	testListing(t, db, &models.Content{
		Type:       models.ContentTypeCourse,
		Title:      "Trovami subito " + suffix,
		Slug:       strPtr("trovami-" + suffix),
		CategoryID: &catID,
		Status:     models.ContentStatusPublished,
	})
	testListing(t, db, &models.Content{
		Type:   models.ContentTypeCourse,
		Title:  "Altro titolo " + suffix,
		Slug:   strPtr("altro-" + suffix),
		Status: models.ContentStatusPublished,
	})

	t.Run("by category", func(t *testing.T) {
		results, err := s.SearchPublished("ricerca-"+suffix, "")
		if err != nil {
			t.Fatalf("SearchPublished: %v", err)
		}
		if len(results) != 1 || *results[0].Slug != "trovami-"+suffix {
			t.Errorf("unexpected results: %+v", results)
		}
	})

	t.Run("by title substring case-insensitive", func(t *testing.T) {
		results, err := s.SearchPublished("", "TROVAMI SUBITO "+suffix)
		if err != nil {
			t.Fatalf("SearchPublished: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("got %d results, want 1", len(results))
		}
	})

	t.Run("no filters returns both", func(t *testing.T) {
		results, err := s.SearchPublished("", suffix)
		if err != nil {
			t.Fatalf("SearchPublished: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("got %d results, want 2", len(results))
		}
	})
}

func TestContentUpdate(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	created := testListing(t, db, &models.Content{
		Type:   models.ContentTypeCourse,
		Title:  "Prima " + suffix,
		Slug:   strPtr("prima-" + suffix),
		Status: models.ContentStatusDraft,
	})

	created.Title = "Dopo " + suffix
	created.Status = models.ContentStatusPublished
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if created.PublishedAt == nil {
		t.Error("publishing through Update should set PublishedAt")
	}

	reloaded, err := s.FindByID(created.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Title != "Dopo "+suffix {
		t.Errorf("Title = %q", reloaded.Title)
	}
	if reloaded.Status != models.ContentStatusPublished {
		t.Errorf("Status = %q", reloaded.Status)
	}
}

func TestContentListPublishedIncludesCategorySlug(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	suffix := uuid.New().String()[:8]
	catID := testCategory(t, db, "Elenco "+suffix, "elenco-"+suffix, true)
	created := testListing(t, db, &models.Content{
		Type:       models.ContentTypeCourse,
		Title:      "In elenco " + suffix,
		Slug:       strPtr("in-elenco-" + suffix),
		CategoryID: &catID,
		Status:     models.ContentStatusPublished,
	})

	items, err := s.ListPublished()
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}

	var found *models.Content
	for i := range items {
		if items[i].ID == created.ID {
			found = &items[i]
		}
	}
	if found == nil {
		t.Fatal("created listing missing from ListPublished")
	}
	if found.CategorySlug == nil || *found.CategorySlug != "elenco-"+suffix {
		t.Errorf("CategorySlug = %v", found.CategorySlug)
	}
}
