package editor

import (
	"path/filepath"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

func newPageService(t *testing.T) *services.PageService {
	t.Helper()

	db, err := utils.InitDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	return services.NewPageService(repository.NewPageRepository(db))
}

func TestPageSaveAndReload(t *testing.T) {
	pageService := newPageService(t)

	e := NewPageEditor(nil)
	e.Title = "O meni"
	e.Description = "Kdo piše ta blog."
	e.ContentMD = "Sem **Faris** in pišem o vrtu."
	e.CoverImageURL = "https://img/portret.jpg"
	e.CoverPath = "portret.jpg"
	e.IsDraft = false

	saved, err := e.Save(pageService)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Slug != "o-meni" {
		t.Errorf("slug = %q, want %q", saved.Slug, "o-meni")
	}

	stored, err := pageService.GetPageByID(saved.ID)
	if err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	loaded := LoadPage(stored, nil)
	if loaded.ContentMD != e.ContentMD || loaded.CoverPath != "portret.jpg" {
		t.Errorf("loaded editor = %+v", loaded)
	}

	// A second save with the same editor must update in place, and a
	// renamed page gets a fresh slug.
	loaded.Title = "O avtorju"
	updated, err := loaded.Save(pageService)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != saved.ID {
		t.Errorf("update created a new row: %d != %d", updated.ID, saved.ID)
	}
	reloaded, err := pageService.GetPageByID(saved.ID)
	if err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	if reloaded.Slug != "o-avtorju" {
		t.Errorf("slug after rename = %q, want %q", reloaded.Slug, "o-avtorju")
	}
}

func TestPageValidate(t *testing.T) {
	e := NewPageEditor(nil)
	e.Title = "O meni"
	e.Description = "Opis."
	if err := e.Validate(); err == nil {
		t.Error("empty body must fail validation")
	}
	e.ContentMD = "Vsebina."
	if err := e.Validate(); err != nil {
		t.Errorf("complete page should validate, got %v", err)
	}
}

func TestPageSetCoverImageRemovesStored(t *testing.T) {
	remover := &fakeRemover{}
	e := NewPageEditor(remover)
	e.SetCoverImage(models.ImageRef{URL: "https://img/a.jpg", Path: "a.jpg"})
	e.SetCoverImage(models.ImageRef{URL: "https://stock/b.jpg"})

	if len(remover.removed) != 1 || remover.removed[0] != "a.jpg" {
		t.Errorf("removed = %v, want [a.jpg]", remover.removed)
	}
}
