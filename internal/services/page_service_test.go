package services

import (
	"path/filepath"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

func newPageFixture(t *testing.T) *PageService {
	t.Helper()

	db, err := utils.InitDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	return NewPageService(repository.NewPageRepository(db))
}

func fixturePage(title string, draft bool) *models.Page {
	return &models.Page{
		Title:       title,
		ContentMD:   "Vsebina strani.",
		Description: "Opis.",
		IsDraft:     draft,
	}
}

func TestCreatePageKeepsPublishFlag(t *testing.T) {
	svc := newPageFixture(t)

	page := fixturePage("O meni", false)
	if err := svc.CreatePage(page); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	stored, err := svc.GetPageByID(page.ID)
	if err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	if stored.IsDraft {
		t.Error("page created with IsDraft=false came back as a draft")
	}
	if stored.PublishedAt == nil {
		t.Error("publishing must stamp PublishedAt")
	}
}

func TestUpdatePageKeepsCreatedAt(t *testing.T) {
	svc := newPageFixture(t)

	page := fixturePage("O meni", false)
	if err := svc.CreatePage(page); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	original, err := svc.GetPageByID(page.ID)
	if err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	if original.CreatedAt.IsZero() {
		t.Fatal("created page has no CreatedAt")
	}

	update := fixturePage("O meni", false)
	update.ID = page.ID
	if err := svc.UpdatePage(update); err != nil {
		t.Fatalf("UpdatePage failed: %v", err)
	}

	after, err := svc.GetPageByID(page.ID)
	if err != nil {
		t.Fatalf("failed to reload page: %v", err)
	}
	if !after.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", original.CreatedAt, after.CreatedAt)
	}
}
