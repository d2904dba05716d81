package services

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

type contentFixture struct {
	content    *ContentService
	posts      *PostService
	pages      *PageService
	categories *CategoryService
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()

	db, err := utils.InitDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	return &contentFixture{
		content:    NewContentService(postRepo, pageRepo, categoryRepo),
		posts:      NewPostService(postRepo, categoryRepo),
		pages:      NewPageService(pageRepo),
		categories: NewCategoryService(categoryRepo),
	}
}

func (f *contentFixture) createPost(t *testing.T, title string, categoryID uint, draft bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		ContentMD:   "## Prvo poglavje\n\nVsebina prvega poglavja.",
		Description: "Opis.",
		CategoryID:  categoryID,
		IsDraft:     draft,
	}
	if err := f.posts.CreatePost(post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestLoadPostByCategoryAndSlug(t *testing.T) {
	f := newContentFixture(t)
	category, err := f.categories.CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	post := f.createPost(t, "Paradižnik", category.ID, false)

	loaded, err := f.content.Load(LoadRequest{
		Table:        constants.TablePosts,
		Slug:         post.Slug,
		CategorySlug: category.Slug,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Post == nil || loaded.Post.ID != post.ID {
		t.Fatalf("loaded wrong post: %+v", loaded.Post)
	}
	if !strings.Contains(string(loaded.Body), "<h2") {
		t.Errorf("body should carry compiled section headings, got %q", loaded.Body)
	}
}

func TestLoadPostWrongCategoryIsNotFound(t *testing.T) {
	f := newContentFixture(t)
	vrt, _ := f.categories.CreateCategory("Vrt")
	kuhinja, _ := f.categories.CreateCategory("Kuhinja")
	post := f.createPost(t, "Paradižnik", vrt.ID, false)

	_, err := f.content.Load(LoadRequest{
		Table:        constants.TablePosts,
		Slug:         post.Slug,
		CategorySlug: kuhinja.Slug,
	})
	if err != ErrNotFound {
		t.Errorf("wrong category = %v, want ErrNotFound", err)
	}

	_, err = f.content.Load(LoadRequest{
		Table:        constants.TablePosts,
		Slug:         post.Slug,
		CategorySlug: "neobstojeca",
	})
	if err != ErrNotFound {
		t.Errorf("unknown category = %v, want ErrNotFound", err)
	}
}

func TestLoadDraftGating(t *testing.T) {
	f := newContentFixture(t)
	category, _ := f.categories.CreateCategory("Vrt")
	draft := f.createPost(t, "Osnutek", category.ID, true)

	_, err := f.content.Load(LoadRequest{
		Table: constants.TablePosts,
		Slug:  draft.Slug,
	})
	if err != ErrNotFound {
		t.Errorf("draft without IncludeDraft = %v, want ErrNotFound", err)
	}

	loaded, err := f.content.Load(LoadRequest{
		Table:        constants.TablePosts,
		Slug:         draft.Slug,
		IncludeDraft: true,
	})
	if err != nil {
		t.Fatalf("draft with IncludeDraft failed: %v", err)
	}
	if loaded.Post.ID != draft.ID {
		t.Errorf("loaded wrong draft")
	}
}

func TestLoadPage(t *testing.T) {
	f := newContentFixture(t)

	page := &models.Page{
		Title:       "O meni",
		ContentMD:   "Nekaj **krepkega** besedila.",
		Description: "Opis.",
		ImagesURLs:  models.StringList{"https://img.example.com/a.jpg"},
	}
	if err := f.pages.CreatePage(page); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	loaded, err := f.content.Load(LoadRequest{
		Table: constants.TablePages,
		Slug:  page.Slug,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Page == nil || loaded.Page.ID != page.ID {
		t.Fatalf("loaded wrong page")
	}
	if !strings.Contains(string(loaded.Body), "<strong>") {
		t.Errorf("body should be compiled, got %q", loaded.Body)
	}
	if len(loaded.ImageURLs) != 1 {
		t.Errorf("ImageURLs = %v, want one entry", loaded.ImageURLs)
	}
}

func TestLoadUnknownTable(t *testing.T) {
	f := newContentFixture(t)
	if _, err := f.content.Load(LoadRequest{Table: "users", Slug: "x"}); err == nil {
		t.Error("unknown table must error")
	}
}
