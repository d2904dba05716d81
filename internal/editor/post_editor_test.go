package editor

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

// fakeRemover records which stored objects the editor asked to delete.
type fakeRemover struct {
	removed []string
}

func (f *fakeRemover) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func newEditorFixture(t *testing.T) (*services.PostService, uint) {
	t.Helper()

	db, err := utils.InitDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postService := services.NewPostService(postRepo, categoryRepo)

	category, err := services.NewCategoryService(categoryRepo).CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return postService, category.ID
}

func completeEditor(categoryID uint) *PostEditor {
	e := NewPostEditor(nil)
	e.Title = "Zapis o paradižniku"
	e.Description = "Kratek opis zapisa."
	e.CategoryID = categoryID
	e.UpdateSection(0, "Sajenje", "Paradižnik sadimo maja.")
	return e
}

func TestValidateRejectsIncompleteState(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PostEditor)
	}{
		{"missing title", func(e *PostEditor) { e.Title = "" }},
		{"missing category", func(e *PostEditor) { e.CategoryID = 0 }},
		{"missing description", func(e *PostEditor) { e.Description = "" }},
		{"description too long", func(e *PostEditor) { e.Description = strings.Repeat("č", 161) }},
		{"no complete section", func(e *PostEditor) { e.Sections[0].Content = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := completeEditor(1)
			tc.mutate(e)
			err := e.Validate()
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("Validate() = %v, want *ValidationError", err)
			}
		})
	}

	// The 160-rune boundary itself is fine.
	e := completeEditor(1)
	e.Description = strings.Repeat("č", 160)
	if err := e.Validate(); err != nil {
		t.Errorf("160-rune description should pass, got %v", err)
	}
}

func TestSaveComposesMarkdownAndImages(t *testing.T) {
	postService, categoryID := newEditorFixture(t)

	e := completeEditor(categoryID)
	e.Cover = models.ImageRef{URL: "https://img/cover.jpg", Path: "cover.jpg"}
	e.AddSection()
	e.UpdateSection(1, "Zalivanje", "Zalivamo zjutraj.")
	e.SetSectionImage(1, models.ImageRef{URL: "https://img/zalivanje.jpg", Path: "zalivanje.jpg"})

	post, err := e.Save(postService)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	wantMD := "## Sajenje\n\nParadižnik sadimo maja.\n\n## Zalivanje\n\nZalivamo zjutraj."
	if post.ContentMD != wantMD {
		t.Errorf("ContentMD = %q, want %q", post.ContentMD, wantMD)
	}

	// Cover at index 0, then one ref per section.
	wantImages := models.ImageRefList{
		{URL: "https://img/cover.jpg", Path: "cover.jpg"},
		{},
		{URL: "https://img/zalivanje.jpg", Path: "zalivanje.jpg"},
	}
	if !reflect.DeepEqual(post.Images, wantImages) {
		t.Errorf("Images = %+v, want %+v", post.Images, wantImages)
	}

	if e.ID != post.ID {
		t.Errorf("editor must adopt the new post ID")
	}
}

func TestSaveDropsImageSlotsOfIncompleteSections(t *testing.T) {
	postService, categoryID := newEditorFixture(t)

	// An abandoned half-filled section sits above the real one; only the
	// complete section reaches the stored Markdown, and its image must stay
	// attached to it on reload.
	e := NewPostEditor(nil)
	e.Title = "Zapis o sivki"
	e.Description = "Kratek opis."
	e.CategoryID = categoryID
	e.UpdateSection(0, "Nedokončano", "")
	e.AddSection()
	e.UpdateSection(1, "Sajenje", "Sivko sadimo spomladi.")
	e.SetSectionImage(1, models.ImageRef{URL: "https://img/sivka.jpg", Path: "sivka.jpg"})

	saved, err := e.Save(postService)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(saved.Images) != 2 {
		t.Fatalf("Images = %d entries, want 2 (cover + one section)", len(saved.Images))
	}

	stored, err := postService.GetPostByID(saved.ID)
	if err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	loaded := LoadPost(stored, nil)
	if len(loaded.Sections) != 1 {
		t.Fatalf("loaded sections = %d, want 1", len(loaded.Sections))
	}
	if loaded.Sections[0].ImageURL != "https://img/sivka.jpg" {
		t.Errorf("section image = %q, want the image of the complete section", loaded.Sections[0].ImageURL)
	}
	if loaded.Sections[0].UploadedImagePath != "sivka.jpg" {
		t.Errorf("section stored path = %q", loaded.Sections[0].UploadedImagePath)
	}
}

func TestSaveValidationLeavesNothingBehind(t *testing.T) {
	postService, categoryID := newEditorFixture(t)

	e := completeEditor(categoryID)
	e.Title = ""
	if _, err := e.Save(postService); err == nil {
		t.Fatal("Save without a title must fail")
	}
	if e.ID != 0 {
		t.Error("failed save must not assign an ID")
	}
}

func TestLoadPostRoundTrip(t *testing.T) {
	postService, categoryID := newEditorFixture(t)

	e := completeEditor(categoryID)
	e.Cover = models.ImageRef{URL: "https://img/cover.jpg", Path: "cover.jpg"}
	e.AddSection()
	e.UpdateSection(1, "Zalivanje", "Zalivamo zjutraj.")
	e.SetSectionImage(1, models.ImageRef{URL: "https://img/z.jpg", Path: "z.jpg"})

	saved, err := e.Save(postService)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := postService.GetPostByID(saved.ID)
	if err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}

	loaded := LoadPost(stored, nil)
	if loaded.Title != e.Title || loaded.CategoryID != e.CategoryID {
		t.Errorf("loaded editor header = %q/%d", loaded.Title, loaded.CategoryID)
	}
	if loaded.Cover.URL != "https://img/cover.jpg" || loaded.Cover.Path != "cover.jpg" {
		t.Errorf("loaded cover = %+v", loaded.Cover)
	}
	if len(loaded.Sections) != 2 {
		t.Fatalf("loaded sections = %d, want 2", len(loaded.Sections))
	}
	if loaded.Sections[1].Heading != "Zalivanje" || loaded.Sections[1].ImageURL != "https://img/z.jpg" {
		t.Errorf("section 1 = %+v", loaded.Sections[1])
	}
	if loaded.Sections[1].UploadedImagePath != "z.jpg" {
		t.Errorf("section 1 stored path = %q", loaded.Sections[1].UploadedImagePath)
	}
}

func TestImageReplacementRemovesStoredObjects(t *testing.T) {
	remover := &fakeRemover{}
	e := NewPostEditor(remover)
	e.Cover = models.ImageRef{URL: "https://img/old.jpg", Path: "old.jpg"}

	// A stock-photo cover has no stored path, so nothing to delete there.
	e.SetCoverImage(models.ImageRef{URL: "https://img/new.jpg", Path: "new.jpg"})
	e.SetCoverImage(models.ImageRef{URL: "https://stock/choice.jpg"})

	e.SetSectionImage(0, models.ImageRef{URL: "https://img/s.jpg", Path: "s.jpg"})
	e.DeleteSection(0)

	want := []string{"old.jpg", "new.jpg", "s.jpg"}
	if !reflect.DeepEqual(remover.removed, want) {
		t.Errorf("removed = %v, want %v", remover.removed, want)
	}
}

func TestSectionIndexBounds(t *testing.T) {
	e := NewPostEditor(nil)
	if err := e.UpdateSection(5, "x", "y"); err == nil {
		t.Error("UpdateSection out of range must fail")
	}
	if err := e.DeleteSection(-1); err == nil {
		t.Error("DeleteSection out of range must fail")
	}
	if err := e.SetSectionImage(1, models.ImageRef{}); err == nil {
		t.Error("SetSectionImage out of range must fail")
	}
}
