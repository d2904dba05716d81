package editor

import (
	"fmt"
	"log"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/services"
)

// PageEditor is the edit-form state for one static page. Pages have no
// sections or category; the Markdown body is edited directly.
type PageEditor struct {
	ID            uint
	Title         string
	Description   string
	ContentMD     string
	CoverImageURL string
	CoverPath     string
	ImagesURLs    models.StringList
	IsDraft       bool
	PublishedAt   *time.Time

	storage ObjectRemover
}

func NewPageEditor(storage ObjectRemover) *PageEditor {
	return &PageEditor{
		IsDraft: true,
		storage: storage,
	}
}

func LoadPage(page *models.Page, storage ObjectRemover) *PageEditor {
	return &PageEditor{
		ID:            page.ID,
		Title:         page.Title,
		Description:   page.Description,
		ContentMD:     page.ContentMD,
		CoverImageURL: page.CoverImageURL,
		CoverPath:     page.CoverPath,
		ImagesURLs:    page.ImagesURLs,
		IsDraft:       page.IsDraft,
		PublishedAt:   page.PublishedAt,
		storage:       storage,
	}
}

// SetCoverImage replaces the cover, deleting the previously stored object
// when there was one.
func (e *PageEditor) SetCoverImage(ref models.ImageRef) {
	if e.CoverPath != "" && e.storage != nil {
		if err := e.storage.Remove(e.CoverPath); err != nil {
			log.Printf("failed to remove stored image %q: %v", e.CoverPath, err)
		}
	}
	e.CoverImageURL = ref.URL
	e.CoverPath = ref.Path
}

func (e *PageEditor) Validate() error {
	if e.Title == "" {
		return &ValidationError{Message: "Naslov ne sme biti prazen."}
	}
	if e.Description == "" {
		return &ValidationError{Message: "Opis ne sme biti prazen."}
	}
	if len([]rune(e.Description)) > maxDescriptionLen {
		return &ValidationError{Message: fmt.Sprintf("Opis sme imeti največ %d znakov.", maxDescriptionLen)}
	}
	if e.ContentMD == "" {
		return &ValidationError{Message: "Vsebina ne sme biti prazna."}
	}
	return nil
}

func (e *PageEditor) Save(pageService *services.PageService) (*models.Page, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	page := &models.Page{
		Title:         e.Title,
		Description:   e.Description,
		ContentMD:     e.ContentMD,
		CoverImageURL: e.CoverImageURL,
		CoverPath:     e.CoverPath,
		ImagesURLs:    e.ImagesURLs,
		IsDraft:       e.IsDraft,
		PublishedAt:   e.PublishedAt,
	}

	if e.ID == 0 {
		if err := pageService.CreatePage(page); err != nil {
			return nil, err
		}
		e.ID = page.ID
		return page, nil
	}

	page.ID = e.ID
	if err := pageService.UpdatePage(page); err != nil {
		return nil, err
	}
	return page, nil
}
