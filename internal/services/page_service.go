package services

import (
	"fmt"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"github.com/gosimple/slug"
)

type PageService struct {
	repo *repository.PageRepository
}

func NewPageService(repo *repository.PageRepository) *PageService {
	return &PageService{repo: repo}
}

func (s *PageService) CreatePage(page *models.Page) error {
	slugStr, err := s.generateUniqueSlug(page.Title, 0)
	if err != nil {
		return err
	}
	page.Slug = slugStr

	htmlContent, err := RenderContent(page.ContentMD)
	if err != nil {
		return err
	}
	page.ContentHTML = htmlContent

	if !page.IsDraft && page.PublishedAt == nil {
		now := time.Now()
		page.PublishedAt = &now
	}

	return s.repo.Create(page)
}

func (s *PageService) UpdatePage(page *models.Page) error {
	existing, err := s.repo.FindByID(page.ID)
	if err != nil {
		return err
	}
	// Save writes all columns, so the original creation time must be
	// carried over from the stored row.
	page.CreatedAt = existing.CreatedAt

	if existing.Title != page.Title {
		newSlug, err := s.generateUniqueSlug(page.Title, page.ID)
		if err != nil {
			return err
		}
		page.Slug = newSlug
	} else {
		page.Slug = existing.Slug
	}

	htmlContent, err := RenderContent(page.ContentMD)
	if err != nil {
		return err
	}
	page.ContentHTML = htmlContent

	if !page.IsDraft && page.PublishedAt == nil {
		now := time.Now()
		page.PublishedAt = &now
	}

	return s.repo.Update(page)
}

func (s *PageService) DeletePage(id uint) error {
	return s.repo.Delete(id)
}

func (s *PageService) GetPageByID(id uint) (*models.Page, error) {
	return s.repo.FindByID(id)
}

func (s *PageService) GetAllPages() ([]models.Page, error) {
	return s.repo.FindAll()
}

func (s *PageService) GetAllPublished() ([]models.Page, error) {
	return s.repo.FindAllPublished()
}

func (s *PageService) RenderPage(page *models.Page) *models.RenderedPage {
	return renderPage(page)
}

func (s *PageService) generateUniqueSlug(title string, pageID uint) (string, error) {
	baseSlug := slug.Make(title)
	if baseSlug == "" {
		baseSlug = "untitled"
	}
	finalSlug := baseSlug
	counter := 1
	for {
		var exists bool
		var err error
		if pageID == 0 {
			exists, err = s.repo.CheckSlugExists(finalSlug)
		} else {
			exists, err = s.repo.CheckSlugExistsForOtherPage(finalSlug, pageID)
		}

		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		finalSlug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
	return finalSlug, nil
}

// GetAllPagesForBackup retrieves all pages in the portable backup shape.
func (s *PageService) GetAllPagesForBackup() ([]models.PageBackup, error) {
	pages, err := s.repo.FindAllForBackup()
	if err != nil {
		return nil, err
	}

	backupPages := make([]models.PageBackup, len(pages))
	for i, p := range pages {
		backupPages[i] = models.PageBackup{
			Title:         p.Title,
			ContentMD:     p.ContentMD,
			Description:   p.Description,
			CoverImageURL: p.CoverImageURL,
			ImagesURLs:    p.ImagesURLs,
			IsDraft:       p.IsDraft,
			PublishedAt:   p.PublishedAt,
		}
	}
	return backupPages, nil
}

// CreatePagesFromBackup imports pages one by one; slugs are re-derived so
// collisions with existing pages get a counter suffix instead of failing.
func (s *PageService) CreatePagesFromBackup(pages []models.PageBackup) error {
	for _, p := range pages {
		page := &models.Page{
			Title:         p.Title,
			ContentMD:     p.ContentMD,
			Description:   p.Description,
			CoverImageURL: p.CoverImageURL,
			ImagesURLs:    p.ImagesURLs,
			IsDraft:       p.IsDraft,
			PublishedAt:   p.PublishedAt,
		}
		if err := s.CreatePage(page); err != nil {
			return fmt.Errorf("failed to import page %q: %w", p.Title, err)
		}
	}
	return nil
}
