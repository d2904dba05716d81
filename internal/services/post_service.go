package services

import (
	"fmt"
	"log"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type PostService struct {
	repo         *repository.PostRepository
	categoryRepo *repository.CategoryRepository
}

func NewPostService(repo *repository.PostRepository, categoryRepo *repository.CategoryRepository) *PostService {
	return &PostService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// CreatePost renders, slugs and persists a composed post, then indexes it.
// The caller (editor or API) is responsible for validation and for composing
// ContentMD out of its sections.
func (s *PostService) CreatePost(post *models.Post) error {
	slugStr, err := s.generateUniqueSlug(post.Title, 0)
	if err != nil {
		return err
	}
	post.Slug = slugStr

	htmlContent, err := RenderContent(post.ContentMD)
	if err != nil {
		return err
	}
	post.ContentHTML = htmlContent

	if !post.IsDraft && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(post); err != nil {
		return err
	}

	if err := s.repo.UpdateFtsIndex(post.ID, post.Title, post.ContentMD); err != nil {
		// Index failures must not lose the post itself.
		log.Printf("failed to update FTS index for post ID %d: %v", post.ID, err)
	}

	return nil
}

// UpdatePost persists changes to an existing post. The slug is regenerated
// only when the title changed, so published URLs stay stable.
func (s *PostService) UpdatePost(post *models.Post) error {
	existing, err := s.repo.FindByID(post.ID)
	if err != nil {
		return err
	}
	// Save writes all columns, so the original creation time must be
	// carried over from the stored row.
	post.CreatedAt = existing.CreatedAt

	if existing.Title != post.Title {
		newSlug, err := s.generateUniqueSlug(post.Title, post.ID)
		if err != nil {
			return err
		}
		post.Slug = newSlug
	} else {
		post.Slug = existing.Slug
	}

	htmlContent, err := RenderContent(post.ContentMD)
	if err != nil {
		return err
	}
	post.ContentHTML = htmlContent

	if !post.IsDraft && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Update(post); err != nil {
		return err
	}

	if err := s.repo.UpdateFtsIndex(post.ID, post.Title, post.ContentMD); err != nil {
		log.Printf("failed to update FTS index for post ID %d: %v", post.ID, err)
	}

	return nil
}

func (s *PostService) DeletePost(id uint) error {
	if err := s.repo.DeleteFtsIndex(id); err != nil {
		// Log the error but continue with post deletion.
		log.Printf("failed to delete FTS index for post ID %d: %v", id, err)
	}
	return s.repo.Delete(id)
}

func (s *PostService) GetPostByID(id uint) (*models.Post, error) {
	return s.repo.FindByID(id)
}

// RebuildSearchIndex drops and repopulates the full-text index from the
// posts table.
func (s *PostService) RebuildSearchIndex() error {
	return s.repo.RebuildFtsIndex()
}

func (s *PostService) GetPublishedPage(page, pageSize int) ([]models.RenderedPost, int, error) {
	posts, err := s.repo.FindPublishedPage(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublished()
	if err != nil {
		return nil, 0, err
	}
	return s.renderPosts(posts), int(total), nil
}

func (s *PostService) GetPublishedPageByCategory(categorySlug string, page, pageSize int) ([]models.RenderedPost, *models.Category, int, error) {
	category, err := s.categoryRepo.FindBySlug(categorySlug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, 0, ErrNotFound
		}
		return nil, nil, 0, err
	}

	posts, err := s.repo.FindPublishedPageByCategory(category.ID, page, pageSize)
	if err != nil {
		return nil, nil, 0, err
	}
	total, err := s.repo.CountPublishedByCategory(category.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	return s.renderPosts(posts), category, int(total), nil
}

func (s *PostService) SearchPublishedPostsPage(query string, page, pageSize int) ([]models.RenderedPost, int, error) {
	posts, err := s.repo.SearchPublishedPage(query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublishedByQuery(query)
	if err != nil {
		return nil, 0, err
	}
	return s.renderPosts(posts), int(total), nil
}

func (s *PostService) GetPostsPageByAdmin(page, pageSize int, query, status string) ([]models.Post, int, error) {
	posts, err := s.repo.FindAllByAdmin(page, pageSize, query, status)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAllByAdmin(query, status)
	if err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

// GetAllPublished returns rendered published posts, newest first; used by
// the sitemap and feed handlers.
func (s *PostService) GetAllPublished() ([]models.Post, error) {
	return s.repo.FindAllPublished()
}

func (s *PostService) GetLatestPublished() (*models.Post, error) {
	post, err := s.repo.FindLatestPublished()
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// PublishScheduled flips drafts whose publish time has arrived. Returns how
// many posts went live.
func (s *PostService) PublishScheduled(now time.Time) (int, error) {
	posts, err := s.repo.FindScheduled(now)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range posts {
		posts[i].IsDraft = false
		if err := s.repo.Update(&posts[i]); err != nil {
			log.Printf("failed to publish scheduled post %q: %v", posts[i].Title, err)
			continue
		}
		published++
	}
	return published, nil
}

func (s *PostService) RenderPost(post *models.Post) *models.RenderedPost {
	return renderPost(post)
}

func (s *PostService) renderPosts(posts []models.Post) []models.RenderedPost {
	rendered := make([]models.RenderedPost, len(posts))
	for i := range posts {
		rendered[i] = *renderPost(&posts[i])
	}
	return rendered
}

// generateUniqueSlug checks for slug uniqueness and appends a counter if needed.
func (s *PostService) generateUniqueSlug(title string, postID uint) (string, error) {
	baseSlug := slug.Make(title)
	if baseSlug == "" {
		baseSlug = "untitled"
	}
	finalSlug := baseSlug
	counter := 1
	for {
		var exists bool
		var err error
		if postID == 0 {
			exists, err = s.repo.CheckSlugExists(finalSlug)
		} else {
			exists, err = s.repo.CheckSlugExistsForOtherPost(finalSlug, postID)
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

// GetAllPostsForBackup retrieves all posts in the portable backup shape.
func (s *PostService) GetAllPostsForBackup() ([]models.PostBackup, error) {
	posts, err := s.repo.FindAllForBackup()
	if err != nil {
		return nil, err
	}

	backupPosts := make([]models.PostBackup, len(posts))
	for i, p := range posts {
		backupPosts[i] = models.PostBackup{
			Title:       p.Title,
			ContentMD:   p.ContentMD,
			Description: p.Description,
			Intro:       p.Intro,
			Conclusion:  p.Conclusion,
			Category:    p.Category.Name,
			Images:      p.Images,
			IsDraft:     p.IsDraft,
			PublishedAt: p.PublishedAt,
		}
	}
	return backupPosts, nil
}

// CreatePostsFromBackup imports posts inside one transaction, resolving or
// creating their categories by name. Any failure rolls the whole import back.
func (s *PostService) CreatePostsFromBackup(posts []models.PostBackup) error {
	return s.repo.GetDB().Transaction(func(tx *gorm.DB) error {
		txService := NewPostService(repository.NewPostRepository(tx), repository.NewCategoryRepository(tx))

		for _, p := range posts {
			categoryID, err := txService.ensureCategory(p.Category)
			if err != nil {
				return fmt.Errorf("failed to resolve category %q: %w", p.Category, err)
			}

			post := &models.Post{
				Title:       p.Title,
				ContentMD:   p.ContentMD,
				Description: p.Description,
				Intro:       p.Intro,
				Conclusion:  p.Conclusion,
				CategoryID:  categoryID,
				Images:      p.Images,
				IsDraft:     p.IsDraft,
				PublishedAt: p.PublishedAt,
			}
			if err := txService.CreatePost(post); err != nil {
				return fmt.Errorf("failed to import post %q: %w", p.Title, err)
			}
		}
		return nil
	})
}

func (s *PostService) ensureCategory(name string) (uint, error) {
	if name == "" {
		name = "Splošno"
	}
	category, err := s.categoryRepo.FindByName(name)
	if err == nil {
		return category.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	created := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categoryRepo.Create(created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
