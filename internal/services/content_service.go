package services

import (
	"fmt"
	"html/template"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"gorm.io/gorm"
)

// LoadRequest addresses one content row by table and slug. CategorySlug
// narrows post lookups to a category; IncludeDraft lets the admin preview
// see unpublished rows.
type LoadRequest struct {
	Table        string
	Slug         string
	CategorySlug string
	IncludeDraft bool
}

// LoadedContent pairs the raw row with its compiled body and a flat list of
// attached image URLs. Exactly one of Post/Page is set, matching the table.
type LoadedContent struct {
	Post      *models.Post
	Page      *models.Page
	Body      template.HTML
	ImageURLs []string
}

// ContentService resolves slugs to rows and compiles their Markdown. It is
// the single lookup path shared by public pages, the admin preview and the
// feed/sitemap handlers.
type ContentService struct {
	postRepo     *repository.PostRepository
	pageRepo     *repository.PageRepository
	categoryRepo *repository.CategoryRepository
}

func NewContentService(postRepo *repository.PostRepository, pageRepo *repository.PageRepository, categoryRepo *repository.CategoryRepository) *ContentService {
	return &ContentService{
		postRepo:     postRepo,
		pageRepo:     pageRepo,
		categoryRepo: categoryRepo,
	}
}

// Load fetches one row per the request and compiles its Markdown body.
// A missing row, a missing category, or a draft requested without
// IncludeDraft all surface as ErrNotFound; callers render a 404.
func (s *ContentService) Load(req LoadRequest) (*LoadedContent, error) {
	switch req.Table {
	case constants.TablePosts:
		return s.loadPost(req)
	case constants.TablePages:
		return s.loadPage(req)
	default:
		return nil, fmt.Errorf("unknown content table %q", req.Table)
	}
}

func (s *ContentService) loadPost(req LoadRequest) (*LoadedContent, error) {
	var post *models.Post
	var err error

	if req.CategorySlug != "" {
		// Resolve the category first so a wrong category segment 404s even
		// when the post slug itself exists.
		category, catErr := s.categoryRepo.FindBySlug(req.CategorySlug)
		if catErr != nil {
			if catErr == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, catErr
		}
		post, err = s.postRepo.FindBySlugAndCategory(req.Slug, category.ID, req.IncludeDraft)
	} else {
		post, err = s.postRepo.FindBySlug(req.Slug, req.IncludeDraft)
	}

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body, err := renderBody(post.ContentHTML, post.ContentMD)
	if err != nil {
		return nil, err
	}

	return &LoadedContent{
		Post:      post,
		Body:      body,
		ImageURLs: post.Images.URLs(),
	}, nil
}

func (s *ContentService) loadPage(req LoadRequest) (*LoadedContent, error) {
	page, err := s.pageRepo.FindBySlug(req.Slug, req.IncludeDraft)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	body, err := renderBody(page.ContentHTML, page.ContentMD)
	if err != nil {
		return nil, err
	}

	urls := append([]string{}, page.ImagesURLs...)
	return &LoadedContent{
		Page:      page,
		Body:      body,
		ImageURLs: urls,
	}, nil
}

// renderBody prefers the pre-rendered HTML column and falls back to
// compiling the Markdown for rows written before rendering was stored.
func renderBody(storedHTML, md string) (template.HTML, error) {
	if storedHTML != "" {
		return template.HTML(storedHTML), nil
	}
	rendered, err := RenderContent(md)
	if err != nil {
		return "", err
	}
	return template.HTML(rendered), nil
}
