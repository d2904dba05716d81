package services

import (
	"errors"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ErrCategoryInUse is returned when deleting a category that still has posts.
var ErrCategoryInUse = errors.New("category still has posts")

type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{
		Name: name,
		Slug: slug.Make(name),
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(id uint, name string) (*models.Category, error) {
	category, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Slug = slug.Make(name)
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(id uint) error {
	count, err := s.repo.CountPosts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}

func (s *CategoryService) GetCategoryBySlug(categorySlug string) (*models.Category, error) {
	category, err := s.repo.FindBySlug(categorySlug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.FindAll()
}
