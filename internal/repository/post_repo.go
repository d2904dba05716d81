package repository

import (
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PostRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Category").First(&post, id).Error
	return &post, err
}

// FindBySlug resolves a post purely by slug. Drafts are filtered out unless
// includeDraft is set (admin preview needs them).
func (r *PostRepository) FindBySlug(slug string, includeDraft bool) (*models.Post, error) {
	var post models.Post
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if !includeDraft {
		query = query.Where("is_draft = ?", false)
	}
	err := query.First(&post).Error
	return &post, err
}

// FindBySlugAndCategory resolves a post by slug within one category.
func (r *PostRepository) FindBySlugAndCategory(slug string, categoryID uint, includeDraft bool) (*models.Post, error) {
	var post models.Post
	query := r.db.Preload("Category").Where("slug = ? AND category_id = ?", slug, categoryID)
	if !includeDraft {
		query = query.Where("is_draft = ?", false)
	}
	err := query.First(&post).Error
	return &post, err
}

func (r *PostRepository) CheckSlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) CheckSlugExistsForOtherPost(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) publishedQuery() *gorm.DB {
	return r.db.Preload("Category").
		Where("is_draft = ?", false).
		Order("published_at desc")
}

func (r *PostRepository) FindPublishedPage(page, pageSize int) ([]models.Post, error) {
	var posts []models.Post
	offset := (page - 1) * pageSize
	err := r.publishedQuery().Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountPublished() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("is_draft = ?", false).Count(&count).Error
	return count, err
}

func (r *PostRepository) FindPublishedPageByCategory(categoryID uint, page, pageSize int) ([]models.Post, error) {
	var posts []models.Post
	offset := (page - 1) * pageSize
	err := r.publishedQuery().
		Where("category_id = ?", categoryID).
		Offset(offset).Limit(pageSize).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountPublishedByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("is_draft = ? AND category_id = ?", false, categoryID).
		Count(&count).Error
	return count, err
}

// FindAllPublished returns every published post, newest first. Used by the
// sitemap, the RSS feed and the latest-post newsletter.
func (r *PostRepository) FindAllPublished() ([]models.Post, error) {
	var posts []models.Post
	err := r.publishedQuery().Find(&posts).Error
	return posts, err
}

func (r *PostRepository) FindLatestPublished() (*models.Post, error) {
	var post models.Post
	err := r.publishedQuery().First(&post).Error
	return &post, err
}

// FindScheduled returns drafts whose publish time has arrived; the scheduler
// flips them to published.
func (r *PostRepository) FindScheduled(now time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Where("is_draft = ? AND published_at IS NOT NULL AND published_at <= ?", true, now).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) FindAllByAdmin(page, pageSize int, query, status string) ([]models.Post, error) {
	var posts []models.Post
	dbQuery := r.db.Preload("Category").Order("updated_at desc")

	switch status {
	case "draft":
		dbQuery = dbQuery.Where("is_draft = ?", true)
	case "published":
		dbQuery = dbQuery.Where("is_draft = ?", false)
	}
	if query != "" {
		subQuery := r.db.Table("posts_fts").Select("rowid").Where("posts_fts MATCH ?", query)
		dbQuery = dbQuery.Where("id IN (?)", subQuery)
	}

	offset := (page - 1) * pageSize
	err := dbQuery.Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountAllByAdmin(query, status string) (int64, error) {
	var count int64
	dbQuery := r.db.Model(&models.Post{})

	switch status {
	case "draft":
		dbQuery = dbQuery.Where("is_draft = ?", true)
	case "published":
		dbQuery = dbQuery.Where("is_draft = ?", false)
	}
	if query != "" {
		subQuery := r.db.Table("posts_fts").Select("rowid").Where("posts_fts MATCH ?", query)
		dbQuery = dbQuery.Where("id IN (?)", subQuery)
	}

	err := dbQuery.Count(&count).Error
	return count, err
}

func (r *PostRepository) SearchPublishedPage(ftsQuery string, page, pageSize int) ([]models.Post, error) {
	var posts []models.Post
	offset := (page - 1) * pageSize
	err := r.db.Table("posts").
		Select("posts.*, posts_fts.rank").
		Joins("JOIN posts_fts ON posts.id = posts_fts.rowid").
		Where("posts_fts MATCH ?", ftsQuery).
		Where("posts.is_draft = ?", false).
		Order("posts_fts.rank").
		Offset(offset).Limit(pageSize).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountPublishedByQuery(ftsQuery string) (int64, error) {
	var count int64
	subQuery := r.db.Table("posts_fts").Select("rowid").Where("posts_fts MATCH ?", ftsQuery)
	err := r.db.Model(&models.Post{}).
		Where("id IN (?)", subQuery).
		Where("is_draft = ?", false).
		Count(&count).Error
	return count, err
}

func (r *PostRepository) UpdateFtsIndex(id uint, title, content string) error {
	query := `INSERT OR REPLACE INTO posts_fts (rowid, title, content) VALUES (?, ?, ?)`
	return r.db.Exec(query, id, title, content).Error
}

func (r *PostRepository) DeleteFtsIndex(id uint) error {
	query := `DELETE FROM posts_fts WHERE rowid = ?`
	return r.db.Exec(query, id).Error
}

func (r *PostRepository) RebuildFtsIndex() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM posts_fts").Error; err != nil {
			return err
		}

		var posts []models.Post
		if err := tx.Select("id, title, content_md").Find(&posts).Error; err != nil {
			return err
		}

		for _, post := range posts {
			query := `INSERT OR REPLACE INTO posts_fts (rowid, title, content) VALUES (?, ?, ?)`
			if err := tx.Exec(query, post.ID, post.Title, post.ContentMD).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostRepository) FindAllForBackup() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Category").Order("id asc").Find(&posts).Error
	return posts, err
}

func (r *PostRepository) GetDB() *gorm.DB {
	return r.db
}
