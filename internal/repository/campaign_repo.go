package repository

import (
	"github.com/fmujezinovic/mojblog/internal/models"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

func (r *CampaignRepository) FindPage(page, pageSize int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	offset := (page - 1) * pageSize
	err := r.db.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&campaigns).Error
	return campaigns, err
}

func (r *CampaignRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).Count(&count).Error
	return count, err
}
