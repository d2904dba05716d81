package repository

import (
	"github.com/fmujezinovic/mojblog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Upsert creates the subscriber or, when the email already exists, overwrites
// its token and resets the lifecycle flags. Re-subscribing with the same
// address therefore mints a fresh pending row.
func (r *SubscriberRepository) Upsert(subscriber *models.Subscriber) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"confirmation_token", "confirmed", "unsubscribed", "updated_at",
		}),
	}).Create(subscriber).Error
}

func (r *SubscriberRepository) FindByEmail(email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.Where("email = ?", email).First(&subscriber).Error
	return &subscriber, err
}

func (r *SubscriberRepository) FindByToken(token string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.Where("confirmation_token = ?", token).First(&subscriber).Error
	return &subscriber, err
}

func (r *SubscriberRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Subscriber{}).Where("id = ?", id).Updates(fields).Error
}

// FindActive returns all confirmed, non-unsubscribed recipients.
func (r *SubscriberRepository) FindActive() ([]models.Subscriber, error) {
	var subscribers []models.Subscriber
	err := r.db.
		Where("confirmed = ? AND unsubscribed = ?", true, false).
		Order("email asc").
		Find(&subscribers).Error
	return subscribers, err
}

func (r *SubscriberRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscriber{}).Count(&count).Error
	return count, err
}
