package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscriber is one newsletter address. The confirmation token is minted on
// signup and never rotated: the same token is the identity key for confirm,
// unsubscribe and resubscribe links.
type Subscriber struct {
	gorm.Model
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	ConfirmationToken string     `gorm:"uniqueIndex;not null" json:"-"`
	Confirmed         bool       `gorm:"default:false" json:"confirmed"`
	Unsubscribed      bool       `gorm:"default:false" json:"unsubscribed"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at"`
	ResubscribedAt    *time.Time `json:"resubscribed_at"`
}

func (Subscriber) TableName() string {
	return "emails"
}

// Active reports whether the subscriber should receive campaigns.
func (s *Subscriber) Active() bool {
	return s.Confirmed && !s.Unsubscribed
}

// Campaign is a write-only audit row recorded after each broadcast.
// SentTo counts attempted recipients, not provider-confirmed deliveries.
type Campaign struct {
	gorm.Model
	Subject string `gorm:"not null" json:"subject"`
	Body    string `gorm:"type:text" json:"body"`
	SentTo  int    `json:"sent_to"`
}

func (Campaign) TableName() string {
	return "newsletter_campaigns"
}
