package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name string `gorm:"not null" json:"name" form:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}
