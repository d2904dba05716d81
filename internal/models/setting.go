package models

import "gorm.io/gorm"

// Setting stores a site-level key/value configuration entry.
type Setting struct {
	gorm.Model
	Key   string `gorm:"type:varchar(255);uniqueIndex"`
	Value string `gorm:"type:text"`
}

// SiteBackup is the full export written by the backup service.
type SiteBackup struct {
	Posts      []PostBackup      `json:"posts"`
	Pages      []PageBackup      `json:"pages"`
	Categories []string          `json:"categories"`
	Settings   map[string]string `json:"settings"`
}
