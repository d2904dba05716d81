package models

import (
	"html/template"
	"time"

	"gorm.io/gorm"
)

// Page is standalone content (about, contact, ...) without sections or
// categories but with the same draft/publish lifecycle as posts.
type Page struct {
	gorm.Model
	Title         string     `gorm:"not null" json:"title" form:"title"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	ContentMD     string     `gorm:"type:text;not null" json:"content_md" form:"content_md"`
	ContentHTML   string     `gorm:"type:text" json:"-"`
	Description   string     `gorm:"size:160" json:"description" form:"description"`
	CoverImageURL string     `json:"cover_image_url" form:"cover_image_url"`
	CoverPath     string     `json:"cover_path"`
	ImagesURLs    StringList `gorm:"type:text" json:"images_urls"`
	IsDraft       bool       `json:"is_draft" form:"is_draft"`
	PublishedAt   *time.Time `json:"published_at"`
}

// RenderedPage is the template view model for a page.
type RenderedPage struct {
	ID            uint
	UpdatedAt     time.Time
	PublishedAt   *time.Time
	Title         string
	Slug          string
	Description   string
	Body          template.HTML
	CoverImageURL string
	ImageURLs     []string
	IsDraft       bool
}

// PageBackup is the portable shape used by export/import.
type PageBackup struct {
	Title         string     `json:"title"`
	ContentMD     string     `json:"content_md"`
	Description   string     `json:"description"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	ImagesURLs    StringList `json:"images_urls,omitempty"`
	IsDraft       bool       `json:"is_draft"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}
