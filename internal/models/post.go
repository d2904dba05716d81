package models

import (
	"html/template"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	gorm.Model
	Title       string       `gorm:"not null" json:"title" form:"title"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	ContentMD   string       `gorm:"type:text;not null" json:"content_md" form:"content_md"`
	ContentHTML string       `gorm:"type:text" json:"-"`
	Description string       `gorm:"size:160" json:"description" form:"description"`
	Intro       string       `gorm:"type:text" json:"intro" form:"intro"`
	Conclusion  string       `gorm:"type:text" json:"conclusion" form:"conclusion"`
	CategoryID  uint         `gorm:"index" json:"category_id" form:"category_id"`
	Category    Category     `json:"category"`
	Images      ImageRefList `gorm:"type:text" json:"images"`
	IsDraft     bool         `json:"is_draft" form:"is_draft"`
	PublishedAt *time.Time   `json:"published_at"`
}

// CoverURL returns the cover image URL, or "" when none is set.
func (p *Post) CoverURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// RenderedPost is a view model for displaying a post with rendered HTML content.
type RenderedPost struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
	Title       string
	Slug        string
	Description string
	Intro       string
	Conclusion  string
	Body        template.HTML // Use template.HTML to prevent escaping
	Category    Category
	CoverURL    string
	ImageURLs   []string
	IsDraft     bool
}

// PostBackup is the portable shape used by export/import and scheduled backups.
type PostBackup struct {
	Title       string       `json:"title"`
	ContentMD   string       `json:"content_md"`
	Description string       `json:"description"`
	Intro       string       `json:"intro,omitempty"`
	Conclusion  string       `json:"conclusion,omitempty"`
	Category    string       `json:"category"`
	Images      ImageRefList `json:"images,omitempty"`
	IsDraft     bool         `json:"is_draft"`
	PublishedAt *time.Time   `json:"published_at,omitempty"`
}
