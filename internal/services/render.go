package services

import (
	"html/template"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

// RenderContent compiles a Markdown body to the HTML stored alongside it.
func RenderContent(md string) (string, error) {
	html, err := utils.RenderMarkdown(md)
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func renderPost(post *models.Post) *models.RenderedPost {
	return &models.RenderedPost{
		ID:          post.ID,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		PublishedAt: post.PublishedAt,
		Title:       post.Title,
		Slug:        post.Slug,
		Description: post.Description,
		Intro:       post.Intro,
		Conclusion:  post.Conclusion,
		Body:        template.HTML(post.ContentHTML),
		Category:    post.Category,
		CoverURL:    post.CoverURL(),
		ImageURLs:   post.Images.URLs(),
		IsDraft:     post.IsDraft,
	}
}

func renderPage(page *models.Page) *models.RenderedPage {
	return &models.RenderedPage{
		ID:            page.ID,
		UpdatedAt:     page.UpdatedAt,
		PublishedAt:   page.PublishedAt,
		Title:         page.Title,
		Slug:          page.Slug,
		Description:   page.Description,
		Body:          template.HTML(page.ContentHTML),
		CoverImageURL: page.CoverImageURL,
		ImageURLs:     page.ImagesURLs,
		IsDraft:       page.IsDraft,
	}
}
