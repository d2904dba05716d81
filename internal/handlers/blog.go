package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-gonic/gin"
)

const postsPerPage = 10

type BlogHandler struct {
	postService     *services.PostService
	pageService     *services.PageService
	categoryService *services.CategoryService
	contentService  *services.ContentService
}

func NewBlogHandler(postService *services.PostService, pageService *services.PageService, categoryService *services.CategoryService, contentService *services.ContentService) *BlogHandler {
	return &BlogHandler{
		postService:     postService,
		pageService:     pageService,
		categoryService: categoryService,
		contentService:  contentService,
	}
}

func (h *BlogHandler) Index(c *gin.Context) {
	// Preload the critical assets via the Link header.
	header := c.Writer.Header()
	header.Add("Link", `</static/css/style.css>; rel=preload; as=style`)
	header.Add("Link", `</static/js/main.js>; rel=preload; as=script`)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, total, err := h.postService.GetPublishedPage(page, postsPerPage)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Nalaganje zapisov ni uspelo.",
		})
		return
	}

	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Nalaganje kategorij ni uspelo.",
		})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "index.html", gin.H{
		"posts":      posts,
		"categories": categories,
		"Pagination": pagination,
		"is_index":   true,
	})
}

func (h *BlogHandler) ShowCategory(c *gin.Context) {
	categorySlug := c.Param("category")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, category, total, err := h.postService.GetPublishedPageByCategory(categorySlug, page, postsPerPage)
	if err != nil {
		if err == services.ErrNotFound {
			render(c, http.StatusNotFound, "404.html", gin.H{})
			return
		}
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Nalaganje kategorije ni uspelo.",
		})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "category.html", gin.H{
		"posts":      posts,
		"category":   category,
		"Pagination": pagination,
	})
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	content, err := h.contentService.Load(services.LoadRequest{
		Table:        constants.TablePosts,
		Slug:         c.Param("slug"),
		CategorySlug: c.Param("category"),
	})
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"post": h.postService.RenderPost(content.Post),
	})
}

func (h *BlogHandler) ShowPage(c *gin.Context) {
	content, err := h.contentService.Load(services.LoadRequest{
		Table: constants.TablePages,
		Slug:  c.Param("slug"),
	})
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	render(c, http.StatusOK, "page.html", gin.H{
		"page": h.pageService.RenderPage(content.Page),
	})
}

// PreviewPost is mounted behind the access guard: the loader is asked to
// include drafts so authors can proof unpublished work.
func (h *BlogHandler) PreviewPost(c *gin.Context) {
	content, err := h.contentService.Load(services.LoadRequest{
		Table:        constants.TablePosts,
		Slug:         c.Param("slug"),
		IncludeDraft: true,
	})
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"post":       h.postService.RenderPost(content.Post),
		"is_preview": true,
	})
}

// PreviewPage mirrors PreviewPost for static pages.
func (h *BlogHandler) PreviewPage(c *gin.Context) {
	content, err := h.contentService.Load(services.LoadRequest{
		Table:        constants.TablePages,
		Slug:         c.Param("slug"),
		IncludeDraft: true,
	})
	if err != nil {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}

	render(c, http.StatusOK, "page.html", gin.H{
		"page":       h.pageService.RenderPage(content.Page),
		"is_preview": true,
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{})
}
