package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the Bearer-token guarded machine API for posts.
type APIHandler struct {
	postService *services.PostService
}

func NewAPIHandler(postService *services.PostService) *APIHandler {
	return &APIHandler{
		postService: postService,
	}
}

type apiPostRequest struct {
	Title       string     `json:"title" binding:"required"`
	ContentMD   string     `json:"content_md" binding:"required"`
	Description string     `json:"description"`
	Intro       string     `json:"intro"`
	Conclusion  string     `json:"conclusion"`
	Category    string     `json:"category"`
	IsDraft     bool       `json:"is_draft"`
	PublishedAt *time.Time `json:"published_at"`
}

// CreatePost accepts a full Markdown body, bypassing the section editor.
// The category is resolved or created by name.
func (h *APIHandler) CreatePost(c *gin.Context) {
	var req apiPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	backup := models.PostBackup{
		Title:       req.Title,
		ContentMD:   req.ContentMD,
		Description: req.Description,
		Intro:       req.Intro,
		Conclusion:  req.Conclusion,
		Category:    req.Category,
		IsDraft:     req.IsDraft,
		PublishedAt: req.PublishedAt,
	}
	if err := h.postService.CreatePostsFromBackup([]models.PostBackup{backup}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "created", "title": req.Title})
}

// FindPosts lists or searches published posts.
func (h *APIHandler) FindPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	query := c.Query("query")

	var posts []models.RenderedPost
	var total int
	var err error

	if query != "" {
		posts, total, err = h.postService.SearchPublishedPostsPage(query, page, pageSize)
	} else {
		posts, total, err = h.postService.GetPublishedPage(page, pageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"total": total,
	})
}
