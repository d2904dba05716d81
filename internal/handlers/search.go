package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	postService *services.PostService
}

func NewSearchHandler(postService *services.PostService) *SearchHandler {
	return &SearchHandler{postService: postService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, total, err := h.postService.SearchPublishedPostsPage(query, page, postsPerPage)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Iskanje ni uspelo.",
		})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "search.html", gin.H{
		"posts":      posts,
		"query":      query,
		"Pagination": pagination,
	})
}
