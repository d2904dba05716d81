package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje kategorij ni uspelo.")
		return
	}

	render(c, http.StatusOK, "admin_categories.html", gin.H{
		"categories": categories,
	})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Ime kategorije ne sme biti prazno."})
		return
	}

	category, err := h.categoryService.CreateCategory(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Ustvarjanje kategorije ni uspelo."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Kategorija je ustvarjena.", "category": category})
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljaven ID kategorije."})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Ime kategorije ne sme biti prazno."})
		return
	}

	category, err := h.categoryService.UpdateCategory(uint(id), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Posodabljanje kategorije ni uspelo."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Kategorija je posodobljena.", "category": category})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljaven ID kategorije."})
		return
	}

	if err := h.categoryService.DeleteCategory(uint(id)); err != nil {
		if err == services.ErrCategoryInUse {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "Kategorije z obstoječimi zapisi ni mogoče izbrisati."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Brisanje kategorije ni uspelo."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Kategorija je izbrisana."})
}
