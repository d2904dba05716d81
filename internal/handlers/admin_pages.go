package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fmujezinovic/mojblog/internal/editor"
	"github.com/fmujezinovic/mojblog/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *AdminHandler) ListPages(c *gin.Context) {
	pages, err := h.pageService.GetAllPages()
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje strani ni uspelo.")
		return
	}

	render(c, http.StatusOK, "admin_pages.html", gin.H{
		"pages": pages,
	})
}

func (h *AdminHandler) NewPage(c *gin.Context) {
	render(c, http.StatusOK, "editor_page.html", gin.H{
		"editor": editor.NewPageEditor(h.storageService),
	})
}

func (h *AdminHandler) EditPage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin/pages")
		return
	}

	page, err := h.pageService.GetPageByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusFound, "/admin/pages")
		return
	}

	render(c, http.StatusOK, "editor_page.html", gin.H{
		"editor": editor.LoadPage(page, h.storageService),
	})
}

func (h *AdminHandler) SavePage(c *gin.Context) {
	ed, err := h.parsePageForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	page, err := ed.Save(h.pageService)
	if err != nil {
		var vErr *editor.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": vErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Shranjevanje strani ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Stran je shranjena.",
		"page_id": page.ID,
		"slug":    page.Slug,
	})
}

func (h *AdminHandler) DeletePage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljaven ID strani."})
		return
	}

	if err := h.pageService.DeletePage(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Brisanje strani ni uspelo."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Stran je izbrisana."})
}

func (h *AdminHandler) parsePageForm(c *gin.Context) (*editor.PageEditor, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		return nil, errors.New("Neveljavni podatki obrazca.")
	}

	var id uint
	if idStr := c.PostForm("id"); idStr != "" && idStr != "0" {
		parsed, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, errors.New("Neveljaven ID strani.")
		}
		id = uint(parsed)
	}

	publishedAt, err := parsePublishedAt(c.PostForm("published_at"))
	if err != nil {
		return nil, err
	}

	return &editor.PageEditor{
		ID:            id,
		Title:         strings.TrimSpace(c.PostForm("title")),
		Description:   strings.TrimSpace(c.PostForm("description")),
		ContentMD:     c.PostForm("content"),
		CoverImageURL: c.PostForm("cover_url"),
		CoverPath:     c.PostForm("cover_path"),
		ImagesURLs:    models.StringList(c.PostFormArray("image_url")),
		IsDraft:       c.PostForm("is_draft") == "on",
		PublishedAt:   publishedAt,
	}, nil
}
