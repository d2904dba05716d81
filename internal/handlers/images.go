package handlers

import (
	"log"
	"net/http"

	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageHandler serves the editor's image needs: stock-photo search across the
// configured providers, uploads into the local bucket, and object deletion.
type ImageHandler struct {
	providers map[string]services.ImageProvider
	storage   *services.StorageService
}

func NewImageHandler(storage *services.StorageService, providers ...services.ImageProvider) *ImageHandler {
	byName := make(map[string]services.ImageProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &ImageHandler{providers: byName, storage: storage}
}

// Search proxies one provider query. Provider failures degrade to an empty
// result list so the editor keeps working without stock photos.
func (h *ImageHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Vnesite iskalni niz."})
		return
	}

	providerName := c.DefaultQuery("provider", "unsplash")
	provider, ok := h.providers[providerName]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neznan ponudnik slik."})
		return
	}

	results, err := provider.Search(query)
	if err != nil {
		log.Printf("image search via %s failed: %v", providerName, err)
		results = []services.ImageResult{}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results})
}

// Upload stores one image into the bucket and returns its path and public URL.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Slika ni bila naložena."})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Odpiranje slike ni uspelo."})
		return
	}
	defer src.Close()

	path, url, err := h.storage.Upload(file.Filename, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Nalaganje slike ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "path": path, "url": url})
}

// Delete removes one stored object; a missing object still reports success.
func (h *ImageHandler) Delete(c *gin.Context) {
	path := c.PostForm("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Manjka pot do slike."})
		return
	}

	if err := h.storage.Remove(path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Brisanje slike ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Slika je izbrisana."})
}
