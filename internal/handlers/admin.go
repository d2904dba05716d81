package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/editor"
	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	postService     *services.PostService
	pageService     *services.PageService
	categoryService *services.CategoryService
	settingService  *services.SettingService
	aiService       *services.AIService
	authService     *services.AuthService
	storageService  *services.StorageService
	backupService   *services.BackupService

	// onSettingsChanged is invoked after a successful settings update so the
	// task scheduler can pick up new cron specs.
	onSettingsChanged func()
}

// OnSettingsChanged registers the callback fired after settings updates.
func (h *AdminHandler) OnSettingsChanged(fn func()) {
	h.onSettingsChanged = fn
}

func NewAdminHandler(postService *services.PostService, pageService *services.PageService, categoryService *services.CategoryService, settingService *services.SettingService, aiService *services.AIService, authService *services.AuthService, storageService *services.StorageService, backupService *services.BackupService) *AdminHandler {
	return &AdminHandler{
		postService:     postService,
		pageService:     pageService,
		categoryService: categoryService,
		settingService:  settingService,
		aiService:       aiService,
		authService:     authService,
		storageService:  storageService,
		backupService:   backupService,
	}
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	query := c.Query("query")
	status := c.DefaultQuery("status", "all")
	pageSize := 10

	posts, total, err := h.postService.GetPostsPageByAdmin(page, pageSize, query, status)
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje zapisov ni uspelo.")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	pagination := utils.GeneratePagination(page, totalPages)

	session := sessions.Default(c)
	flashes := session.Flashes("success")
	session.Save() // Clear flashes after reading

	render(c, http.StatusOK, "admin.html", gin.H{
		"posts":      posts,
		"Pagination": pagination,
		"Query":      query,
		"Status":     status,
		"Flashes":    flashes,
	})
}

func (h *AdminHandler) NewPost(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje kategorij ni uspelo.")
		return
	}

	render(c, http.StatusOK, "editor.html", gin.H{
		"editor":     editor.NewPostEditor(h.storageService),
		"categories": categories,
	})
}

func (h *AdminHandler) EditPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	post, err := h.postService.GetPostByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje kategorij ni uspelo.")
		return
	}

	render(c, http.StatusOK, "editor.html", gin.H{
		"editor":     editor.LoadPost(post, h.storageService),
		"categories": categories,
	})
}

// SavePost rebuilds the editor state from the submitted form and performs the
// single validate-then-save step. Validation failures come back as 400s with
// the message shown inline in the form.
func (h *AdminHandler) SavePost(c *gin.Context) {
	ed, err := h.parsePostForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	post, err := ed.Save(h.postService)
	if err != nil {
		var vErr *editor.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": vErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Shranjevanje zapisa ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Zapis je shranjen.",
		"post_id": post.ID,
		"slug":    post.Slug,
	})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljaven ID zapisa."})
		return
	}

	if err := h.postService.DeletePost(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Brisanje zapisa ni uspelo."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Zapis je izbrisan."})
}

// parsePostForm maps the flat form into editor state. Section fields arrive
// as parallel arrays, one entry per section, in form order.
func (h *AdminHandler) parsePostForm(c *gin.Context) (*editor.PostEditor, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		return nil, errors.New("Neveljavni podatki obrazca.")
	}

	var id uint
	if idStr := c.PostForm("id"); idStr != "" && idStr != "0" {
		parsed, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, errors.New("Neveljaven ID zapisa.")
		}
		id = uint(parsed)
	}

	var categoryID uint
	if catStr := c.PostForm("category_id"); catStr != "" {
		parsed, err := strconv.ParseUint(catStr, 10, 64)
		if err != nil {
			return nil, errors.New("Neveljavna kategorija.")
		}
		categoryID = uint(parsed)
	}

	publishedAt, err := parsePublishedAt(c.PostForm("published_at"))
	if err != nil {
		return nil, err
	}

	ed := &editor.PostEditor{
		ID:          id,
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Intro:       c.PostForm("intro"),
		Conclusion:  c.PostForm("conclusion"),
		CategoryID:  categoryID,
		IsDraft:     c.PostForm("is_draft") == "on",
		PublishedAt: publishedAt,
		Cover: models.ImageRef{
			URL:  c.PostForm("cover_url"),
			Path: c.PostForm("cover_path"),
		},
		Sections: parseSectionArrays(c),
	}
	return ed, nil
}

func parseSectionArrays(c *gin.Context) []utils.Section {
	headings := c.PostFormArray("section_heading")
	contents := c.PostFormArray("section_content")
	imageURLs := c.PostFormArray("section_image_url")
	imagePaths := c.PostFormArray("section_image_path")

	sections := make([]utils.Section, len(headings))
	for i := range headings {
		sections[i].Heading = strings.TrimSpace(headings[i])
		if i < len(contents) {
			sections[i].Content = strings.TrimSpace(contents[i])
		}
		if i < len(imageURLs) {
			sections[i].ImageURL = imageURLs[i]
		}
		if i < len(imagePaths) {
			sections[i].UploadedImagePath = imagePaths[i]
		}
	}
	return sections
}

func parsePublishedAt(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation("Europe/Ljubljana")
	if err != nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		return nil, errors.New("Neveljavna oblika datuma objave.")
	}
	return &t, nil
}

// GenerateDescription proxies one AI call for the editor's description field.
func (h *AdminHandler) GenerateDescription(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	settings, _ := h.settingService.GetAllSettings()
	description, err := h.aiService.GenerateDescription(title, content,
		settings[constants.SettingOpenAIBaseURL],
		settings[constants.SettingOpenAIToken],
		settings[constants.SettingOpenAIModel])
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Generiranje opisa ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "description": description})
}

// GenerateSection proxies one AI call drafting a single section body.
func (h *AdminHandler) GenerateSection(c *gin.Context) {
	title := c.PostForm("title")
	heading := c.PostForm("heading")
	if heading == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Poglavje potrebuje naslov."})
		return
	}

	settings, _ := h.settingService.GetAllSettings()
	content, err := h.aiService.GenerateSectionDraft(title, heading,
		settings[constants.SettingOpenAIBaseURL],
		settings[constants.SettingOpenAIToken],
		settings[constants.SettingOpenAIModel])
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Generiranje besedila ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "content": content})
}

func (h *AdminHandler) ShowSettingsPage(c *gin.Context) {
	// The render function will automatically inject settings from the context.
	render(c, http.StatusOK, "settings.html", gin.H{})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljavni podatki obrazca."})
		return
	}

	// A non-empty new password goes through the auth service, not the
	// settings table.
	if newPassword := c.PostForm("new_password"); newPassword != "" {
		userID, ok := c.Get(constants.ContextKeyUserID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Seja je potekla."})
			return
		}
		if err := h.authService.ChangePassword(userID.(uint), newPassword); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Menjava gesla ni uspela: " + err.Error()})
			return
		}
	}

	settingsToUpdate := make(map[string]string)
	for key, values := range c.Request.PostForm {
		if len(values) == 0 || key == "new_password" {
			continue
		}
		value := values[0]
		// Credential fields keep their stored value when submitted empty.
		if sensitiveSetting(key) && value == "" {
			continue
		}
		settingsToUpdate[key] = value
	}

	if err := h.settingService.UpdateSettings(settingsToUpdate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Shranjevanje nastavitev ni uspelo."})
		return
	}

	if h.onSettingsChanged != nil {
		h.onSettingsChanged()
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Nastavitve so shranjene."})
}

func (h *AdminHandler) TestAISettings(c *gin.Context) {
	baseURL := c.PostForm("openai_base_url")
	token := c.PostForm("openai_token")
	model := c.PostForm("openai_model")

	if token == "" {
		settings, err := h.settingService.GetAllSettings()
		if err == nil {
			token = settings[constants.SettingOpenAIToken]
		}
	}

	_, err := h.aiService.GenerateDescription("Testni zapis", "Kratko testno besedilo za preverjanje povezave.", baseURL, token, model)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Preizkus ni uspel: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Preizkus je uspel, povezava in nastavitve delujejo."})
}

// TestBackupSettings checks the GitHub or WebDAV credentials from the
// settings form before they are saved. Blank form fields fall back to the
// stored values, matching how the form leaves secrets empty.
func (h *AdminHandler) TestBackupSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Branje nastavitev ni uspelo."})
		return
	}
	formOrStored := func(field, key string) string {
		if v := c.PostForm(field); v != "" {
			return v
		}
		return settings[key]
	}

	switch c.PostForm("target") {
	case "github":
		err = h.backupService.TestGithubConnection(
			formOrStored("github_repo", constants.SettingGithubRepo),
			formOrStored("github_token", constants.SettingGithubToken))
	case "webdav":
		err = h.backupService.TestWebdavConnection(
			formOrStored("webdav_url", constants.SettingWebdavURL),
			formOrStored("webdav_user", constants.SettingWebdavUser),
			formOrStored("webdav_password", constants.SettingWebdavPassword))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neznana tarča preizkusa."})
		return
	}

	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Preizkus ni uspel: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Povezava deluje."})
}

// RebuildSearchIndex re-derives the full-text index from the posts table,
// for recovery after an import or a corrupted index.
func (h *AdminHandler) RebuildSearchIndex(c *gin.Context) {
	if err := h.postService.RebuildSearchIndex(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Obnova iskalnega indeksa ni uspela: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Iskalni indeks je obnovljen."})
}

// ExportBackup streams the full content export as a ZIP download.
func (h *AdminHandler) ExportBackup(c *gin.Context) {
	posts, err := h.postService.GetAllPostsForBackup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Branje zapisov ni uspelo: " + err.Error()})
		return
	}
	pages, err := h.pageService.GetAllPagesForBackup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Branje strani ni uspelo: " + err.Error()})
		return
	}

	backup := models.SiteBackup{Posts: posts, Pages: pages}
	jsonData, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Priprava izvoza ni uspela: " + err.Error()})
		return
	}

	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)
	zipFile, err := zipWriter.Create("backup.json")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Priprava arhiva ni uspela: " + err.Error()})
		return
	}
	if _, err := zipFile.Write(jsonData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Zapis arhiva ni uspel: " + err.Error()})
		return
	}
	zipWriter.Close()

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=mojblog_backup_%s.zip", time.Now().Format("20060102150405")))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// ImportBackup accepts a previous export (plain JSON or the ZIP download)
// and imports its posts and pages.
func (h *AdminHandler) ImportBackup(c *gin.Context) {
	file, err := c.FormFile("backup")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Datoteka ni bila naložena: " + err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Odpiranje datoteke ni uspelo: " + err.Error()})
		return
	}
	defer src.Close()

	var jsonReader io.Reader = src

	if strings.HasSuffix(file.Filename, ".zip") {
		fileBytes, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Branje datoteke ni uspelo: " + err.Error()})
			return
		}

		zipReader, err := zip.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljavna ZIP datoteka: " + err.Error()})
			return
		}

		if len(zipReader.File) == 0 || zipReader.File[0].Name != "backup.json" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "V ZIP datoteki ni backup.json."})
			return
		}

		jsonFile, err := zipReader.File[0].Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Odpiranje backup.json ni uspelo: " + err.Error()})
			return
		}
		defer jsonFile.Close()
		jsonReader = jsonFile
	}

	var backup models.SiteBackup
	if err := json.NewDecoder(jsonReader).Decode(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Razčlenitev JSON podatkov ni uspela: " + err.Error()})
		return
	}

	if err := h.postService.CreatePostsFromBackup(backup.Posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Uvoz zapisov ni uspel: " + err.Error()})
		return
	}
	if err := h.pageService.CreatePagesFromBackup(backup.Pages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Uvoz strani ni uspel: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("Uvoženih %d zapisov in %d strani.", len(backup.Posts), len(backup.Pages))})
}
