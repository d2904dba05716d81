package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-gonic/gin"
)

func setupSEORouter(t *testing.T) (*gin.Engine, *services.PostService, *services.PageService, *services.CategoryService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := utils.InitDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	postService := services.NewPostService(postRepo, categoryRepo)
	pageService := services.NewPageService(pageRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	settingService := services.NewSettingService(settingRepo)

	seoHandler := NewSEOHandler(postService, pageService, categoryService, settingService, "https://blog.example.com")

	r := gin.New()
	r.GET("/sitemap.xml", seoHandler.Sitemap)
	r.GET("/robots.txt", seoHandler.Robots)
	r.GET("/feed.xml", seoHandler.Feed)

	return r, postService, pageService, categoryService
}

func TestSitemapListsPublishedContentOnly(t *testing.T) {
	router, postService, pageService, categoryService := setupSEORouter(t)

	category, err := categoryService.CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	seedPost(t, postService, category.ID, "Objavljen zapis", false)
	seedPost(t, postService, category.ID, "Skrit osnutek", true)

	for _, page := range []struct {
		title string
		draft bool
	}{{"O meni", false}, {"Skrita stran", true}} {
		p := &models.Page{
			Title:       page.title,
			ContentMD:   "Vsebina strani.",
			Description: "Opis.",
			IsDraft:     page.draft,
		}
		if err := pageService.CreatePage(p); err != nil {
			t.Fatalf("failed to seed page: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()

	if !strings.Contains(body, "https://blog.example.com/category/vrt/objavljen-zapis") {
		t.Error("published post URL missing from sitemap")
	}
	// Pages are routed under /page/, so the sitemap must emit that prefix.
	if !strings.Contains(body, "https://blog.example.com/page/o-meni") {
		t.Error("published page URL missing or not under /page/")
	}
	if strings.Contains(body, "skrit-osnutek") {
		t.Error("draft post leaked into the sitemap")
	}
	if strings.Contains(body, "skrita-stran") {
		t.Error("draft page leaked into the sitemap")
	}
}

func TestRobotsPointsAtSitemap(t *testing.T) {
	router, _, _, _ := setupSEORouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/robots.txt", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Error("robots.txt must link the sitemap")
	}
	if !strings.Contains(body, "Disallow: /admin") {
		t.Error("robots.txt must disallow the dashboard")
	}
}
