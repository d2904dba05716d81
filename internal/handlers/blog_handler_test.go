package handlers

import (
	"html/template"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// createTestRenderer loads the public templates from the filesystem. The CWD
// during tests is the package directory, so the project root is resolved from
// this file's location.
func createTestRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	_, b, _, ok := runtime.Caller(0)
	if !ok {
		log.Fatalf("Failed to get current file path")
	}
	projectRoot := filepath.Join(filepath.Dir(b), "..", "..")
	templatesDir := filepath.Join(projectRoot, "templates")

	add := func(name string, files ...string) {
		for i, f := range files {
			files[i] = filepath.Join(templatesDir, f)
		}
		tpl, err := template.ParseFiles(files...)
		if err != nil {
			log.Fatalf("Failed to parse template %s: %v", name, err)
		}
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_pagination.html")
	add("category.html", "base.html", "category.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("page.html", "base.html", "page.html")
	add("search.html", "base.html", "search.html", "_pagination.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")

	return r
}

// setupTestRouter wires the public routes against a throwaway database and
// returns the services for seeding.
func setupTestRouter(tb testing.TB) (*gin.Engine, *services.PostService, *services.PageService, *services.CategoryService) {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	db, err := utils.InitDatabase(filepath.Join(tb.TempDir(), "test.db"))
	if err != nil {
		tb.Fatalf("failed to initialize database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingService := services.NewSettingService(settingRepo)
	postService := services.NewPostService(postRepo, categoryRepo)
	pageService := services.NewPageService(pageRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	contentService := services.NewContentService(postRepo, pageRepo, categoryRepo)

	blogHandler := NewBlogHandler(postService, pageService, categoryService, contentService)
	searchHandler := NewSearchHandler(postService)

	r := gin.New()
	r.HTMLRender = createTestRenderer()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(SettingsMiddleware(settingService))

	r.GET("/", blogHandler.Index)
	r.GET("/category/:category", blogHandler.ShowCategory)
	r.GET("/category/:category/:slug", blogHandler.ShowPost)
	r.GET("/page/:slug", blogHandler.ShowPage)
	r.GET("/search", searchHandler.Search)
	r.GET("/preview/post/:slug", blogHandler.PreviewPost)
	r.NoRoute(blogHandler.NotFound)

	return r, postService, pageService, categoryService
}

func seedPost(tb testing.TB, postService *services.PostService, categoryID uint, title string, draft bool) *models.Post {
	tb.Helper()
	post := &models.Post{
		Title:       title,
		ContentMD:   "## Poglavje\n\nVsebina poglavja o vrtnarjenju.",
		Description: "Testni opis.",
		CategoryID:  categoryID,
		IsDraft:     draft,
	}
	if err := postService.CreatePost(post); err != nil {
		tb.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestIndexListsPublishedPosts(t *testing.T) {
	router, postService, _, categoryService := setupTestRouter(t)

	category, err := categoryService.CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	seedPost(t, postService, category.ID, "Objavljen zapis", false)
	seedPost(t, postService, category.ID, "Skrit osnutek", true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Objavljen zapis") {
		t.Errorf("expected published post on index")
	}
	if strings.Contains(body, "Skrit osnutek") {
		t.Errorf("draft must not appear on index")
	}
}

func TestShowPostResolvesCategoryAndSlug(t *testing.T) {
	router, postService, _, categoryService := setupTestRouter(t)

	category, err := categoryService.CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	other, err := categoryService.CreateCategory("Kuhinja")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	post := seedPost(t, postService, category.ID, "Zapis o paradižniku", false)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"matching category", "/category/" + category.Slug + "/" + post.Slug, http.StatusOK},
		{"wrong category", "/category/" + other.Slug + "/" + post.Slug, http.StatusNotFound},
		{"unknown category", "/category/neobstojeca/" + post.Slug, http.StatusNotFound},
		{"unknown slug", "/category/" + category.Slug + "/neobstojec", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tc.path, nil)
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("GET %s = %d, want %d", tc.path, w.Code, tc.want)
			}
		})
	}
}

func TestDraftPostHiddenPubliclyButPreviews(t *testing.T) {
	router, postService, _, categoryService := setupTestRouter(t)

	category, err := categoryService.CreateCategory("Vrt")
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	draft := seedPost(t, postService, category.ID, "Osnutek", true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/category/"+category.Slug+"/"+draft.Slug, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("public draft fetch = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/preview/post/"+draft.Slug, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("preview draft fetch = %d, want 200", w.Code)
	}
}

func TestShowPageAndDraftGating(t *testing.T) {
	router, _, pageService, _ := setupTestRouter(t)

	published := &models.Page{
		Title:       "O meni",
		ContentMD:   "Nekaj o avtorju.",
		Description: "Opis strani.",
	}
	if err := pageService.CreatePage(published); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	draft := &models.Page{
		Title:       "Skrita stran",
		ContentMD:   "Še ni nared.",
		Description: "Opis.",
		IsDraft:     true,
	}
	if err := pageService.CreatePage(draft); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/page/"+published.Slug, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("published page fetch = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/page/"+draft.Slug, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("draft page fetch = %d, want 404", w.Code)
	}
}

func BenchmarkGetIndex(b *testing.B) {
	router, postService, _, categoryService := setupTestRouter(b)

	category, err := categoryService.CreateCategory("Vrt")
	if err != nil {
		b.Fatalf("failed to create category: %v", err)
	}
	for i := 0; i < 20; i++ {
		seedPost(b, postService, category.ID, "Zapis "+string(rune('A'+i)), false)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		router.ServeHTTP(w, req)
	}
}
