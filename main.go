package main

import (
	"flag"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/fmujezinovic/mojblog/internal/config"
	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/handlers"
	"github.com/fmujezinovic/mojblog/internal/repository"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/tasks"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Global filesystems that will be populated by either assets_dev.go or assets_prod.go at startup.
var templatesFS fs.FS
var staticFS fs.FS

func createRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	add := func(name string, files ...string) {
		tpl, err := template.ParseFS(templatesFS, files...)
		if err != nil {
			log.Fatalf("failed to parse template %s: %v", name, err)
		}
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_pagination.html")
	add("category.html", "base.html", "category.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("page.html", "base.html", "page.html")
	add("search.html", "base.html", "search.html", "_pagination.html")
	add("admin.html", "base.html", "admin.html", "_pagination.html")
	add("admin_pages.html", "base.html", "admin_pages.html")
	add("admin_categories.html", "base.html", "admin_categories.html")
	add("editor.html", "base.html", "editor.html")
	add("editor_page.html", "base.html", "editor_page.html")
	add("settings.html", "base.html", "settings.html")
	add("campaigns.html", "base.html", "campaigns.html", "_pagination.html")
	add("login.html", "base.html", "login.html")
	add("newsletter_status.html", "base.html", "newsletter_status.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")

	return r
}

func main() {
	unsafe := flag.Bool("unsafe", false, "allow insecure cookies")
	flag.Parse()

	cfg := config.Load()

	db, err := utils.InitDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingService := services.NewSettingService(settingRepo)
	applyEnvSettings(settingService, map[string]string{
		constants.SettingOpenAIBaseURL: cfg.OpenAIBaseURL,
		constants.SettingOpenAIToken:   cfg.OpenAIToken,
		constants.SettingOpenAIModel:   cfg.OpenAIModel,
	})
	authService := services.NewAuthService(userRepo)
	aiService := services.NewAIService()
	emailService := services.NewEmailService(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.EmailFrom)
	storageService := services.NewStorageService(cfg.UploadsDir, cfg.SiteURL)
	postService := services.NewPostService(postRepo, categoryRepo)
	pageService := services.NewPageService(pageRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	contentService := services.NewContentService(postRepo, pageRepo, categoryRepo)
	newsletterService := services.NewNewsletterService(subscriberRepo, campaignRepo, emailService, cfg.SiteURL)
	backupService := services.NewBackupService(postService, pageService, categoryService, settingService)

	blogHandler := handlers.NewBlogHandler(postService, pageService, categoryService, contentService)
	searchHandler := handlers.NewSearchHandler(postService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(postService, pageService, categoryService, settingService, aiService, authService, storageService, backupService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService, postService)
	imageHandler := handlers.NewImageHandler(storageService,
		services.NewUnsplashProvider(cfg.UnsplashAccessKey),
		services.NewPexelsProvider(cfg.PexelsAPIKey))
	seoHandler := handlers.NewSEOHandler(postService, pageService, categoryService, settingService, cfg.SiteURL)
	apiHandler := handlers.NewAPIHandler(postService)

	scheduler := tasks.NewScheduler(settingService, backupService, postService)
	scheduler.Start()
	defer scheduler.Stop()
	adminHandler.OnSettingsChanged(scheduler.ReloadTasks)

	r := gin.Default()
	r.HTMLRender = createRenderer()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		HttpOnly: true,
		Secure:   !*unsafe,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("mojblog_session", store))

	r.Use(handlers.SettingsMiddleware(settingService))

	r.StaticFS("/static", http.FS(staticFS))
	r.Static("/uploads", cfg.UploadsDir)

	// Public site
	r.GET("/", blogHandler.Index)
	r.GET("/category/:category", blogHandler.ShowCategory)
	r.GET("/category/:category/:slug", blogHandler.ShowPost)
	r.GET("/page/:slug", blogHandler.ShowPage)
	r.GET("/search", searchHandler.Search)
	r.GET("/sitemap.xml", seoHandler.Sitemap)
	r.GET("/robots.txt", seoHandler.Robots)
	r.GET("/feed.xml", seoHandler.Feed)

	// Newsletter opt-in lifecycle
	newsletter := r.Group("/api/newsletter")
	{
		newsletter.POST("/subscribe", newsletterHandler.Subscribe)
		newsletter.GET("/confirm", newsletterHandler.Confirm)
		newsletter.GET("/unsubscribe", newsletterHandler.Unsubscribe)
		newsletter.GET("/resubscribe", newsletterHandler.Resubscribe)
	}

	// Authentication
	r.GET("/login", authHandler.ShowLoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Dashboard
	admin := r.Group("/admin")
	admin.Use(handlers.AuthMiddleware(authService))
	{
		admin.GET("/", adminHandler.ListPosts)
		admin.GET("/new", adminHandler.NewPost)
		admin.GET("/editor", adminHandler.EditPost)
		admin.POST("/save", adminHandler.SavePost)
		admin.POST("/delete/:id", adminHandler.DeletePost)

		admin.GET("/pages", adminHandler.ListPages)
		admin.GET("/pages/new", adminHandler.NewPage)
		admin.GET("/pages/editor", adminHandler.EditPage)
		admin.POST("/pages/save", adminHandler.SavePage)
		admin.POST("/pages/delete/:id", adminHandler.DeletePage)

		admin.GET("/categories", adminHandler.ListCategories)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.POST("/categories/:id", adminHandler.UpdateCategory)
		admin.POST("/categories/delete/:id", adminHandler.DeleteCategory)

		admin.GET("/preview/post/:slug", blogHandler.PreviewPost)
		admin.GET("/preview/page/:slug", blogHandler.PreviewPage)

		admin.GET("/api/images/search", imageHandler.Search)
		admin.POST("/api/images/upload", imageHandler.Upload)
		admin.POST("/api/images/delete", imageHandler.Delete)

		admin.POST("/api/ai/description", adminHandler.GenerateDescription)
		admin.POST("/api/ai/section", adminHandler.GenerateSection)

		admin.GET("/newsletter", newsletterHandler.ListCampaigns)
		admin.POST("/newsletter/send", newsletterHandler.SendCampaign)
		admin.POST("/newsletter/send-latest", newsletterHandler.SendLatestPost)

		admin.GET("/backup/export", adminHandler.ExportBackup)
		admin.POST("/backup/import", adminHandler.ImportBackup)

		admin.POST("/api/rebuild-index", adminHandler.RebuildSearchIndex)
	}

	settings := r.Group("/settings")
	settings.Use(handlers.AuthMiddleware(authService))
	{
		settings.GET("/", adminHandler.ShowSettingsPage)
		settings.POST("/", adminHandler.UpdateSettings)
		settings.POST("/test-ai", adminHandler.TestAISettings)
		settings.POST("/test-backup", adminHandler.TestBackupSettings)
	}

	// Machine API
	api := r.Group("/api/v1")
	api.Use(handlers.APIAuthMiddleware(settingService))
	{
		api.POST("/posts", apiHandler.CreatePost)
		api.GET("/posts", apiHandler.FindPosts)
	}

	r.NoRoute(blogHandler.NotFound)

	log.Println("server listening on " + cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("server exited: ", err)
	}
}

// applyEnvSettings copies non-empty environment values over blank settings
// rows, so credentials can be provisioned by env without overriding values
// edited in the dashboard.
func applyEnvSettings(settingService *services.SettingService, env map[string]string) {
	updates := make(map[string]string)
	for key, value := range env {
		if value == "" {
			continue
		}
		if stored, _ := settingService.GetSetting(key); stored == "" {
			updates[key] = value
		}
	}
	if len(updates) == 0 {
		return
	}
	if err := settingService.UpdateSettings(updates); err != nil {
		log.Printf("failed to apply environment settings: %v", err)
	}
}
