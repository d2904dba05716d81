package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/gin-gonic/gin"
)

// SEOHandler serves the crawler-facing endpoints: sitemap, robots and the
// RSS feed. Only published content is listed.
type SEOHandler struct {
	postService     *services.PostService
	pageService     *services.PageService
	categoryService *services.CategoryService
	settingService  *services.SettingService
	siteURL         string
}

func NewSEOHandler(postService *services.PostService, pageService *services.PageService, categoryService *services.CategoryService, settingService *services.SettingService, siteURL string) *SEOHandler {
	return &SEOHandler{
		postService:     postService,
		pageService:     pageService,
		categoryService: categoryService,
		settingService:  settingService,
		siteURL:         strings.TrimRight(siteURL, "/"),
	}
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (h *SEOHandler) Sitemap(c *gin.Context) {
	urls := []sitemapURL{{Loc: h.siteURL + "/"}}

	categories, err := h.categoryService.GetAllCategories()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	for _, cat := range categories {
		urls = append(urls, sitemapURL{Loc: fmt.Sprintf("%s/category/%s", h.siteURL, cat.Slug)})
	}

	posts, err := h.postService.GetAllPublished()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     fmt.Sprintf("%s/category/%s/%s", h.siteURL, p.Category.Slug, p.Slug),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}

	pages, err := h.pageService.GetAllPublished()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{
			Loc:     fmt.Sprintf("%s/page/%s", h.siteURL, p.Slug),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Status(http.StatusOK)
	c.Writer.WriteString(xml.Header)
	xml.NewEncoder(c.Writer).Encode(sitemap)
}

func (h *SEOHandler) Robots(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nDisallow: /admin\nDisallow: /login\nDisallow: /settings\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", h.siteURL)
	c.String(http.StatusOK, body)
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

func (h *SEOHandler) Feed(c *gin.Context) {
	posts, err := h.postService.GetAllPublished()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build feed")
		return
	}

	settings, _ := h.settingService.GetAllSettings()

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := fmt.Sprintf("%s/category/%s/%s", h.siteURL, p.Category.Slug, p.Slug)
		pubDate := p.CreatedAt
		if p.PublishedAt != nil {
			pubDate = *p.PublishedAt
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Description,
			GUID:        link,
			PubDate:     pubDate.Format(time.RFC1123Z),
		})
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       settings[constants.SettingSiteTitle],
			Link:        h.siteURL,
			Description: settings[constants.SettingSiteDescription],
			Items:       items,
		},
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Status(http.StatusOK)
	c.Writer.WriteString(xml.Header)
	xml.NewEncoder(c.Writer).Encode(feed)
}
