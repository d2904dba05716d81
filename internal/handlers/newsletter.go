package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"

	"github.com/gin-gonic/gin"
)

// NewsletterHandler exposes the public subscription endpoints and the
// dashboard broadcast actions.
type NewsletterHandler struct {
	newsletterService *services.NewsletterService
	postService       *services.PostService
}

func NewNewsletterHandler(newsletterService *services.NewsletterService, postService *services.PostService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
		postService:       postService,
	}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe starts the double opt-in: the address is stored pending and a
// confirmation email goes out.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Vnesite e-poštni naslov."})
		return
	}

	if err := h.newsletterService.Subscribe(req.Email); err != nil {
		if err == services.ErrInvalidEmail {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Neveljaven e-poštni naslov."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Prijava trenutno ni mogoča, poskusite kasneje."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Hvala! Preverite e-pošto in potrdite prijavo."})
}

// Confirm lands from the emailed link, so it answers with a page rather
// than JSON.
func (h *NewsletterHandler) Confirm(c *gin.Context) {
	if err := h.newsletterService.Confirm(c.Query("token")); err != nil {
		render(c, http.StatusBadRequest, "newsletter_status.html", gin.H{
			"message": "Povezava za potrditev ni veljavna.",
		})
		return
	}

	render(c, http.StatusOK, "newsletter_status.html", gin.H{
		"message": "Prijava na novičke je potrjena. Dobrodošli!",
	})
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if err := h.newsletterService.Unsubscribe(token); err != nil {
		render(c, http.StatusBadRequest, "newsletter_status.html", gin.H{
			"message": "Povezava za odjavo ni veljavna.",
		})
		return
	}

	render(c, http.StatusOK, "newsletter_status.html", gin.H{
		"message":        "Odjava je uspela. Če ste si premislili, se lahko spodaj znova prijavite.",
		"resubscribeURL": "/api/newsletter/resubscribe?token=" + token,
	})
}

func (h *NewsletterHandler) Resubscribe(c *gin.Context) {
	if err := h.newsletterService.Resubscribe(c.Query("token")); err != nil {
		render(c, http.StatusBadRequest, "newsletter_status.html", gin.H{
			"message": "Povezava za ponovno prijavo ni veljavna.",
		})
		return
	}

	render(c, http.StatusOK, "newsletter_status.html", gin.H{
		"message": "Ponovna prijava je uspela, novičke spet prihajajo.",
	})
}

// ListCampaigns shows the broadcast history in the dashboard.
func (h *NewsletterHandler) ListCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize := 10

	campaigns, total, err := h.newsletterService.GetCampaignsPage(page, pageSize)
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje kampanj ni uspelo.")
		return
	}

	subscribers, err := h.newsletterService.SubscriberCount()
	if err != nil {
		c.String(http.StatusInternalServerError, "Nalaganje naročnikov ni uspelo.")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	pagination := utils.GeneratePagination(page, totalPages)

	render(c, http.StatusOK, "campaigns.html", gin.H{
		"campaigns":       campaigns,
		"subscriberCount": subscribers,
		"Pagination":      pagination,
	})
}

// SendCampaign broadcasts a custom subject and HTML body to every active
// subscriber.
func (h *NewsletterHandler) SendCampaign(c *gin.Context) {
	subject := c.PostForm("subject")
	body := c.PostForm("body")
	if subject == "" || body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Zadeva in vsebina ne smeta biti prazni."})
		return
	}

	sent, err := h.newsletterService.Broadcast(subject, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Pošiljanje ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Novičke poslane " + strconv.Itoa(sent) + " naročnikom."})
}

// SendLatestPost broadcasts the newest published post.
func (h *NewsletterHandler) SendLatestPost(c *gin.Context) {
	post, err := h.postService.GetLatestPublished()
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Ni objavljenih zapisov za pošiljanje."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Nalaganje zadnjega zapisa ni uspelo."})
		return
	}

	sent, err := h.newsletterService.BroadcastPost(post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Pošiljanje ni uspelo: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Zapis »" + post.Title + "« poslan " + strconv.Itoa(sent) + " naročnikom."})
}
