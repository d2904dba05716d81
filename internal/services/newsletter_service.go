package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/repository"

	"gorm.io/gorm"
)

// ErrInvalidEmail rejects addresses that fail the basic shape check.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrInvalidToken is returned when no subscriber matches a token. An already
// flipped flag is indistinguishable from success on purpose; only a missing
// row is an error.
var ErrInvalidToken = errors.New("invalid or unknown token")

// NewsletterService drives the double opt-in lifecycle:
// pending -> confirmed <-> unsubscribed. The confirmation token is minted on
// subscribe and reused as the identity key for every later transition.
type NewsletterService struct {
	subscriberRepo *repository.SubscriberRepository
	campaignRepo   *repository.CampaignRepository
	email          *EmailService
	siteURL        string
}

func NewNewsletterService(subscriberRepo *repository.SubscriberRepository, campaignRepo *repository.CampaignRepository, email *EmailService, siteURL string) *NewsletterService {
	return &NewsletterService{
		subscriberRepo: subscriberRepo,
		campaignRepo:   campaignRepo,
		email:          email,
		siteURL:        strings.TrimRight(siteURL, "/"),
	}
}

// Subscribe upserts the subscriber row with a fresh token and sends the
// confirmation email. A failed send does not roll the row back; the address
// simply stays pending until it re-subscribes (which mints a new token).
func (s *NewsletterService) Subscribe(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	token, err := mintToken()
	if err != nil {
		return fmt.Errorf("failed to mint confirmation token: %w", err)
	}

	subscriber := &models.Subscriber{
		Email:             email,
		ConfirmationToken: token,
	}
	if err := s.subscriberRepo.Upsert(subscriber); err != nil {
		return fmt.Errorf("failed to store subscriber: %w", err)
	}

	confirmURL := fmt.Sprintf("%s/api/newsletter/confirm?token=%s", s.siteURL, token)
	msg := EmailMessage{
		To:      []string{email},
		Subject: "Potrdite prijavo na novičke",
		HTML: fmt.Sprintf(
			`<p>Hvala za prijavo na novičke.</p><p>Prijavo potrdite s klikom na <a href="%s">to povezavo</a>.</p><p>Če se niste prijavili vi, to sporočilo prezrite.</p>`,
			confirmURL),
	}
	if err := s.email.Send(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// Confirm flips the subscriber to confirmed. The token is kept: it doubles
// as the unsubscribe key in the welcome email.
func (s *NewsletterService) Confirm(token string) error {
	subscriber, err := s.subscriberRepo.FindByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInvalidToken
		}
		return err
	}

	if err := s.subscriberRepo.UpdateFields(subscriber.ID, map[string]interface{}{
		"confirmed": true,
	}); err != nil {
		return err
	}

	msg := EmailMessage{
		To:      []string{subscriber.Email},
		Subject: "Dobrodošli med naročniki",
		HTML: fmt.Sprintf(
			`<p>Prijava je potrjena, hvala!</p><p>Od novičk se lahko kadarkoli odjavite preko <a href="%s">te povezave</a>.</p>`,
			s.unsubscribeURL(subscriber.ConfirmationToken)),
	}
	if err := s.email.Send(msg); err != nil {
		// The confirmation itself stands; only the welcome mail failed.
		log.Printf("failed to send welcome email to %s: %v", subscriber.Email, err)
	}
	return nil
}

// Unsubscribe flips the unsubscribed flag and stamps the time.
func (s *NewsletterService) Unsubscribe(token string) error {
	subscriber, err := s.subscriberRepo.FindByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInvalidToken
		}
		return err
	}
	now := time.Now()
	return s.subscriberRepo.UpdateFields(subscriber.ID, map[string]interface{}{
		"unsubscribed":    true,
		"unsubscribed_at": &now,
	})
}

// Resubscribe clears the unsubscribed flag again, reusing the same token.
func (s *NewsletterService) Resubscribe(token string) error {
	subscriber, err := s.subscriberRepo.FindByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInvalidToken
		}
		return err
	}
	now := time.Now()
	return s.subscriberRepo.UpdateFields(subscriber.ID, map[string]interface{}{
		"unsubscribed":    false,
		"resubscribed_at": &now,
	})
}

// Broadcast sends one campaign to every confirmed, non-unsubscribed address
// as a single provider batch, each message personalized only by its own
// unsubscribe link, then records the audit row. The recorded count reflects
// attempted recipients, not provider-confirmed deliveries.
func (s *NewsletterService) Broadcast(subject, bodyHTML string) (int, error) {
	recipients, err := s.subscriberRepo.FindActive()
	if err != nil {
		return 0, fmt.Errorf("failed to load recipients: %w", err)
	}

	msgs := make([]EmailMessage, len(recipients))
	for i, r := range recipients {
		msgs[i] = EmailMessage{
			To:      []string{r.Email},
			Subject: subject,
			HTML: fmt.Sprintf(
				`%s<hr><p><a href="%s">Odjava od novičk</a></p>`,
				bodyHTML, s.unsubscribeURL(r.ConfirmationToken)),
		}
	}

	if err := s.email.SendBatch(msgs); err != nil {
		return 0, fmt.Errorf("failed to submit campaign batch: %w", err)
	}

	campaign := &models.Campaign{
		Subject: subject,
		Body:    bodyHTML,
		SentTo:  len(recipients),
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		// The batch is already submitted; losing the audit row is logged,
		// not fatal.
		log.Printf("failed to record campaign %q: %v", subject, err)
	}

	return len(recipients), nil
}

// BroadcastPost announces one published post, linking to its public URL.
func (s *NewsletterService) BroadcastPost(post *models.Post) (int, error) {
	postURL := fmt.Sprintf("%s/category/%s/%s", s.siteURL, post.Category.Slug, post.Slug)
	body := fmt.Sprintf(
		`<h2>%s</h2><p>%s</p><p><a href="%s">Preberite celoten zapis</a></p>`,
		post.Title, post.Description, postURL)
	return s.Broadcast("Nov zapis: "+post.Title, body)
}

// GetCampaignsPage lists past campaigns, newest first, with the subscriber
// count shown alongside them in the dashboard.
func (s *NewsletterService) GetCampaignsPage(page, pageSize int) ([]models.Campaign, int, error) {
	campaigns, err := s.campaignRepo.FindPage(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaignRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return campaigns, int(total), nil
}

func (s *NewsletterService) SubscriberCount() (int, error) {
	count, err := s.subscriberRepo.Count()
	return int(count), err
}

func (s *NewsletterService) unsubscribeURL(token string) string {
	return fmt.Sprintf("%s/api/newsletter/unsubscribe?token=%s", s.siteURL, token)
}

// mintToken returns 32 hex characters from a cryptographically random source.
func mintToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// validEmail performs the minimal shape check: something before and after a
// single "@", with a dot in the domain. Real validation is the double opt-in.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}
