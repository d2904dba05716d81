package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/fmujezinovic/mojblog/internal/constants"
	"github.com/fmujezinovic/mojblog/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// APIAuthMiddleware checks for a valid Bearer token.
func APIAuthMiddleware(settingService *services.SettingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiToken, err := settingService.GetSetting(constants.SettingAPIToken)
		if err != nil || apiToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API token is not configured"})
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be of the form Bearer {token}"})
			c.Abort()
			return
		}

		if parts[1] != apiToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthMiddleware gates dashboard routes: a session must be present and the
// account behind it must carry the admin role.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.SessionKeyUserID).(uint)
		if !ok || userID == 0 {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user, err := authService.GetUser(userID)
		if err != nil || !user.IsAdmin() {
			// A stale session or a demoted account goes back to login.
			session.Clear()
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// SettingsMiddleware loads settings from the database and adds them to the context.
func SettingsMiddleware(settingService *services.SettingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := settingService.GetAllSettings()
		if err != nil {
			// Log the error but don't block the request.
			// The application can run with default settings.
			log.Printf("failed to load settings: %v", err)
			c.Set(constants.ContextKeySettings, make(map[string]string))
		} else {
			c.Set(constants.ContextKeySettings, settings)
		}

		// Also, add the login status to the context for the template.
		session := sessions.Default(c)
		userID, ok := session.Get(constants.SessionKeyUserID).(uint)
		c.Set(constants.ContextKeyIsLoggedIn, ok && userID != 0)

		c.Next()
	}
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	// Get settings from context
	settings, exists := c.Get(constants.ContextKeySettings)
	if exists {
		// Merge settings into the data map
		for key, value := range settings.(map[string]string) {
			// Never leak credential-bearing settings into templates.
			if sensitiveSetting(key) {
				continue
			}
			if _, ok := data[key]; !ok { // Don't overwrite existing data
				data[key] = value
			}
		}
	}

	// Get login status from context
	isLoggedIn, exists := c.Get(constants.ContextKeyIsLoggedIn)
	if exists {
		data["IsLoggedIn"] = isLoggedIn
	}

	c.HTML(status, templateName, data)
}

func sensitiveSetting(key string) bool {
	switch key {
	case constants.SettingAPIToken,
		constants.SettingOpenAIToken,
		constants.SettingGithubToken,
		constants.SettingWebdavPassword,
		constants.SettingBackupPassword:
		return true
	}
	return false
}

func isLoggedIn(c *gin.Context) bool {
	v, exists := c.Get(constants.ContextKeyIsLoggedIn)
	return exists && v.(bool)
}
